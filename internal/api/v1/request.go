package v1

type SubmitPaymentRequest struct {
	Domain         string `json:"domain" validate:"required,paydomain"`
	Amount         int64  `json:"amount" validate:"required,min=1"`
	Target         string `json:"target" validate:"required"`
	Counterparty   string `json:"counterparty" validate:"omitempty,max=128"`
	Method         string `json:"method" validate:"required,paymethod"`
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=64"`
}

type ApplyLoanRequest struct {
	Amount         int64  `json:"amount" validate:"required,min=1"`
	Purpose        string `json:"purpose" validate:"omitempty,oneof=GENERAL EDUCATION"`
	Method         string `json:"method" validate:"required,paymethod"`
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=64"`
}

type RepayLoanRequest struct {
	LoanID         int64  `json:"loan_id" validate:"required,min=1"`
	Amount         int64  `json:"amount" validate:"required,min=1"`
	Method         string `json:"method" validate:"required,paymethod"`
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=64"`
}
