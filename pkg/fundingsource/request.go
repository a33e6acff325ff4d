package fundingsource

type MoveFundsRequest struct {
	UserID         string `json:"user_id"`
	Amount         int64  `json:"amount"`
	Method         string `json:"method"`
	PurposeTag     string `json:"purpose_tag"`
	IdempotencyKey string `json:"idempotency_key"`
}
