package service

import (
	"time"

	"github.com/finsuite/ledgergateway/internal/model"
)

type SubmitPaymentResult struct {
	RecordID  int64          `json:"record_id"`
	Status    model.TxStatus `json:"status"`
	Message   string         `json:"message"`
	Duplicate bool           `json:"duplicate"`
}

type ApplyLoanResult struct {
	LoanID    int64            `json:"loan_id"`
	RecordID  int64            `json:"record_id"`
	AmountDue int64            `json:"amount_due"`
	DueAt     time.Time        `json:"due_at"`
	Status    model.LoanStatus `json:"status"`
	Duplicate bool             `json:"duplicate"`
}

type RepayLoanResult struct {
	LoanID     int64            `json:"loan_id"`
	RecordID   int64            `json:"record_id"`
	AmountDue  int64            `json:"amount_due"`
	LoanStatus model.LoanStatus `json:"loan_status"`
	Message    string           `json:"message"`
	Duplicate  bool             `json:"duplicate"`
}

type PaymentEvent struct {
	RecordID       int64  `json:"record_id"`
	UserID         string `json:"user_id"`
	Kind           string `json:"kind"`
	Status         string `json:"status"`
	Amount         int64  `json:"amount"`
	Message        string `json:"message"`
	RefundRequired bool   `json:"refund_required"`
}
