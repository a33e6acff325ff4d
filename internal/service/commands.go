package service

import (
	"time"

	"github.com/finsuite/ledgergateway/internal/model"
)

type SubmitPaymentCommand struct {
	Domain           string
	UserID           string
	Amount           int64
	Target           string
	Counterparty     string
	Method           string
	IdempotencyToken string
}

type LedgerQueryCommand struct {
	UserID string
	Kind   model.TxKind
	Status model.TxStatus
	From   *time.Time
	To     *time.Time
	Search string
	Limit  int
	Offset int
}

type ApplyLoanCommand struct {
	UserID           string
	Amount           int64
	Purpose          model.LoanPurpose
	Method           string
	IdempotencyToken string
}

type RepayLoanCommand struct {
	UserID           string
	LoanID           int64
	Amount           int64
	Method           string
	IdempotencyToken string
}

type ProcessRefundCommand struct {
	RecordID int64  `json:"record_id"`
	UserID   string `json:"user_id"`
	Amount   int64  `json:"amount"`
	Method   string `json:"method"`
}
