package v1

import (
	"time"

	"github.com/finsuite/ledgergateway/internal/model"
)

type LedgerEntry struct {
	RecordID     int64     `json:"record_id"`
	Kind         string    `json:"kind"`
	Counterparty string    `json:"counterparty"`
	Description  string    `json:"description"`
	Amount       int64     `json:"amount"`
	Method       string    `json:"method"`
	Status       string    `json:"status"`
	ExternalRef  string    `json:"external_ref,omitempty"`
	Refunded     bool      `json:"refunded"`
	CreatedAt    time.Time `json:"created_at"`
}

type LedgerResponse struct {
	Entries []LedgerEntry `json:"entries"`
	Count   int           `json:"count"`
}

type ActiveLoanResponse struct {
	LoanID         int64     `json:"loan_id"`
	AmountBorrowed int64     `json:"amount_borrowed"`
	AmountDue      int64     `json:"amount_due"`
	Purpose        string    `json:"purpose"`
	Status         string    `json:"status"`
	IssuedAt       time.Time `json:"issued_at"`
	DueAt          time.Time `json:"due_at"`
}

func toLedgerEntry(r model.TransactionRecord) LedgerEntry {
	entry := LedgerEntry{
		RecordID:     r.ID,
		Kind:         string(r.Kind),
		Counterparty: r.CounterpartyName,
		Description:  r.Description,
		Amount:       r.Amount,
		Method:       r.Method,
		Status:       string(r.Status),
		Refunded:     r.RefundedAt != nil,
		CreatedAt:    r.CreatedAt,
	}
	if r.ExternalRef != nil {
		entry.ExternalRef = *r.ExternalRef
	}
	return entry
}

func toActiveLoanResponse(loan *model.MicroLoan) ActiveLoanResponse {
	return ActiveLoanResponse{
		LoanID:         loan.ID,
		AmountBorrowed: loan.AmountBorrowed,
		AmountDue:      loan.AmountDue,
		Purpose:        string(loan.Purpose),
		Status:         string(loan.Status),
		IssuedAt:       loan.IssuedAt,
		DueAt:          loan.DueAt,
	}
}
