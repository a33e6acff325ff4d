package model

import "time"

type TxStatus string

const (
	TxStatusPending   TxStatus = "PENDING"
	TxStatusCompleted TxStatus = "COMPLETED"
	TxStatusFailed    TxStatus = "FAILED"
)

type TxKind string

const (
	TxKindSent           TxKind = "SENT"
	TxKindReceived       TxKind = "RECEIVED"
	TxKindRecharge       TxKind = "RECHARGE"
	TxKindBillPayment    TxKind = "BILL_PAYMENT"
	TxKindInvestment     TxKind = "INVESTMENT"
	TxKindLoanDisbursal  TxKind = "LOAN_DISBURSAL"
	TxKindLoanRepayment  TxKind = "LOAN_REPAYMENT"
	TxKindCashWithdrawal TxKind = "CASH_WITHDRAWAL"
	TxKindRefund         TxKind = "REFUND"
	TxKindCashback       TxKind = "CASHBACK"
)

const (
	MethodWallet = "wallet"
	MethodUPI    = "upi"
	MethodBank   = "bank"
)

func ValidKind(kind TxKind) bool {
	switch kind {
	case TxKindSent, TxKindReceived, TxKindRecharge, TxKindBillPayment, TxKindInvestment,
		TxKindLoanDisbursal, TxKindLoanRepayment, TxKindCashWithdrawal, TxKindRefund, TxKindCashback:
		return true
	}
	return false
}

func ValidStatus(status TxStatus) bool {
	switch status {
	case TxStatusPending, TxStatusCompleted, TxStatusFailed:
		return true
	}
	return false
}

func ValidMethod(method string) bool {
	return method == MethodWallet || method == MethodUPI || method == MethodBank
}

// Terminal statuses admit no further transitions.
func (s TxStatus) Terminal() bool {
	return s == TxStatusCompleted || s == TxStatusFailed
}

type TransactionRecord struct {
	ID                int64      `gorm:"primaryKey;autoIncrement;<-:create"`
	UserID            string     `gorm:"type:varchar(64);not null;index;<-:create"`
	Kind              TxKind     `gorm:"type:varchar(20);not null;<-:create"`
	CounterpartyName  string     `gorm:"type:varchar(255);not null"`
	Description       string     `gorm:"type:text"`
	Amount            int64      `gorm:"not null;<-:create"`
	Method            string     `gorm:"type:varchar(10);not null;<-:create"`
	Target            string     `gorm:"type:varchar(128);<-:create"`
	Status            TxStatus   `gorm:"type:enum('PENDING','COMPLETED','FAILED');not null"`
	IdempotencyKey    string     `gorm:"type:varchar(128);uniqueIndex;not null;<-:create"`
	RefundRequired    bool       `gorm:"default:false;not null"`
	RefundPublished   bool       `gorm:"default:false;not null"`
	RefundPublishedAt *time.Time `gorm:"type:timestamp;null"`
	RefundedAt        *time.Time `gorm:"type:timestamp;null"`
	ExternalRef       *string    `gorm:"type:varchar(128);null"`
	LinkedEntityID    *string    `gorm:"type:varchar(64);null"`
	LastError         *string    `gorm:"type:text;null"`
	CreatedAt         time.Time  `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;<-:create"`
	UpdatedAt         time.Time  `gorm:"type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}
