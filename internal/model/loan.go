package model

import "time"

type LoanStatus string

const (
	LoanStatusActive  LoanStatus = "ACTIVE"
	LoanStatusRepaid  LoanStatus = "REPAID"
	LoanStatusOverdue LoanStatus = "OVERDUE"
)

type LoanPurpose string

const (
	LoanPurposeGeneral   LoanPurpose = "GENERAL"
	LoanPurposeEducation LoanPurpose = "EDUCATION"
)

func ValidLoanPurpose(purpose LoanPurpose) bool {
	return purpose == LoanPurposeGeneral || purpose == LoanPurposeEducation
}

// MicroLoan rows are kept for audit and never deleted. ActiveKey mirrors
// UserID while the loan is ACTIVE and is cleared on the way out, so the
// unique index only guards live loans (MySQL allows repeated NULLs in a
// unique index).
type MicroLoan struct {
	ID             int64       `gorm:"primaryKey;autoIncrement;<-:create"`
	UserID         string      `gorm:"type:varchar(64);not null;index;<-:create"`
	AmountBorrowed int64       `gorm:"not null;<-:create"`
	AmountDue      int64       `gorm:"not null"`
	Purpose        LoanPurpose `gorm:"type:varchar(20);not null;<-:create"`
	Status         LoanStatus  `gorm:"type:enum('ACTIVE','REPAID','OVERDUE');not null"`
	ActiveKey      *string     `gorm:"type:varchar(64);uniqueIndex;null"`
	IssuedAt       time.Time   `gorm:"type:timestamp;not null;<-:create"`
	DueAt          time.Time   `gorm:"type:timestamp;not null;<-:create"`
	RepaidAt       *time.Time  `gorm:"type:timestamp;null"`
	CreatedAt      time.Time   `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time   `gorm:"type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}
