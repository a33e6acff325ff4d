package repository

import (
	"context"
	"errors"
	"time"

	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrLoanNotFound = errors.New("LOAN_NOT_FOUND")
var ErrLoanNotActive = errors.New("LOAN_NOT_ACTIVE")
var ErrActiveLoanExists = errors.New("ACTIVE_LOAN_EXISTS")
var ErrOverpayment = errors.New("OVERPAYMENT")

type LoanRepository interface {
	Create(ctx context.Context, loan *model.MicroLoan) error
	GetByID(id int64) (*model.MicroLoan, error)
	GetActiveByUserID(userID string) (*model.MicroLoan, error)
	DecrementDue(ctx context.Context, loanID int64, amount int64) (*model.MicroLoan, error)
}

type Loan struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &Loan{db: db}
}

func (l *Loan) Create(ctx context.Context, loan *model.MicroLoan) error {
	db := GetTx(ctx, l.db)
	err := db.Create(loan).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrActiveLoanExists
	}

	return err
}

func (l *Loan) GetByID(id int64) (*model.MicroLoan, error) {
	var loan model.MicroLoan

	err := l.db.Where("id = ?", id).First(&loan).Error
	if err == nil {
		return &loan, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoanNotFound
	}

	return nil, err
}

func (l *Loan) GetActiveByUserID(userID string) (*model.MicroLoan, error) {
	var loan model.MicroLoan

	err := l.db.Where("user_id = ? AND status = ?", userID, model.LoanStatusActive).First(&loan).Error
	if err == nil {
		return &loan, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoanNotFound
	}

	return nil, err
}

// DecrementDue applies a repayment with a floor guard in the WHERE clause,
// so concurrent repayments on the same loan can never push amount_due below
// zero. The flip to REPAID is a second guarded update, which also clears
// ActiveKey so the user may borrow again.
func (l *Loan) DecrementDue(ctx context.Context, loanID int64, amount int64) (*model.MicroLoan, error) {
	db := GetTx(ctx, l.db)

	result := db.Model(&model.MicroLoan{}).
		Where("id = ? AND status = ? AND amount_due >= ?", loanID, model.LoanStatusActive, amount).
		Updates(map[string]interface{}{
			"amount_due": gorm.Expr("amount_due - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, l.classifyRejection(db, loanID, amount)
	}

	repaidAt := time.Now()
	err := db.Model(&model.MicroLoan{}).
		Where("id = ? AND status = ? AND amount_due = 0", loanID, model.LoanStatusActive).
		Updates(map[string]interface{}{
			"status":     model.LoanStatusRepaid,
			"repaid_at":  repaidAt,
			"active_key": nil,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return nil, err
	}

	var loan model.MicroLoan
	if err := db.Where("id = ?", loanID).First(&loan).Error; err != nil {
		return nil, err
	}

	return &loan, nil
}

func (l *Loan) classifyRejection(db *gorm.DB, loanID int64, amount int64) error {
	var loan model.MicroLoan

	err := db.Where("id = ?", loanID).First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLoanNotFound
		}
		return err
	}

	if loan.Status != model.LoanStatusActive {
		return ErrLoanNotActive
	}

	if loan.AmountDue < amount {
		return ErrOverpayment
	}

	// Lost the race to another repayment between UPDATE and re-read.
	return ErrLoanNotActive
}
