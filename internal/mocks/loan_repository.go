package mocks

import (
	"context"

	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type LoanRepository struct {
	mock.Mock
}

func (m *LoanRepository) Create(ctx context.Context, loan *model.MicroLoan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *LoanRepository) GetByID(id int64) (*model.MicroLoan, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MicroLoan), args.Error(1)
}

func (m *LoanRepository) GetActiveByUserID(userID string) (*model.MicroLoan, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MicroLoan), args.Error(1)
}

func (m *LoanRepository) DecrementDue(ctx context.Context, loanID int64, amount int64) (*model.MicroLoan, error) {
	args := m.Called(ctx, loanID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MicroLoan), args.Error(1)
}
