package mocks

import (
	"context"

	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/stretchr/testify/mock"
)

type FundingService struct {
	mock.Mock
}

func (m *FundingService) Debit(ctx context.Context, cmd service.DebitFundsCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *FundingService) Credit(ctx context.Context, cmd service.CreditFundsCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}
