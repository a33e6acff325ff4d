package mocks

import (
	"context"

	"github.com/finsuite/ledgergateway/pkg/fundingsource"
	"github.com/stretchr/testify/mock"
)

type FundingSource struct {
	mock.Mock
}

func (m *FundingSource) Debit(ctx context.Context, request fundingsource.MoveFundsRequest) (fundingsource.Response, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(fundingsource.Response), args.Error(1)
}

func (m *FundingSource) Credit(ctx context.Context, request fundingsource.MoveFundsRequest) (fundingsource.Response, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(fundingsource.Response), args.Error(1)
}
