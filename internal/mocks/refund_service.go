package mocks

import (
	"context"

	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/stretchr/testify/mock"
)

type RefundService struct {
	mock.Mock
}

func (m *RefundService) Refund(ctx context.Context, cmd service.ProcessRefundCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}
