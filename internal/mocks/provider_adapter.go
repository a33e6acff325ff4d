package mocks

import (
	"context"

	"github.com/finsuite/ledgergateway/pkg/provider"
	"github.com/stretchr/testify/mock"
)

type ProviderAdapter struct {
	mock.Mock
}

func (m *ProviderAdapter) PlaceOrder(ctx context.Context, request provider.OrderRequest) (provider.OrderResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(provider.OrderResponse), args.Error(1)
}
