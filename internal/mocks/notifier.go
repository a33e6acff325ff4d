package mocks

import (
	"context"

	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/stretchr/testify/mock"
)

type Notifier struct {
	mock.Mock
}

func (m *Notifier) PaymentUpdate(ctx context.Context, event service.PaymentEvent) {
	m.Called(ctx, event)
}
