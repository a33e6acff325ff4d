package mocks

import (
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/pkg/provider"
	"github.com/stretchr/testify/mock"
)

type Reconciler struct {
	mock.Mock
}

func (m *Reconciler) Reconcile(resp provider.OrderResponse, callErr error) repository.StatusUpdate {
	args := m.Called(resp, callErr)
	return args.Get(0).(repository.StatusUpdate)
}

func (m *Reconciler) FundingFailure(callErr error) repository.StatusUpdate {
	args := m.Called(callErr)
	return args.Get(0).(repository.StatusUpdate)
}
