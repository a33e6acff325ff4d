package mocks

import (
	"context"

	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/stretchr/testify/mock"
)

type LedgerService struct {
	mock.Mock
}

func (m *LedgerService) Append(ctx context.Context, cmd service.AppendRecordCommand) (*model.TransactionRecord, bool, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.TransactionRecord), args.Bool(1), args.Error(2)
}

func (m *LedgerService) Finalize(ctx context.Context, recordID int64, upd repository.StatusUpdate) error {
	args := m.Called(ctx, recordID, upd)
	return args.Error(0)
}

func (m *LedgerService) Query(ctx context.Context, cmd service.LedgerQueryCommand) ([]model.TransactionRecord, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TransactionRecord), args.Error(1)
}
