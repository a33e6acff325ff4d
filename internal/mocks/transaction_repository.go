package mocks

import (
	"context"
	"time"

	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/stretchr/testify/mock"
)

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) Create(ctx context.Context, record *model.TransactionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *TransactionRepository) GetByID(id int64) (*model.TransactionRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionRecord), args.Error(1)
}

func (m *TransactionRepository) GetByIdempotencyKey(key string) (*model.TransactionRecord, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionRecord), args.Error(1)
}

func (m *TransactionRepository) UpdateFromPending(ctx context.Context, id int64, upd repository.StatusUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *TransactionRepository) MarkRefunded(ctx context.Context, id int64, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

func (m *TransactionRepository) Query(q repository.LedgerQuery) ([]model.TransactionRecord, error) {
	args := m.Called(q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TransactionRecord), args.Error(1)
}

func (m *TransactionRepository) FindStalePending(updatedBefore time.Time, limit int) ([]model.TransactionRecord, error) {
	args := m.Called(updatedBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TransactionRecord), args.Error(1)
}

func (m *TransactionRepository) FindRefundsToPublish(limit int) ([]model.TransactionRecord, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TransactionRecord), args.Error(1)
}

func (m *TransactionRepository) MarkRefundPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
