package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/internal/mocks"
	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestLedger_Append(t *testing.T) {
	cmd := service.AppendRecordCommand{
		UserID:           "user-1",
		Kind:             model.TxKindBillPayment,
		CounterpartyName: "City Power",
		Amount:           -500,
		Method:           model.MethodWallet,
		Status:           model.TxStatusPending,
		IdempotencyKey:   "key-1",
	}

	t.Run("append new record", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		mockRepo.On("Create", context.Background(),
			mock.MatchedBy(func(record *model.TransactionRecord) bool {
				return record.Amount == -500 && record.Status == model.TxStatusPending
			})).Return(nil)

		record, duplicate, err := svc.Append(context.Background(), cmd)

		assert.NoError(t, err)
		assert.False(t, duplicate)
		assert.Equal(t, model.TxKindBillPayment, record.Kind)

		mockRepo.AssertExpectations(t)
	})

	t.Run("return original record for duplicate key", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		existing := &model.TransactionRecord{ID: 3, Status: model.TxStatusCompleted, IdempotencyKey: "key-1"}

		mockRepo.On("Create", context.Background(),
			mock.AnythingOfType("*model.TransactionRecord")).Return(repository.ErrRecordExisted)
		mockRepo.On("GetByIdempotencyKey", "key-1").Return(existing, nil)

		record, duplicate, err := svc.Append(context.Background(), cmd)

		assert.NoError(t, err)
		assert.True(t, duplicate)
		assert.Equal(t, int64(3), record.ID)
		assert.Equal(t, model.TxStatusCompleted, record.Status)
	})

	t.Run("reject zero amount", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		badCmd := cmd
		badCmd.Amount = 0

		_, _, err := svc.Append(context.Background(), badCmd)

		assert.Error(t, err)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeValidationFailed, serviceErr.Code)

		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("reject unknown kind", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		badCmd := cmd
		badCmd.Kind = "GIFT"

		_, _, err := svc.Append(context.Background(), badCmd)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("wrap database failure", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		mockRepo.On("Create", context.Background(),
			mock.AnythingOfType("*model.TransactionRecord")).Return(errors.New("connection reset"))

		_, _, err := svc.Append(context.Background(), cmd)

		assert.Error(t, err)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeOperationFailed, serviceErr.Code)
	})
}

func TestLedger_Finalize(t *testing.T) {
	upd := repository.StatusUpdate{Status: model.TxStatusCompleted, Note: "Payment completed."}

	t.Run("finalize pending record", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		mockRepo.On("UpdateFromPending", context.Background(), int64(5), upd).Return(nil)

		err := svc.Finalize(context.Background(), 5, upd)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing record reported as not found", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		mockRepo.On("UpdateFromPending", context.Background(), int64(5), upd).
			Return(repository.ErrNoRowsAffected)
		mockRepo.On("GetByID", int64(5)).Return(nil, repository.ErrRecordNotFound)

		err := svc.Finalize(context.Background(), 5, upd)

		assert.Error(t, err)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeRecordNotFound, serviceErr.Code)
		assert.Equal(t, int64(5), serviceErr.RecordID)
	})

	t.Run("terminal record reported as invalid transition", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		terminal := &model.TransactionRecord{ID: 5, Status: model.TxStatusFailed}

		mockRepo.On("UpdateFromPending", context.Background(), int64(5), upd).
			Return(repository.ErrNoRowsAffected)
		mockRepo.On("GetByID", int64(5)).Return(terminal, nil)

		err := svc.Finalize(context.Background(), 5, upd)

		assert.Error(t, err)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeInvalidTransition, serviceErr.Code)
	})
}

func TestLedger_Query(t *testing.T) {
	t.Run("pass filters through to repository", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		expected := []model.TransactionRecord{{ID: 1}, {ID: 2}}

		mockRepo.On("Query", mock.MatchedBy(func(q repository.LedgerQuery) bool {
			return q.UserID == "user-1" && q.Kind == model.TxKindRefund && q.Limit == 10
		})).Return(expected, nil)

		records, err := svc.Query(context.Background(), service.LedgerQueryCommand{
			UserID: "user-1",
			Kind:   model.TxKindRefund,
			Limit:  10,
		})

		assert.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("reject unknown status filter", func(t *testing.T) {
		mockRepo := &mocks.TransactionRepository{}
		svc := service.NewLedgerService(mockRepo, zap.NewNop())

		_, err := svc.Query(context.Background(), service.LedgerQueryCommand{
			UserID: "user-1",
			Status: "SETTLED",
		})

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Query")
	})
}
