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
	"github.com/finsuite/ledgergateway/pkg/mq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestRefund_Refund(t *testing.T) {
	logger := zap.NewNop()

	cmd := service.ProcessRefundCommand{
		RecordID: 15,
		UserID:   "user-1",
		Amount:   2500,
		Method:   model.MethodWallet,
	}

	refundable := func() *model.TransactionRecord {
		return &model.TransactionRecord{
			ID:               15,
			UserID:           "user-1",
			Kind:             model.TxKindBillPayment,
			CounterpartyName: "City Power",
			Amount:           -2500,
			Method:           model.MethodWallet,
			Status:           model.TxStatusFailed,
			RefundRequired:   true,
		}
	}

	t.Run("process refund successfully", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		mockTxManager := &mocks.TxManager{}
		mockFunding := &mocks.FundingService{}
		mockNotifier := &mocks.Notifier{}

		svc := service.NewRefundService(mockTxRepo, mockTxManager, mockFunding, mockNotifier, logger)

		mockTxRepo.On("GetByID", int64(15)).Return(refundable(), nil)

		mockFunding.On("Credit", context.Background(),
			mock.MatchedBy(func(credit service.CreditFundsCommand) bool {
				return credit.Amount == 2500 && credit.IdempotencyKey == "refund-15"
			})).Return(nil)

		mockTxManager.On("WithTx", context.Background(),
			mock.AnythingOfType("func(context.Context) error")).Return(nil)

		mockTxRepo.On("MarkRefunded", context.Background(), int64(15), "Refund credited.").Return(nil)

		mockTxRepo.On("Create", context.Background(),
			mock.MatchedBy(func(record *model.TransactionRecord) bool {
				return record.Kind == model.TxKindRefund &&
					record.Amount == 2500 &&
					record.Status == model.TxStatusCompleted &&
					record.IdempotencyKey == "refund-15"
			})).Return(nil)

		mockNotifier.On("PaymentUpdate", context.Background(),
			mock.AnythingOfType("service.PaymentEvent")).Return()

		err := svc.Refund(context.Background(), cmd)

		assert.NoError(t, err)

		mockTxRepo.AssertExpectations(t)
		mockFunding.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("dequeue when record not found", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		mockFunding := &mocks.FundingService{}

		svc := service.NewRefundService(mockTxRepo, &mocks.TxManager{}, mockFunding,
			&mocks.Notifier{}, logger)

		mockTxRepo.On("GetByID", int64(15)).Return(nil, repository.ErrRecordNotFound)

		err := svc.Refund(context.Background(), cmd)

		assert.NoError(t, err)
		mockFunding.AssertNotCalled(t, "Credit")
	})

	t.Run("requeue when database error occurs during get", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		mockFunding := &mocks.FundingService{}

		svc := service.NewRefundService(mockTxRepo, &mocks.TxManager{}, mockFunding,
			&mocks.Notifier{}, logger)

		mockTxRepo.On("GetByID", int64(15)).Return(nil, errors.New("connection reset"))

		err := svc.Refund(context.Background(), cmd)

		assert.Error(t, err)
		assert.True(t, mq.IsTemporary(err))
		mockFunding.AssertNotCalled(t, "Credit")
	})

	t.Run("dequeue when record already refunded", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		mockFunding := &mocks.FundingService{}

		svc := service.NewRefundService(mockTxRepo, &mocks.TxManager{}, mockFunding,
			&mocks.Notifier{}, logger)

		record := refundable()
		now := record.CreatedAt
		record.RefundedAt = &now

		mockTxRepo.On("GetByID", int64(15)).Return(record, nil)

		err := svc.Refund(context.Background(), cmd)

		assert.NoError(t, err)
		mockFunding.AssertNotCalled(t, "Credit")
	})

	t.Run("dequeue when record not refund-flagged", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		mockFunding := &mocks.FundingService{}

		svc := service.NewRefundService(mockTxRepo, &mocks.TxManager{}, mockFunding,
			&mocks.Notifier{}, logger)

		record := refundable()
		record.RefundRequired = false

		mockTxRepo.On("GetByID", int64(15)).Return(record, nil)

		err := svc.Refund(context.Background(), cmd)

		assert.NoError(t, err)
		mockFunding.AssertNotCalled(t, "Credit")
	})

	t.Run("drop permanently when user is gone", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		mockFunding := &mocks.FundingService{}

		svc := service.NewRefundService(mockTxRepo, &mocks.TxManager{}, mockFunding,
			&mocks.Notifier{}, logger)

		mockTxRepo.On("GetByID", int64(15)).Return(refundable(), nil)

		creditErr := service.NewServiceError(constants.ErrCodeUserNotFound, errors.New("user not found"))
		mockFunding.On("Credit", context.Background(),
			mock.AnythingOfType("service.CreditFundsCommand")).Return(creditErr)

		err := svc.Refund(context.Background(), cmd)

		assert.NoError(t, err)
		mockTxRepo.AssertNotCalled(t, "MarkRefunded")
	})

	t.Run("requeue when funding source is unavailable", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		mockFunding := &mocks.FundingService{}

		svc := service.NewRefundService(mockTxRepo, &mocks.TxManager{}, mockFunding,
			&mocks.Notifier{}, logger)

		mockTxRepo.On("GetByID", int64(15)).Return(refundable(), nil)

		creditErr := service.NewServiceError(constants.ErrCodeFundingFailed, errors.New("server error"))
		mockFunding.On("Credit", context.Background(),
			mock.AnythingOfType("service.CreditFundsCommand")).Return(creditErr)

		err := svc.Refund(context.Background(), cmd)

		assert.Error(t, err)
		assert.True(t, mq.IsTemporary(err))
	})

	t.Run("requeue when ledger settle fails after credit", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		mockTxManager := &mocks.TxManager{}
		mockFunding := &mocks.FundingService{}

		svc := service.NewRefundService(mockTxRepo, mockTxManager, mockFunding,
			&mocks.Notifier{}, logger)

		mockTxRepo.On("GetByID", int64(15)).Return(refundable(), nil)
		mockFunding.On("Credit", context.Background(),
			mock.AnythingOfType("service.CreditFundsCommand")).Return(nil)

		mockTxManager.On("WithTx", context.Background(),
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		mockTxRepo.On("MarkRefunded", context.Background(), int64(15), "Refund credited.").
			Return(errors.New("deadlock"))

		err := svc.Refund(context.Background(), cmd)

		assert.Error(t, err)
		assert.True(t, mq.IsTemporary(err))
	})
}

func TestRefundQueue_FindRefundsToQueue(t *testing.T) {
	t.Run("map flagged records to commands with positive amounts", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		svc := service.NewRefundQueueService(mockTxRepo, zap.NewNop())

		flagged := []model.TransactionRecord{
			{ID: 1, UserID: "user-1", Amount: -2500, Method: model.MethodWallet},
			{ID: 2, UserID: "user-2", Amount: -900, Method: model.MethodUPI},
		}

		mockTxRepo.On("FindRefundsToPublish", 50).Return(flagged, nil)

		commands, err := svc.FindRefundsToQueue(context.Background(), 50)

		assert.NoError(t, err)
		assert.Len(t, commands, 2)
		assert.Equal(t, int64(2500), commands[0].Amount)
		assert.Equal(t, int64(900), commands[1].Amount)
	})

	t.Run("return nothing when no records are flagged", func(t *testing.T) {
		mockTxRepo := &mocks.TransactionRepository{}
		svc := service.NewRefundQueueService(mockTxRepo, zap.NewNop())

		mockTxRepo.On("FindRefundsToPublish", 50).Return([]model.TransactionRecord{}, nil)

		commands, err := svc.FindRefundsToQueue(context.Background(), 50)

		assert.NoError(t, err)
		assert.Empty(t, commands)
	})
}
