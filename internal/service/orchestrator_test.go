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
	"github.com/finsuite/ledgergateway/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newOrchestrator(ledger *mocks.LedgerService, funding *mocks.FundingService,
	providerSvc *mocks.ProviderService, reconciler *mocks.Reconciler,
	notifier *mocks.Notifier) service.PaymentOrchestrator {

	return service.NewPaymentOrchestrator(service.NewDomainStrategies(),
		ledger, funding, providerSvc, reconciler, notifier, zap.NewNop())
}

func TestOrchestrator_Submit(t *testing.T) {
	cmd := service.SubmitPaymentCommand{
		Domain:           service.DomainBill,
		UserID:           "user-42",
		Amount:           2500,
		Target:           "ELEC-00981",
		Counterparty:     "City Power",
		Method:           model.MethodWallet,
		IdempotencyToken: "token-1",
	}

	pendingRecord := &model.TransactionRecord{
		ID:     7,
		UserID: "user-42",
		Kind:   model.TxKindBillPayment,
		Amount: -2500,
		Status: model.TxStatusPending,
	}

	t.Run("complete payment successfully", func(t *testing.T) {
		mockLedger := &mocks.LedgerService{}
		mockFunding := &mocks.FundingService{}
		mockProvider := &mocks.ProviderService{}
		mockReconciler := &mocks.Reconciler{}
		mockNotifier := &mocks.Notifier{}

		svc := newOrchestrator(mockLedger, mockFunding, mockProvider, mockReconciler, mockNotifier)

		mockLedger.On("Append", context.Background(),
			mock.MatchedBy(func(append service.AppendRecordCommand) bool {
				return append.Amount == -2500 &&
					append.Kind == model.TxKindBillPayment &&
					append.Status == model.TxStatusPending &&
					append.Target == "ELEC-00981" &&
					append.IdempotencyKey == "token-1"
			})).Return(pendingRecord, false, nil)

		mockFunding.On("Debit", context.Background(),
			mock.MatchedBy(func(debit service.DebitFundsCommand) bool {
				return debit.Amount == 2500 && debit.IdempotencyKey == "debit-token-1"
			})).Return(nil)

		orderResp := provider.OrderResponse{Status: provider.StatusAccepted, ProviderRef: "prov-99"}
		mockProvider.On("PlaceOrderWithRetry", context.Background(),
			mock.AnythingOfType("provider.OrderRequest")).Return(orderResp, nil)

		ref := "prov-99"
		mockReconciler.On("Reconcile", orderResp, nil).Return(repository.StatusUpdate{
			Status:      model.TxStatusCompleted,
			ExternalRef: &ref,
		})

		mockLedger.On("Finalize", context.Background(), int64(7),
			mock.MatchedBy(func(upd repository.StatusUpdate) bool {
				return upd.Status == model.TxStatusCompleted
			})).Return(nil)

		mockNotifier.On("PaymentUpdate", context.Background(),
			mock.MatchedBy(func(event service.PaymentEvent) bool {
				return event.RecordID == 7 && event.Status == string(model.TxStatusCompleted)
			})).Return()

		result, err := svc.Submit(context.Background(), cmd)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), result.RecordID)
		assert.Equal(t, model.TxStatusCompleted, result.Status)
		assert.False(t, result.Duplicate)

		mockLedger.AssertExpectations(t)
		mockFunding.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("return original record on duplicate submission", func(t *testing.T) {
		mockLedger := &mocks.LedgerService{}
		mockFunding := &mocks.FundingService{}
		mockProvider := &mocks.ProviderService{}
		mockReconciler := &mocks.Reconciler{}
		mockNotifier := &mocks.Notifier{}

		svc := newOrchestrator(mockLedger, mockFunding, mockProvider, mockReconciler, mockNotifier)

		completed := &model.TransactionRecord{ID: 7, Status: model.TxStatusCompleted}
		mockLedger.On("Append", context.Background(),
			mock.AnythingOfType("service.AppendRecordCommand")).Return(completed, true, nil)

		result, err := svc.Submit(context.Background(), cmd)

		assert.NoError(t, err)
		assert.True(t, result.Duplicate)
		assert.Equal(t, int64(7), result.RecordID)
		assert.Equal(t, model.TxStatusCompleted, result.Status)

		mockFunding.AssertNotCalled(t, "Debit")
		mockProvider.AssertNotCalled(t, "PlaceOrderWithRetry")
	})

	t.Run("fail without refund flag when debit fails", func(t *testing.T) {
		mockLedger := &mocks.LedgerService{}
		mockFunding := &mocks.FundingService{}
		mockProvider := &mocks.ProviderService{}
		mockReconciler := &mocks.Reconciler{}
		mockNotifier := &mocks.Notifier{}

		svc := newOrchestrator(mockLedger, mockFunding, mockProvider, mockReconciler, mockNotifier)

		mockLedger.On("Append", context.Background(),
			mock.AnythingOfType("service.AppendRecordCommand")).Return(pendingRecord, false, nil)

		debitErr := service.NewServiceError(constants.ErrCodeInsufficientBalance,
			errors.New("insufficient balance"))
		mockFunding.On("Debit", context.Background(),
			mock.AnythingOfType("service.DebitFundsCommand")).Return(debitErr)

		lastError := "insufficient balance"
		mockReconciler.On("FundingFailure", debitErr).Return(repository.StatusUpdate{
			Status:    model.TxStatusFailed,
			LastError: &lastError,
		})

		mockLedger.On("Finalize", context.Background(), int64(7),
			mock.MatchedBy(func(upd repository.StatusUpdate) bool {
				return upd.Status == model.TxStatusFailed && !upd.RefundRequired
			})).Return(nil)

		mockNotifier.On("PaymentUpdate", context.Background(),
			mock.AnythingOfType("service.PaymentEvent")).Return()

		result, err := svc.Submit(context.Background(), cmd)

		assert.Error(t, err)
		assert.Equal(t, model.TxStatusFailed, result.Status)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeInsufficientBalance, serviceErr.Code)
		assert.Equal(t, int64(7), serviceErr.RecordID)

		mockProvider.AssertNotCalled(t, "PlaceOrderWithRetry")
	})

	t.Run("flag refund when provider rejects after debit", func(t *testing.T) {
		mockLedger := &mocks.LedgerService{}
		mockFunding := &mocks.FundingService{}
		mockProvider := &mocks.ProviderService{}
		mockReconciler := &mocks.Reconciler{}
		mockNotifier := &mocks.Notifier{}

		svc := newOrchestrator(mockLedger, mockFunding, mockProvider, mockReconciler, mockNotifier)

		mockLedger.On("Append", context.Background(),
			mock.AnythingOfType("service.AppendRecordCommand")).Return(pendingRecord, false, nil)
		mockFunding.On("Debit", context.Background(),
			mock.AnythingOfType("service.DebitFundsCommand")).Return(nil)

		rejection := provider.ErrOrderRejected
		mockProvider.On("PlaceOrderWithRetry", context.Background(),
			mock.AnythingOfType("provider.OrderRequest")).Return(provider.OrderResponse{}, rejection)

		mockReconciler.On("Reconcile", provider.OrderResponse{}, rejection).Return(repository.StatusUpdate{
			Status:         model.TxStatusFailed,
			RefundRequired: true,
		})

		mockLedger.On("Finalize", context.Background(), int64(7),
			mock.MatchedBy(func(upd repository.StatusUpdate) bool {
				return upd.Status == model.TxStatusFailed && upd.RefundRequired
			})).Return(nil)

		mockNotifier.On("PaymentUpdate", context.Background(),
			mock.MatchedBy(func(event service.PaymentEvent) bool {
				return event.RefundRequired
			})).Return()

		result, err := svc.Submit(context.Background(), cmd)

		assert.Error(t, err)
		assert.Equal(t, model.TxStatusFailed, result.Status)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeProviderFailed, serviceErr.Code)
		assert.Equal(t, int64(7), serviceErr.RecordID)

		mockLedger.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("keep record pending on ambiguous provider outcome", func(t *testing.T) {
		mockLedger := &mocks.LedgerService{}
		mockFunding := &mocks.FundingService{}
		mockProvider := &mocks.ProviderService{}
		mockReconciler := &mocks.Reconciler{}
		mockNotifier := &mocks.Notifier{}

		svc := newOrchestrator(mockLedger, mockFunding, mockProvider, mockReconciler, mockNotifier)

		mockLedger.On("Append", context.Background(),
			mock.AnythingOfType("service.AppendRecordCommand")).Return(pendingRecord, false, nil)
		mockFunding.On("Debit", context.Background(),
			mock.AnythingOfType("service.DebitFundsCommand")).Return(nil)

		timeout := provider.ErrTimeout
		mockProvider.On("PlaceOrderWithRetry", context.Background(),
			mock.AnythingOfType("provider.OrderRequest")).Return(provider.OrderResponse{}, timeout)

		mockReconciler.On("Reconcile", provider.OrderResponse{}, timeout).Return(repository.StatusUpdate{
			Status: model.TxStatusPending,
		})

		mockLedger.On("Finalize", context.Background(), int64(7),
			mock.MatchedBy(func(upd repository.StatusUpdate) bool {
				return upd.Status == model.TxStatusPending && !upd.RefundRequired
			})).Return(nil)

		mockNotifier.On("PaymentUpdate", context.Background(),
			mock.AnythingOfType("service.PaymentEvent")).Return()

		result, err := svc.Submit(context.Background(), cmd)

		assert.NoError(t, err)
		assert.Equal(t, model.TxStatusPending, result.Status)

		mockLedger.AssertExpectations(t)
	})

	t.Run("reject unknown domain", func(t *testing.T) {
		mockLedger := &mocks.LedgerService{}

		svc := newOrchestrator(mockLedger, &mocks.FundingService{}, &mocks.ProviderService{},
			&mocks.Reconciler{}, &mocks.Notifier{})

		badCmd := cmd
		badCmd.Domain = "lottery"

		_, err := svc.Submit(context.Background(), badCmd)

		assert.Error(t, err)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeValidationFailed, serviceErr.Code)

		mockLedger.AssertNotCalled(t, "Append")
	})

	t.Run("reject non-positive amount before any record is written", func(t *testing.T) {
		mockLedger := &mocks.LedgerService{}

		svc := newOrchestrator(mockLedger, &mocks.FundingService{}, &mocks.ProviderService{},
			&mocks.Reconciler{}, &mocks.Notifier{})

		badCmd := cmd
		badCmd.Amount = 0

		_, err := svc.Submit(context.Background(), badCmd)

		assert.Error(t, err)
		mockLedger.AssertNotCalled(t, "Append")
	})
}
