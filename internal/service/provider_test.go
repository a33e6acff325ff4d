package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/internal/mocks"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/finsuite/ledgergateway/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func providerTestConfig() *config.Config {
	return &config.Config{
		Provider: provider.Config{
			Timeout:    time.Second,
			MaxRetries: 3,
		},
	}
}

func TestProviderService_PlaceOrderWithRetry(t *testing.T) {
	request := provider.OrderRequest{
		Domain:         service.DomainBill,
		UserID:         "user-1",
		Amount:         2500,
		Target:         "ELEC-00981",
		IdempotencyKey: "token-1",
	}

	t.Run("return response on first success", func(t *testing.T) {
		mockAdapter := &mocks.ProviderAdapter{}
		svc := service.NewProviderService(mockAdapter, zap.NewNop(), providerTestConfig())

		accepted := provider.OrderResponse{Status: provider.StatusAccepted, ProviderRef: "prov-1"}
		mockAdapter.On("PlaceOrder", mock.Anything, request).Return(accepted, nil).Once()

		response, err := svc.PlaceOrderWithRetry(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, "prov-1", response.ProviderRef)
		mockAdapter.AssertExpectations(t)
	})

	t.Run("retry transient failures until success", func(t *testing.T) {
		mockAdapter := &mocks.ProviderAdapter{}
		svc := service.NewProviderService(mockAdapter, zap.NewNop(), providerTestConfig())

		serverErr := provider.ErrServerError
		accepted := provider.OrderResponse{Status: provider.StatusAccepted, ProviderRef: "prov-2"}

		mockAdapter.On("PlaceOrder", mock.Anything, request).
			Return(provider.OrderResponse{}, serverErr).Twice()
		mockAdapter.On("PlaceOrder", mock.Anything, request).
			Return(accepted, nil).Once()

		response, err := svc.PlaceOrderWithRetry(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, "prov-2", response.ProviderRef)
		mockAdapter.AssertNumberOfCalls(t, "PlaceOrder", 3)
	})

	t.Run("stop immediately on definitive rejection", func(t *testing.T) {
		mockAdapter := &mocks.ProviderAdapter{}
		svc := service.NewProviderService(mockAdapter, zap.NewNop(), providerTestConfig())

		rejected := provider.ErrOrderRejected
		mockAdapter.On("PlaceOrder", mock.Anything, request).
			Return(provider.OrderResponse{}, rejected)

		_, err := svc.PlaceOrderWithRetry(context.Background(), request)

		assert.Error(t, err)
		assert.ErrorIs(t, err, provider.ErrOrderRejected)
		mockAdapter.AssertNumberOfCalls(t, "PlaceOrder", 1)
	})

	t.Run("wrapped rejection is still non-retryable", func(t *testing.T) {
		mockAdapter := &mocks.ProviderAdapter{}
		svc := service.NewProviderService(mockAdapter, zap.NewNop(), providerTestConfig())

		rejected := fmt.Errorf("place order: %w", provider.ErrOrderRejected)
		mockAdapter.On("PlaceOrder", mock.Anything, request).
			Return(provider.OrderResponse{}, rejected)

		_, err := svc.PlaceOrderWithRetry(context.Background(), request)

		assert.ErrorIs(t, err, provider.ErrOrderRejected)
		mockAdapter.AssertNumberOfCalls(t, "PlaceOrder", 1)
	})

	t.Run("return last error when retries are exhausted", func(t *testing.T) {
		mockAdapter := &mocks.ProviderAdapter{}
		svc := service.NewProviderService(mockAdapter, zap.NewNop(), providerTestConfig())

		networkErr := provider.ErrNetworkError
		mockAdapter.On("PlaceOrder", mock.Anything, request).
			Return(provider.OrderResponse{}, networkErr)

		_, err := svc.PlaceOrderWithRetry(context.Background(), request)

		assert.Error(t, err)
		assert.ErrorIs(t, err, provider.ErrNetworkError)
		mockAdapter.AssertNumberOfCalls(t, "PlaceOrder", 3)
	})
}
