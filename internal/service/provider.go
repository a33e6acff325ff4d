package service

import (
	"context"
	"errors"
	"time"

	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/pkg/provider"
	"go.uber.org/zap"
)

type ProviderService interface {
	PlaceOrderWithRetry(ctx context.Context, request provider.OrderRequest) (provider.OrderResponse, error)
}

type providerService struct {
	adapter provider.Adapter
	logger  *zap.Logger
	config  provider.Config
}

func NewProviderService(adapter provider.Adapter, logger *zap.Logger, cfg *config.Config) ProviderService {
	return &providerService{adapter: adapter, logger: logger, config: cfg.Provider}
}

// PlaceOrderWithRetry bounds every attempt with the configured timeout. A
// definitive rejection is returned immediately; transport-level failures
// are retried with a linear backoff.
func (p *providerService) PlaceOrderWithRetry(ctx context.Context, request provider.OrderRequest) (provider.OrderResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		p.logger.Debug("Attempting provider order",
			zap.Int("attempt", attempt),
			zap.String("domain", request.Domain),
			zap.String("userID", request.UserID))

		providerCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)

		response, err := p.adapter.PlaceOrder(providerCtx, request)
		cancel()

		if err == nil {
			p.logger.Info("Provider order placed",
				zap.String("providerRef", response.ProviderRef),
				zap.String("status", response.Status),
				zap.Int("attempt", attempt))
			return response, nil
		}

		lastErr = err
		p.logger.Warn("Provider order attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("domain", request.Domain))

		if errors.Is(err, provider.ErrOrderRejected) {
			p.logger.Error("Non-retryable error encountered",
				zap.Error(err),
				zap.String("domain", request.Domain))
			return provider.OrderResponse{}, err
		}

		if attempt < p.config.MaxRetries {
			delay := time.Duration(attempt) * 100 * time.Millisecond
			p.logger.Debug("Waiting before retry", zap.Duration("delay", delay))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return provider.OrderResponse{}, ctx.Err()
			}
		}
	}

	p.logger.Error("All retry attempts exhausted",
		zap.Error(lastErr),
		zap.Int("maxRetries", p.config.MaxRetries),
		zap.String("domain", request.Domain))

	return provider.OrderResponse{}, lastErr
}
