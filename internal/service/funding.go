package service

import (
	"context"
	"errors"

	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/pkg/fundingsource"
	"go.uber.org/zap"
)

type DebitFundsCommand struct {
	UserID         string
	Amount         int64
	Method         string
	PurposeTag     string
	IdempotencyKey string
}

type CreditFundsCommand struct {
	UserID         string
	Amount         int64
	Method         string
	PurposeTag     string
	IdempotencyKey string
}

type FundingService interface {
	Debit(ctx context.Context, cmd DebitFundsCommand) error
	Credit(ctx context.Context, cmd CreditFundsCommand) error
}

type funding struct {
	source   fundingsource.FundingSource
	maxRetry int
	logger   *zap.Logger
}

func NewFundingService(source fundingsource.FundingSource, cfg *config.Config, logger *zap.Logger) FundingService {
	return &funding{source: source, maxRetry: cfg.FundingSource.MaxRetries, logger: logger}
}

func (f *funding) Debit(ctx context.Context, cmd DebitFundsCommand) error {
	request := fundingsource.MoveFundsRequest{
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Method:         cmd.Method,
		PurposeTag:     cmd.PurposeTag,
		IdempotencyKey: cmd.IdempotencyKey,
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxRetry; attempt++ {
		resp, err := f.source.Debit(ctx, request)
		if err == nil {
			f.logger.Info("Funding source debited successfully",
				zap.String("userID", cmd.UserID),
				zap.Int("attempt", attempt),
				zap.String("idempotencyKey", cmd.IdempotencyKey),
				zap.Int64("sourceTransactionID", resp.Result.SourceTransactionID))

			return nil
		}

		if errors.Is(err, fundingsource.ErrUserNotFound) {
			f.logger.Warn("Non-retryable error encountered",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.String("userID", cmd.UserID))
			return NewServiceError(constants.ErrCodeUserNotFound, err)
		}

		if errors.Is(err, fundingsource.ErrInsufficientBalance) {
			f.logger.Warn("Non-retryable error encountered",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.String("userID", cmd.UserID))
			return NewServiceError(constants.ErrCodeInsufficientBalance, err)
		}

		lastErr = err
	}

	f.logger.Error("Funding source unavailable after all retries",
		zap.Error(lastErr),
		zap.Int("maxRetries", f.maxRetry),
		zap.String("userID", cmd.UserID))

	return NewServiceError(constants.ErrCodeFundingFailed, lastErr)
}

func (f *funding) Credit(ctx context.Context, cmd CreditFundsCommand) error {
	request := fundingsource.MoveFundsRequest{
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Method:         cmd.Method,
		PurposeTag:     cmd.PurposeTag,
		IdempotencyKey: cmd.IdempotencyKey,
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxRetry; attempt++ {
		resp, err := f.source.Credit(ctx, request)
		if err == nil {
			f.logger.Info("Funding source credited successfully",
				zap.String("userID", cmd.UserID),
				zap.Int("attempt", attempt),
				zap.Int64("sourceTransactionID", resp.Result.SourceTransactionID),
				zap.String("idempotencyKey", cmd.IdempotencyKey))

			return nil
		}

		f.logger.Warn("Credit attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("userID", cmd.UserID))

		if errors.Is(err, fundingsource.ErrUserNotFound) {
			return NewServiceError(constants.ErrCodeUserNotFound, err)
		}

		lastErr = err
	}

	f.logger.Error("Funding source unavailable after all retries",
		zap.Error(lastErr),
		zap.Int("maxRetries", f.maxRetry),
		zap.String("userID", cmd.UserID))

	return NewServiceError(constants.ErrCodeFundingFailed, lastErr)
}
