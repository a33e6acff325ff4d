package service

import (
	"context"

	"github.com/finsuite/ledgergateway/internal/repository"
	"go.uber.org/zap"
)

type RefundQueueService interface {
	FindRefundsToQueue(ctx context.Context, limit int) ([]ProcessRefundCommand, error)
	MarkRefundAsQueued(ctx context.Context, recordID int64) error
}

type refundQueue struct {
	txRepo repository.TransactionRepository
	logger *zap.Logger
}

func NewRefundQueueService(txRepo repository.TransactionRepository, logger *zap.Logger) RefundQueueService {
	return &refundQueue{txRepo: txRepo, logger: logger}
}

func (r *refundQueue) FindRefundsToQueue(ctx context.Context, limit int) ([]ProcessRefundCommand, error) {
	r.logger.Debug("Finding refund-flagged records to publish", zap.Int("batchSize", limit))

	records, err := r.txRepo.FindRefundsToPublish(limit)
	if err != nil {
		r.logger.Error("Failed to find refund-flagged records", zap.Error(err))
		return nil, err
	}

	if len(records) == 0 {
		r.logger.Debug("No refunds found to publish")
		return nil, nil
	}

	commands := make([]ProcessRefundCommand, 0, len(records))
	for _, record := range records {
		amount := record.Amount
		if amount < 0 {
			amount = -amount
		}

		commands = append(commands, ProcessRefundCommand{
			RecordID: record.ID,
			UserID:   record.UserID,
			Amount:   amount,
			Method:   record.Method,
		})
	}

	return commands, nil
}

func (r *refundQueue) MarkRefundAsQueued(ctx context.Context, recordID int64) error {
	if err := r.txRepo.MarkRefundPublished(ctx, recordID); err != nil {
		r.logger.Error("Failed to mark refund as published",
			zap.Error(err),
			zap.Int64("recordID", recordID))
		return err
	}

	r.logger.Debug("Successfully marked refund as published", zap.Int64("recordID", recordID))

	return nil
}
