package publishers

import (
	"context"
	"encoding/json"

	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/finsuite/ledgergateway/pkg/mq"
	"go.uber.org/zap"
)

const RefundQueue = "ledger.refund"

type RefundPublisher interface {
	Publish(ctx context.Context) error
}

type refundPublisher struct {
	service   service.RefundQueueService
	publisher mq.Publisher
	batchSize int
	logger    *zap.Logger
}

func NewRefundPublisher(svc service.RefundQueueService, publisher mq.Publisher, cfg *config.Config,
	logger *zap.Logger) RefundPublisher {
	return &refundPublisher{service: svc, publisher: publisher, batchSize: cfg.Refund.BatchSize, logger: logger}
}

func (r *refundPublisher) Publish(ctx context.Context) error {
	refundCommands, err := r.service.FindRefundsToQueue(ctx, r.batchSize)
	if err != nil {
		return err
	}

	if len(refundCommands) == 0 {
		return nil
	}

	r.logger.Info("Publishing refunds", zap.Int("count", len(refundCommands)))

	successCount := 0
	for _, cmd := range refundCommands {
		body, _ := json.Marshal(cmd)
		if err := r.publisher.Publish(ctx, "", RefundQueue, body); err != nil {
			r.logger.Error("Failed to publish refund",
				zap.Error(err),
				zap.Int64("recordID", cmd.RecordID))
			continue
		}

		if err := r.service.MarkRefundAsQueued(ctx, cmd.RecordID); err != nil {
			continue
		}

		successCount++
	}

	if successCount > 0 {
		r.logger.Info("Successfully published refunds",
			zap.Int("published", successCount),
			zap.Int("total", len(refundCommands)))
	}

	return nil
}
