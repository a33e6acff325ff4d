package service

import (
	"context"
	"encoding/json"

	"github.com/finsuite/ledgergateway/pkg/mq"
	"go.uber.org/zap"
)

const notifyRoutingKey = "ledger.notify"

// Notifier fans ledger status changes out to connected clients. Publishing
// is fire-and-forget: a broker failure is logged and dropped, it must never
// roll back or delay the payment that triggered it.
type Notifier interface {
	PaymentUpdate(ctx context.Context, event PaymentEvent)
}

type notifier struct {
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewNotifier(publisher mq.Publisher, logger *zap.Logger) Notifier {
	return &notifier{publisher: publisher, logger: logger}
}

func (n *notifier) PaymentUpdate(ctx context.Context, event PaymentEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to encode payment event",
			zap.Int64("recordID", event.RecordID),
			zap.Error(err))
		return
	}

	if err := n.publisher.Publish(ctx, "", notifyRoutingKey, body); err != nil {
		n.logger.Warn("Failed to publish payment event",
			zap.Int64("recordID", event.RecordID),
			zap.String("userID", event.UserID),
			zap.Error(err))
		return
	}

	n.logger.Debug("Payment event published",
		zap.Int64("recordID", event.RecordID),
		zap.String("status", event.Status))
}
