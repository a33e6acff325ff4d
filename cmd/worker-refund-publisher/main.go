package main

import (
	"context"
	"time"

	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/internal/database"
	"github.com/finsuite/ledgergateway/internal/publishers"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/finsuite/ledgergateway/pkg/mq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			database.NewConnection,
			NewMQConnection,
			NewMQPublisher,

			repository.NewTransactionRepository,

			service.NewRefundQueueService,

			publishers.NewRefundPublisher,
		),
		fx.Invoke(runRefundPublisher),
	).Run()
}

func runRefundPublisher(cfg *config.Config, publisher publishers.RefundPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology(publishers.RefundQueue); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", publishers.RefundQueue))

			interval := cfg.Refund.PublishInterval
			if interval <= 0 {
				interval = 30 * time.Second
			}

			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish refund commands", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("refund publisher started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping refund publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
