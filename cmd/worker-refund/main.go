package main

import (
	"context"

	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/internal/consumers"
	"github.com/finsuite/ledgergateway/internal/database"
	"github.com/finsuite/ledgergateway/internal/publishers"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/finsuite/ledgergateway/pkg/fundingsource"
	"github.com/finsuite/ledgergateway/pkg/httpclient"
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
			NewMQConsumer,
			NewMQPublisher,

			repository.NewTransactionRepository,
			repository.NewTransactionManager,

			NewFundingSource,
			service.NewFundingService,
			service.NewNotifier,
			service.NewRefundService,

			consumers.NewRefundConsumer,
		),
		fx.Invoke(runRefundConsumer),
	).Run()
}

func runRefundConsumer(cfg *config.Config, refundConsumer consumers.RefundConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology(publishers.RefundQueue, "ledger.notify"); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", publishers.RefundQueue))

			go func() {
				if err := refundConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("refund consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping refund consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewFundingSource(cfg *config.Config) fundingsource.FundingSource {
	client := httpclient.NewHTTPClient(cfg.FundingSource.Timeout)
	return fundingsource.NewFundingSource(cfg.FundingSource, client)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
