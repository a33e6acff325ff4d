package main

import (
	"context"
	"time"

	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/internal/database"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/finsuite/ledgergateway/pkg/httpclient"
	"github.com/finsuite/ledgergateway/pkg/mq"
	"github.com/finsuite/ledgergateway/pkg/provider"
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

			NewProviderAdapter,
			service.NewDomainStrategies,
			service.NewLedgerService,
			service.NewProviderService,
			service.NewReconciler,
			service.NewNotifier,
			service.NewPendingSweepService,
		),
		fx.Invoke(runPendingSweep),
	).Run()
}

func runPendingSweep(cfg *config.Config, sweeper service.PendingSweepService, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology("ledger.notify"); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			interval := cfg.Sweep.Interval
			if interval <= 0 {
				interval = time.Minute
			}

			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := sweeper.Sweep(appCtx); err != nil {
							logger.Error("pending sweep failed", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("sweep context cancelled")
						return
					}
				}
			}()

			logger.Info("pending sweep started", zap.Duration("interval", interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping pending sweep")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewProviderAdapter(cfg *config.Config) provider.Adapter {
	client := httpclient.NewHTTPClient(cfg.Provider.Timeout)
	return provider.NewHTTPAdapter(cfg.Provider, client)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
