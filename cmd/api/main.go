package main

import (
	"context"

	"github.com/finsuite/ledgergateway/internal/api"
	v1 "github.com/finsuite/ledgergateway/internal/api/v1"
	"github.com/finsuite/ledgergateway/internal/api/v1/middleware"
	apivalidator "github.com/finsuite/ledgergateway/internal/api/validator"
	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/internal/database"
	apperrors "github.com/finsuite/ledgergateway/internal/errors"
	"github.com/finsuite/ledgergateway/internal/metrics"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/finsuite/ledgergateway/pkg/fundingsource"
	"github.com/finsuite/ledgergateway/pkg/httpclient"
	"github.com/finsuite/ledgergateway/pkg/mq"
	"github.com/finsuite/ledgergateway/pkg/provider"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			database.NewConnection,
			NewMQConnection,
			NewMQPublisher,
			NewFiberApp,

			metrics.NewMetrics,
			NewValidator,

			repository.NewTransactionRepository,
			repository.NewLoanRepository,
			repository.NewTransactionManager,

			NewFundingSource,
			NewProviderAdapter,

			service.NewDomainStrategies,
			service.NewLedgerService,
			service.NewFundingService,
			service.NewProviderService,
			service.NewReconciler,
			service.NewNotifier,
			service.NewPaymentOrchestrator,
			service.NewLoanWorkflowService,

			v1.NewHandler,
		),
		fx.Invoke(startServer, startCollector),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	rabbit *mq.RabbitMQ, logger *zap.Logger, lc fx.Lifecycle) {
	app.Use(middleware.TrackIDMiddleware())
	app.Use(middleware.HealthCheckMiddleware("ledgergateway"))
	app.Use(middleware.HTTPMetricsMiddleware(m, logger))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api.SetupRoutes(app, handler)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology("ledger.refund", "ledger.notify"); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			go app.Listen(cfg.API.Port)
			logger.Info("api listening", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			return rabbit.Close()
		},
	})
}

func startCollector(m *metrics.Metrics, db *gorm.DB, lc fx.Lifecycle) {
	collector := metrics.NewCollector(m, db)
	appCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			collector.Start(appCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler()})
}

func NewValidator(m *metrics.Metrics) apivalidator.IXValidator {
	return apivalidator.NewXValidator(validator.New(), m)
}

func NewFundingSource(cfg *config.Config) fundingsource.FundingSource {
	client := httpclient.NewHTTPClient(cfg.FundingSource.Timeout)
	return fundingsource.NewFundingSource(cfg.FundingSource, client)
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
