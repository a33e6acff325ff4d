package service

import (
	"context"
	"time"

	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/pkg/provider"
	"go.uber.org/zap"
)

// PendingSweepService resolves records a submission left PENDING: a timed-out
// provider call, a worker crash between debit and finalize. The order is
// re-placed under the record's original idempotency key, so the provider
// either reports the existing order's state or accepts it fresh; either way
// the outcome goes through the same reconciliation as a live submission.
type PendingSweepService interface {
	Sweep(ctx context.Context) error
}

type pendingSweep struct {
	txRepo     repository.TransactionRepository
	provider   ProviderService
	reconciler Reconciler
	ledger     LedgerService
	notifier   Notifier
	domains    map[model.TxKind]string
	cfg        config.Sweep
	logger     *zap.Logger
}

func NewPendingSweepService(txRepo repository.TransactionRepository, providerSvc ProviderService,
	reconciler Reconciler, ledger LedgerService, notifier Notifier, strategies []DomainStrategy,
	cfg *config.Config, logger *zap.Logger) PendingSweepService {

	domains := make(map[model.TxKind]string, len(strategies))
	for _, s := range strategies {
		domains[s.Kind()] = s.Domain()
	}

	return &pendingSweep{txRepo: txRepo, provider: providerSvc, reconciler: reconciler,
		ledger: ledger, notifier: notifier, domains: domains, cfg: cfg.Sweep, logger: logger}
}

func (p *pendingSweep) Sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-p.cfg.MinAge)

	records, err := p.txRepo.FindStalePending(cutoff, p.cfg.BatchSize)
	if err != nil {
		p.logger.Error("Failed to load stale pending records", zap.Error(err))
		return err
	}

	if len(records) == 0 {
		return nil
	}

	p.logger.Info("Sweeping stale pending records", zap.Int("count", len(records)))

	for i := range records {
		p.resolve(ctx, &records[i])
	}

	return nil
}

// resolve re-queries the provider for one record. A record that is still
// ambiguous stays PENDING untouched and will be picked up by a later sweep.
func (p *pendingSweep) resolve(ctx context.Context, record *model.TransactionRecord) {
	domain, ok := p.domains[record.Kind]
	if !ok {
		// Disbursals, repayments and refunds have no provider rail; a stale
		// one means a crash mid-workflow and needs an operator, not a retry.
		p.logger.Warn("Stale pending record without a provider rail",
			zap.Int64("recordID", record.ID),
			zap.String("kind", string(record.Kind)))
		return
	}

	resp, orderErr := p.provider.PlaceOrderWithRetry(ctx, provider.OrderRequest{
		Domain:         domain,
		UserID:         record.UserID,
		Amount:         -record.Amount,
		Target:         record.Target,
		IdempotencyKey: record.IdempotencyKey,
	})

	outcome := p.reconciler.Reconcile(resp, orderErr)
	if outcome.Status == model.TxStatusPending {
		p.logger.Info("Record still unresolved, leaving pending",
			zap.Int64("recordID", record.ID),
			zap.Error(orderErr))
		return
	}

	if err := p.ledger.Finalize(ctx, record.ID, outcome); err != nil {
		p.logger.Error("Failed to finalize swept record",
			zap.Int64("recordID", record.ID),
			zap.String("outcome", string(outcome.Status)),
			zap.Error(err))
		return
	}

	message := "payment completed successfully"
	if outcome.Status == model.TxStatusFailed {
		message = constants.GetErrorMessage(constants.ErrCodeProviderFailed)
	}

	p.notifier.PaymentUpdate(ctx, PaymentEvent{
		RecordID:       record.ID,
		UserID:         record.UserID,
		Kind:           string(record.Kind),
		Status:         string(outcome.Status),
		Amount:         record.Amount,
		Message:        message,
		RefundRequired: outcome.RefundRequired,
	})

	p.logger.Info("Stale pending record resolved",
		zap.Int64("recordID", record.ID),
		zap.String("status", string(outcome.Status)),
		zap.Bool("refundRequired", outcome.RefundRequired))
}
