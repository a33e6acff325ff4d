package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/pkg/provider"
	"go.uber.org/zap"
)

// DomainStrategy supplies the per-domain pieces of the payment sequence.
// The orchestrator owns the sequence itself; bills, investments and
// withdrawals only differ in validation, bookkeeping kind and purpose tag.
type DomainStrategy interface {
	Domain() string
	Kind() model.TxKind
	PurposeTag() string
	Validate(cmd SubmitPaymentCommand) error
	Describe(cmd SubmitPaymentCommand) (counterparty, description string)
}

type PaymentOrchestrator interface {
	Submit(ctx context.Context, cmd SubmitPaymentCommand) (SubmitPaymentResult, error)
}

type orchestrator struct {
	strategies map[string]DomainStrategy
	ledger     LedgerService
	funding    FundingService
	provider   ProviderService
	reconciler Reconciler
	notifier   Notifier
	logger     *zap.Logger
}

func NewPaymentOrchestrator(strategies []DomainStrategy, ledger LedgerService, funding FundingService,
	providerSvc ProviderService, reconciler Reconciler, notifier Notifier, logger *zap.Logger) PaymentOrchestrator {

	byDomain := make(map[string]DomainStrategy, len(strategies))
	for _, s := range strategies {
		byDomain[s.Domain()] = s
	}

	return &orchestrator{strategies: byDomain, ledger: ledger, funding: funding,
		provider: providerSvc, reconciler: reconciler, notifier: notifier, logger: logger}
}

// Submit runs the full payment sequence: validate, append a PENDING record,
// debit the funding source, place the provider order, reconcile, finalize,
// notify. Once the debit succeeds the operation always runs to a recorded
// outcome; nothing after that point is abandoned.
func (o *orchestrator) Submit(ctx context.Context, cmd SubmitPaymentCommand) (SubmitPaymentResult, error) {
	strategy, ok := o.strategies[cmd.Domain]
	if !ok {
		return SubmitPaymentResult{}, NewServiceError(constants.ErrCodeValidationFailed,
			fmt.Errorf("unknown payment domain %q", cmd.Domain))
	}

	if err := strategy.Validate(cmd); err != nil {
		o.logger.Debug("Payment rejected by validation",
			zap.String("domain", cmd.Domain),
			zap.String("userID", cmd.UserID),
			zap.Error(err))
		return SubmitPaymentResult{}, err
	}

	counterparty, description := strategy.Describe(cmd)

	// Dedup happens here, before any funds move: a retried submission finds
	// the original record and stops.
	record, duplicate, err := o.ledger.Append(ctx, AppendRecordCommand{
		UserID:           cmd.UserID,
		Kind:             strategy.Kind(),
		CounterpartyName: counterparty,
		Description:      description,
		Amount:           -cmd.Amount,
		Method:           cmd.Method,
		Target:           cmd.Target,
		Status:           model.TxStatusPending,
		IdempotencyKey:   cmd.IdempotencyToken,
	})
	if err != nil {
		return SubmitPaymentResult{}, err
	}

	if duplicate {
		return SubmitPaymentResult{
			RecordID:  record.ID,
			Status:    record.Status,
			Message:   "duplicate submission, original record returned",
			Duplicate: true,
		}, nil
	}

	debitCmd := DebitFundsCommand{
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Method:         cmd.Method,
		PurposeTag:     strategy.PurposeTag(),
		IdempotencyKey: fmt.Sprintf("debit-%s", cmd.IdempotencyToken),
	}

	if err := o.funding.Debit(ctx, debitCmd); err != nil {
		return o.failBeforeFunds(ctx, record, cmd, err)
	}

	orderResp, orderErr := o.provider.PlaceOrderWithRetry(ctx, provider.OrderRequest{
		Domain:         cmd.Domain,
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Target:         cmd.Target,
		IdempotencyKey: cmd.IdempotencyToken,
	})

	outcome := o.reconciler.Reconcile(orderResp, orderErr)

	if err := o.ledger.Finalize(ctx, record.ID, outcome); err != nil {
		o.logger.Error("Failed to persist payment outcome",
			zap.Int64("recordID", record.ID),
			zap.String("outcome", string(outcome.Status)),
			zap.Error(err))
		return SubmitPaymentResult{RecordID: record.ID, Status: record.Status}, err
	}

	message := constants.GetErrorMessage(constants.ErrCodeProviderPending)
	switch outcome.Status {
	case model.TxStatusCompleted:
		message = "payment completed successfully"
	case model.TxStatusFailed:
		message = constants.GetErrorMessage(constants.ErrCodeProviderFailed)
	}

	o.notifier.PaymentUpdate(ctx, PaymentEvent{
		RecordID:       record.ID,
		UserID:         cmd.UserID,
		Kind:           string(strategy.Kind()),
		Status:         string(outcome.Status),
		Amount:         record.Amount,
		Message:        message,
		RefundRequired: outcome.RefundRequired,
	})

	result := SubmitPaymentResult{RecordID: record.ID, Status: outcome.Status, Message: message}

	if outcome.Status == model.TxStatusFailed {
		cause := orderErr
		if cause == nil {
			cause = errors.New(constants.ErrCodeProviderFailed)
		}
		return result, NewRecordError(constants.ErrCodeProviderFailed, record.ID, cause)
	}

	return result, nil
}

func (o *orchestrator) failBeforeFunds(ctx context.Context, record *model.TransactionRecord,
	cmd SubmitPaymentCommand, debitErr error) (SubmitPaymentResult, error) {

	o.logger.Warn("Funding source debit failed",
		zap.Int64("recordID", record.ID),
		zap.String("userID", cmd.UserID),
		zap.Error(debitErr))

	outcome := o.reconciler.FundingFailure(debitErr)
	if err := o.ledger.Finalize(ctx, record.ID, outcome); err != nil {
		o.logger.Error("Failed to record funding failure",
			zap.Int64("recordID", record.ID),
			zap.Error(err))
	}

	message := constants.GetErrorMessage(constants.ErrCodeFundingFailed)

	o.notifier.PaymentUpdate(ctx, PaymentEvent{
		RecordID: record.ID,
		UserID:   cmd.UserID,
		Kind:     string(record.Kind),
		Status:   string(model.TxStatusFailed),
		Amount:   record.Amount,
		Message:  message,
	})

	result := SubmitPaymentResult{RecordID: record.ID, Status: model.TxStatusFailed, Message: message}

	var serviceErr Error
	if errors.As(debitErr, &serviceErr) {
		return result, NewRecordError(serviceErr.Code, record.ID, serviceErr.Cause)
	}

	return result, NewRecordError(constants.ErrCodeFundingFailed, record.ID, debitErr)
}
