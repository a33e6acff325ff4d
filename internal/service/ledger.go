package service

import (
	"context"
	"errors"
	"time"

	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/repository"
	"go.uber.org/zap"
)

// AppendRecordCommand describes a new ledger entry. Amount is already
// signed by the caller; zero is rejected.
type AppendRecordCommand struct {
	UserID           string
	Kind             model.TxKind
	CounterpartyName string
	Description      string
	Amount           int64
	Method           string
	Target           string
	Status           model.TxStatus
	IdempotencyKey   string
	LinkedEntityID   *string
}

type LedgerService interface {
	Append(ctx context.Context, cmd AppendRecordCommand) (*model.TransactionRecord, bool, error)
	Finalize(ctx context.Context, recordID int64, upd repository.StatusUpdate) error
	Query(ctx context.Context, cmd LedgerQueryCommand) ([]model.TransactionRecord, error)
}

type ledger struct {
	txRepo repository.TransactionRepository
	logger *zap.Logger
}

func NewLedgerService(txRepo repository.TransactionRepository, logger *zap.Logger) LedgerService {
	return &ledger{txRepo: txRepo, logger: logger}
}

// Append persists a new record, deduplicating on the idempotency key: a
// retried submission gets the original record back with duplicate=true
// instead of a second row.
func (l *ledger) Append(ctx context.Context, cmd AppendRecordCommand) (*model.TransactionRecord, bool, error) {
	if err := l.validate(cmd); err != nil {
		return nil, false, err
	}

	record := model.TransactionRecord{
		UserID:           cmd.UserID,
		Kind:             cmd.Kind,
		CounterpartyName: cmd.CounterpartyName,
		Description:      cmd.Description,
		Amount:           cmd.Amount,
		Method:           cmd.Method,
		Target:           cmd.Target,
		Status:           cmd.Status,
		IdempotencyKey:   cmd.IdempotencyKey,
		LinkedEntityID:   cmd.LinkedEntityID,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	err := l.txRepo.Create(ctx, &record)
	if err == nil {
		return &record, false, nil
	}

	if !errors.Is(err, repository.ErrRecordExisted) {
		l.logger.Error("Failed to append ledger record",
			zap.String("userID", cmd.UserID),
			zap.String("idempotencyKey", cmd.IdempotencyKey),
			zap.Error(err))
		return nil, false, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	existing, err := l.txRepo.GetByIdempotencyKey(cmd.IdempotencyKey)
	if err != nil {
		l.logger.Error("Failed to load record for duplicate submission",
			zap.String("idempotencyKey", cmd.IdempotencyKey),
			zap.Error(err))
		return nil, false, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	l.logger.Info("Idempotent resubmission, returning original record",
		zap.Int64("recordID", existing.ID),
		zap.String("idempotencyKey", cmd.IdempotencyKey))

	return existing, true, nil
}

// Finalize moves a PENDING record to its terminal status. A record already
// terminal is a ledger integrity violation and is surfaced loudly, never
// silently corrected.
func (l *ledger) Finalize(ctx context.Context, recordID int64, upd repository.StatusUpdate) error {
	err := l.txRepo.UpdateFromPending(ctx, recordID, upd)
	if err == nil {
		return nil
	}

	if !errors.Is(err, repository.ErrNoRowsAffected) {
		l.logger.Error("Failed to finalize ledger record",
			zap.Int64("recordID", recordID),
			zap.Error(err))
		return NewRecordError(constants.ErrCodeOperationFailed, recordID, err)
	}

	record, getErr := l.txRepo.GetByID(recordID)
	if getErr != nil {
		if errors.Is(getErr, repository.ErrRecordNotFound) {
			return NewRecordError(constants.ErrCodeRecordNotFound, recordID, ErrRecordNotFound)
		}
		return NewRecordError(constants.ErrCodeOperationFailed, recordID, getErr)
	}

	l.logger.Error("Attempted status transition on terminal record",
		zap.Int64("recordID", recordID),
		zap.String("currentStatus", string(record.Status)),
		zap.String("requestedStatus", string(upd.Status)))

	return NewRecordError(constants.ErrCodeInvalidTransition, recordID, ErrInvalidTransition)
}

func (l *ledger) Query(ctx context.Context, cmd LedgerQueryCommand) ([]model.TransactionRecord, error) {
	if cmd.Kind != "" && !model.ValidKind(cmd.Kind) {
		return nil, NewServiceError(constants.ErrCodeValidationFailed, errors.New("unknown transaction kind"))
	}

	if cmd.Status != "" && !model.ValidStatus(cmd.Status) {
		return nil, NewServiceError(constants.ErrCodeValidationFailed, errors.New("unknown transaction status"))
	}

	records, err := l.txRepo.Query(repository.LedgerQuery{
		UserID: cmd.UserID,
		Kind:   cmd.Kind,
		Status: cmd.Status,
		From:   cmd.From,
		To:     cmd.To,
		Search: cmd.Search,
		Limit:  cmd.Limit,
		Offset: cmd.Offset,
	})
	if err != nil {
		l.logger.Error("Ledger query failed",
			zap.String("userID", cmd.UserID),
			zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return records, nil
}

func (l *ledger) validate(cmd AppendRecordCommand) error {
	if cmd.Amount == 0 {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("amount must not be zero"))
	}

	if !model.ValidKind(cmd.Kind) {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("unknown transaction kind"))
	}

	if !model.ValidStatus(cmd.Status) {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("unknown transaction status"))
	}

	if !model.ValidMethod(cmd.Method) {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("unknown payment method"))
	}

	if cmd.UserID == "" || cmd.IdempotencyKey == "" {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("userID and idempotency key are required"))
	}

	return nil
}
