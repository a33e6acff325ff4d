package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/pkg/mq"
	"go.uber.org/zap"
)

type RefundService interface {
	Refund(ctx context.Context, cmd ProcessRefundCommand) error
}

type refund struct {
	txRepo    repository.TransactionRepository
	txManager repository.TxManager
	funding   FundingService
	notifier  Notifier
	logger    *zap.Logger
}

func NewRefundService(txRepo repository.TransactionRepository, txManager repository.TxManager,
	funding FundingService, notifier Notifier, logger *zap.Logger) RefundService {
	return &refund{txRepo: txRepo, txManager: txManager, funding: funding,
		notifier: notifier, logger: logger}
}

// Refund credits a refund-flagged record back to the user's funding source.
// The credit uses the record id as idempotency key, so a redelivered
// command cannot refund twice.
func (r *refund) Refund(ctx context.Context, cmd ProcessRefundCommand) error {
	r.logger.Info("Processing refund",
		zap.Int64("recordID", cmd.RecordID),
		zap.String("userID", cmd.UserID),
		zap.Int64("amount", cmd.Amount))

	record, err := r.getRefundableRecord(cmd.RecordID)
	if err != nil {
		r.logger.Debug("Record not processable",
			zap.Int64("recordID", cmd.RecordID),
			zap.Error(err))

		if errors.Is(err, ErrDatabase) {
			return mq.Temporary(err)
		}

		return nil
	}

	creditCmd := CreditFundsCommand{
		UserID:         record.UserID,
		Amount:         cmd.Amount,
		Method:         record.Method,
		PurposeTag:     "refund",
		IdempotencyKey: fmt.Sprintf("refund-%d", record.ID),
	}

	err = r.funding.Credit(ctx, creditCmd)
	if err == nil {
		if err := r.settleRefund(ctx, record, cmd.Amount); err != nil {
			r.logger.Error("Funds refunded but ledger update failed",
				zap.Int64("recordID", record.ID),
				zap.Error(err))
			return mq.Temporary(err)
		}

		r.notifier.PaymentUpdate(ctx, PaymentEvent{
			RecordID: record.ID,
			UserID:   record.UserID,
			Kind:     string(model.TxKindRefund),
			Status:   string(model.TxStatusCompleted),
			Amount:   cmd.Amount,
			Message:  "refund credited",
		})

		r.logger.Info("Refund completed successfully", zap.Int64("recordID", record.ID))
		return nil
	}

	r.logger.Warn("Funding source refund failed",
		zap.Int64("recordID", record.ID),
		zap.Error(err))

	var serviceErr Error
	if errors.As(err, &serviceErr) && serviceErr.Code == constants.ErrCodeUserNotFound {
		r.logger.Error("Permanent refund failure",
			zap.Int64("recordID", record.ID),
			zap.String("reason", serviceErr.Code))
		return nil
	}

	return mq.Temporary(err)
}

func (r *refund) getRefundableRecord(recordID int64) (*model.TransactionRecord, error) {
	record, err := r.txRepo.GetByID(recordID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}

		return nil, ErrDatabase
	}

	if record.RefundedAt != nil {
		r.logger.Info("Record already refunded", zap.Int64("recordID", recordID))
		return nil, ErrRefundAlreadyDone
	}

	if record.Status != model.TxStatusFailed || !record.RefundRequired {
		r.logger.Warn("Record not in refundable state",
			zap.Int64("recordID", recordID),
			zap.String("status", string(record.Status)),
			zap.Bool("refundRequired", record.RefundRequired))
		return nil, ErrRefundInvalidState
	}

	return record, nil
}

// settleRefund stamps the original record and appends the matching REFUND
// credit entry in one transaction, so the ledger never shows a refund
// without its origin or the other way round.
func (r *refund) settleRefund(ctx context.Context, record *model.TransactionRecord, amount int64) error {
	return r.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := r.txRepo.MarkRefunded(ctx, record.ID, "Refund credited."); err != nil {
			r.logger.Error("Failed to stamp record as refunded",
				zap.Int64("recordID", record.ID),
				zap.Error(err))
			return err
		}

		originID := fmt.Sprintf("%d", record.ID)
		credit := model.TransactionRecord{
			UserID:           record.UserID,
			Kind:             model.TxKindRefund,
			CounterpartyName: record.CounterpartyName,
			Description:      fmt.Sprintf("Refund for transaction #%d.", record.ID),
			Amount:           amount,
			Method:           record.Method,
			Status:           model.TxStatusCompleted,
			IdempotencyKey:   fmt.Sprintf("refund-%d", record.ID),
			LinkedEntityID:   &originID,
		}

		err := r.txRepo.Create(ctx, &credit)
		if err != nil && !errors.Is(err, repository.ErrRecordExisted) {
			r.logger.Error("Failed to append refund record",
				zap.Int64("recordID", record.ID),
				zap.Error(err))
			return err
		}

		return nil
	})
}
