package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/finsuite/ledgergateway/internal/config"
	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/repository"
	"go.uber.org/zap"
)

type LoanWorkflowService interface {
	Apply(ctx context.Context, cmd ApplyLoanCommand) (ApplyLoanResult, error)
	Repay(ctx context.Context, cmd RepayLoanCommand) (RepayLoanResult, error)
	GetActive(ctx context.Context, userID string) (*model.MicroLoan, error)
}

type loanWorkflow struct {
	loanRepo  repository.LoanRepository
	txManager repository.TxManager
	ledger    LedgerService
	funding   FundingService
	notifier  Notifier
	cfg       config.Loan
	logger    *zap.Logger
}

func NewLoanWorkflowService(loanRepo repository.LoanRepository, txManager repository.TxManager,
	ledger LedgerService, funding FundingService, notifier Notifier, cfg *config.Config,
	logger *zap.Logger) LoanWorkflowService {

	return &loanWorkflow{loanRepo: loanRepo, txManager: txManager, ledger: ledger,
		funding: funding, notifier: notifier, cfg: cfg.Loan, logger: logger}
}

// Apply disburses a micro-loan: eligibility and the one-active-loan rule are
// checked before any record or money movement, then funds are credited and
// the loan row plus its LOAN_DISBURSAL record are committed together. A lost
// race on the active-loan index after the credit reclaims the funds, the
// mirror image of the refund path on payments.
func (l *loanWorkflow) Apply(ctx context.Context, cmd ApplyLoanCommand) (ApplyLoanResult, error) {
	if err := l.validateApply(cmd); err != nil {
		return ApplyLoanResult{}, err
	}

	if cmd.Amount > l.cfg.EligibilityLimit {
		l.logger.Info("Loan application over eligibility limit",
			zap.String("userID", cmd.UserID),
			zap.Int64("requested", cmd.Amount),
			zap.Int64("limit", l.cfg.EligibilityLimit))
		return ApplyLoanResult{}, NewServiceError(constants.ErrCodeLoanLimitExceeded,
			fmt.Errorf("requested %d exceeds limit %d", cmd.Amount, l.cfg.EligibilityLimit))
	}

	if _, err := l.loanRepo.GetActiveByUserID(cmd.UserID); err == nil {
		return ApplyLoanResult{}, NewServiceError(constants.ErrCodeActiveLoanExists,
			errors.New("active loan already exists"))
	} else if !errors.Is(err, repository.ErrLoanNotFound) {
		return ApplyLoanResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	record, duplicate, err := l.ledger.Append(ctx, AppendRecordCommand{
		UserID:           cmd.UserID,
		Kind:             model.TxKindLoanDisbursal,
		CounterpartyName: "Micro-loan",
		Description:      fmt.Sprintf("Micro-loan disbursal (%s).", cmd.Purpose),
		Amount:           cmd.Amount,
		Method:           cmd.Method,
		Status:           model.TxStatusPending,
		IdempotencyKey:   cmd.IdempotencyToken,
	})
	if err != nil {
		return ApplyLoanResult{}, err
	}

	if duplicate {
		return l.duplicateApplyResult(record)
	}

	creditCmd := CreditFundsCommand{
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Method:         cmd.Method,
		PurposeTag:     "loan-disbursal",
		IdempotencyKey: fmt.Sprintf("disburse-%s", cmd.IdempotencyToken),
	}

	if err := l.funding.Credit(ctx, creditCmd); err != nil {
		l.finalizeFailed(ctx, record.ID, "Loan disbursal failed, no funds were credited.", false, err)
		l.notifyLoan(ctx, cmd.UserID, record, model.TxStatusFailed,
			"loan disbursal failed, no funds were credited", false)

		var serviceErr Error
		if errors.As(err, &serviceErr) {
			return ApplyLoanResult{}, NewRecordError(serviceErr.Code, record.ID, serviceErr.Cause)
		}
		return ApplyLoanResult{}, NewRecordError(constants.ErrCodeFundingFailed, record.ID, err)
	}

	activeKey := cmd.UserID
	loan := model.MicroLoan{
		UserID:         cmd.UserID,
		AmountBorrowed: cmd.Amount,
		AmountDue:      cmd.Amount,
		Purpose:        cmd.Purpose,
		Status:         model.LoanStatusActive,
		ActiveKey:      &activeKey,
		IssuedAt:       time.Now(),
		DueAt:          time.Now().Add(l.cfg.Term),
	}

	err = l.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := l.loanRepo.Create(ctx, &loan); err != nil {
			return err
		}

		loanID := strconv.FormatInt(loan.ID, 10)
		return l.ledger.Finalize(ctx, record.ID, repository.StatusUpdate{
			Status:         model.TxStatusCompleted,
			Note:           "Loan disbursed.",
			LinkedEntityID: &loanID,
		})
	})

	if err != nil {
		return l.unwindDisbursal(ctx, cmd, record, err)
	}

	l.notifyLoan(ctx, cmd.UserID, record, model.TxStatusCompleted, "loan disbursed successfully", false)

	l.logger.Info("Micro-loan disbursed",
		zap.Int64("loanID", loan.ID),
		zap.Int64("recordID", record.ID),
		zap.String("userID", cmd.UserID),
		zap.Int64("amount", cmd.Amount))

	return ApplyLoanResult{
		LoanID:    loan.ID,
		RecordID:  record.ID,
		AmountDue: loan.AmountDue,
		DueAt:     loan.DueAt,
		Status:    loan.Status,
	}, nil
}

// Repay debits the repayment from the funding source and applies it to the
// loan with a floor-guarded decrement. If a concurrent repayment wins the
// race and the debited amount no longer fits, the record is refund-flagged
// so the money finds its way back.
func (l *loanWorkflow) Repay(ctx context.Context, cmd RepayLoanCommand) (RepayLoanResult, error) {
	if err := l.validateRepay(cmd); err != nil {
		return RepayLoanResult{}, err
	}

	loan, err := l.loanRepo.GetByID(cmd.LoanID)
	if err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			return RepayLoanResult{}, NewServiceError(constants.ErrCodeLoanNotFound, err)
		}
		return RepayLoanResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if loan.UserID != cmd.UserID {
		return RepayLoanResult{}, NewServiceError(constants.ErrCodeLoanNotFound,
			errors.New("loan does not belong to user"))
	}

	if loan.Status != model.LoanStatusActive {
		return RepayLoanResult{}, NewServiceError(constants.ErrCodeLoanNotActive,
			fmt.Errorf("loan is %s", loan.Status))
	}

	if cmd.Amount > loan.AmountDue {
		return RepayLoanResult{}, NewServiceError(constants.ErrCodeOverpayment,
			fmt.Errorf("repayment %d exceeds outstanding due %d", cmd.Amount, loan.AmountDue))
	}

	loanID := strconv.FormatInt(loan.ID, 10)
	record, duplicate, err := l.ledger.Append(ctx, AppendRecordCommand{
		UserID:           cmd.UserID,
		Kind:             model.TxKindLoanRepayment,
		CounterpartyName: "Micro-loan",
		Description:      fmt.Sprintf("Repayment towards loan #%d.", loan.ID),
		Amount:           -cmd.Amount,
		Method:           cmd.Method,
		Status:           model.TxStatusPending,
		IdempotencyKey:   cmd.IdempotencyToken,
		LinkedEntityID:   &loanID,
	})
	if err != nil {
		return RepayLoanResult{}, err
	}

	if duplicate {
		return RepayLoanResult{
			LoanID:    loan.ID,
			RecordID:  record.ID,
			AmountDue: loan.AmountDue,
			LoanStatus: loan.Status,
			Message:   "duplicate submission, original record returned",
			Duplicate: true,
		}, nil
	}

	debitCmd := DebitFundsCommand{
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Method:         cmd.Method,
		PurposeTag:     "loan-repayment",
		IdempotencyKey: fmt.Sprintf("repay-%s", cmd.IdempotencyToken),
	}

	if err := l.funding.Debit(ctx, debitCmd); err != nil {
		l.finalizeFailed(ctx, record.ID, "Repayment failed, no funds were debited.", false, err)
		l.notifyLoan(ctx, cmd.UserID, record, model.TxStatusFailed,
			"repayment failed, no funds were debited", false)

		var serviceErr Error
		if errors.As(err, &serviceErr) {
			return RepayLoanResult{}, NewRecordError(serviceErr.Code, record.ID, serviceErr.Cause)
		}
		return RepayLoanResult{}, NewRecordError(constants.ErrCodeFundingFailed, record.ID, err)
	}

	var updated *model.MicroLoan
	err = l.txManager.WithTx(ctx, func(ctx context.Context) error {
		updated, err = l.loanRepo.DecrementDue(ctx, loan.ID, cmd.Amount)
		if err != nil {
			return err
		}

		note := fmt.Sprintf("Repayment applied, outstanding due %d.", updated.AmountDue)
		if updated.Status == model.LoanStatusRepaid {
			note = "Repayment applied, loan fully repaid."
		}

		return l.ledger.Finalize(ctx, record.ID, repository.StatusUpdate{
			Status: model.TxStatusCompleted,
			Note:   note,
		})
	})

	if err != nil {
		// Funds already left the user; a repayment the loan can no longer
		// absorb is refund-flagged, never dropped.
		l.logger.Error("Repayment debited but could not be applied, flagging for refund",
			zap.Int64("loanID", loan.ID),
			zap.Int64("recordID", record.ID),
			zap.Error(err))

		l.finalizeFailed(ctx, record.ID,
			"Repayment could not be applied after funds were debited. Refund initiated.", true, err)
		l.notifyLoan(ctx, cmd.UserID, record, model.TxStatusFailed,
			constants.GetErrorMessage(constants.ErrCodeProviderFailed), true)

		code := constants.ErrCodeOperationFailed
		if errors.Is(err, repository.ErrOverpayment) {
			code = constants.ErrCodeOverpayment
		}

		return RepayLoanResult{}, NewRecordError(code, record.ID, err)
	}

	message := "repayment applied"
	if updated.Status == model.LoanStatusRepaid {
		message = "loan fully repaid"
	}

	l.notifyLoan(ctx, cmd.UserID, record, model.TxStatusCompleted, message, false)

	return RepayLoanResult{
		LoanID:     updated.ID,
		RecordID:   record.ID,
		AmountDue:  updated.AmountDue,
		LoanStatus: updated.Status,
		Message:    message,
	}, nil
}

func (l *loanWorkflow) GetActive(ctx context.Context, userID string) (*model.MicroLoan, error) {
	loan, err := l.loanRepo.GetActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			return nil, NewServiceError(constants.ErrCodeLoanNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return loan, nil
}

func (l *loanWorkflow) unwindDisbursal(ctx context.Context, cmd ApplyLoanCommand,
	record *model.TransactionRecord, cause error) (ApplyLoanResult, error) {

	l.logger.Error("Critical: Funds credited but loan creation failed, reclaiming",
		zap.Int64("recordID", record.ID),
		zap.String("userID", cmd.UserID),
		zap.Error(cause))

	reclaimCmd := DebitFundsCommand{
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		Method:         cmd.Method,
		PurposeTag:     "loan-disbursal-reversal",
		IdempotencyKey: fmt.Sprintf("reclaim-%s", cmd.IdempotencyToken),
	}

	if reclaimErr := l.funding.Debit(ctx, reclaimCmd); reclaimErr != nil {
		l.logger.Error("CRITICAL: User credited without loan - manual intervention required",
			zap.Int64("recordID", record.ID),
			zap.String("userID", cmd.UserID),
			zap.Error(reclaimErr))

		// TODO: alerting for manual investigation
	}

	l.finalizeFailed(ctx, record.ID, "Loan creation failed, disbursed funds reclaimed.", false, cause)
	l.notifyLoan(ctx, cmd.UserID, record, model.TxStatusFailed, "loan application failed", false)

	if errors.Is(cause, repository.ErrActiveLoanExists) {
		return ApplyLoanResult{}, NewRecordError(constants.ErrCodeActiveLoanExists, record.ID, cause)
	}

	return ApplyLoanResult{}, NewRecordError(constants.ErrCodeOperationFailed, record.ID, cause)
}

func (l *loanWorkflow) duplicateApplyResult(record *model.TransactionRecord) (ApplyLoanResult, error) {
	result := ApplyLoanResult{RecordID: record.ID, Duplicate: true}

	if record.LinkedEntityID != nil {
		if loanID, err := strconv.ParseInt(*record.LinkedEntityID, 10, 64); err == nil {
			if loan, err := l.loanRepo.GetByID(loanID); err == nil {
				result.LoanID = loan.ID
				result.AmountDue = loan.AmountDue
				result.DueAt = loan.DueAt
				result.Status = loan.Status
			}
		}
	}

	return result, nil
}

func (l *loanWorkflow) finalizeFailed(ctx context.Context, recordID int64, note string,
	refundRequired bool, cause error) {

	lastError := cause.Error()
	err := l.ledger.Finalize(ctx, recordID, repository.StatusUpdate{
		Status:         model.TxStatusFailed,
		RefundRequired: refundRequired,
		Note:           note,
		LastError:      &lastError,
	})
	if err != nil {
		l.logger.Error("Failed to record loan operation failure",
			zap.Int64("recordID", recordID),
			zap.Error(err))
	}
}

func (l *loanWorkflow) notifyLoan(ctx context.Context, userID string, record *model.TransactionRecord,
	status model.TxStatus, message string, refundRequired bool) {

	l.notifier.PaymentUpdate(ctx, PaymentEvent{
		RecordID:       record.ID,
		UserID:         userID,
		Kind:           string(record.Kind),
		Status:         string(status),
		Amount:         record.Amount,
		Message:        message,
		RefundRequired: refundRequired,
	})
}

func (l *loanWorkflow) validateApply(cmd ApplyLoanCommand) error {
	if cmd.Amount <= 0 {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("amount must be positive"))
	}

	if !model.ValidLoanPurpose(cmd.Purpose) {
		return NewServiceError(constants.ErrCodeValidationFailed, fmt.Errorf("unknown loan purpose %q", cmd.Purpose))
	}

	if !model.ValidMethod(cmd.Method) {
		return NewServiceError(constants.ErrCodeValidationFailed, fmt.Errorf("unknown payment method %q", cmd.Method))
	}

	if cmd.UserID == "" || cmd.IdempotencyToken == "" {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("user id and idempotency token are required"))
	}

	return nil
}

func (l *loanWorkflow) validateRepay(cmd RepayLoanCommand) error {
	if cmd.Amount <= 0 {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("amount must be positive"))
	}

	if cmd.LoanID <= 0 {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("loan id is required"))
	}

	if !model.ValidMethod(cmd.Method) {
		return NewServiceError(constants.ErrCodeValidationFailed, fmt.Errorf("unknown payment method %q", cmd.Method))
	}

	if cmd.UserID == "" || cmd.IdempotencyToken == "" {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("user id and idempotency token are required"))
	}

	return nil
}
