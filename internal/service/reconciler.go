package service

import (
	"errors"

	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/repository"
	"github.com/finsuite/ledgergateway/pkg/provider"
	"go.uber.org/zap"
)

// Reconciler maps a provider outcome onto the canonical record status.
// Only a definitive rejection becomes FAILED; an ambiguous outcome
// (timeout, unreachable provider) leaves the record PENDING rather than
// guessing, because by that point the funding source has been debited.
type Reconciler interface {
	Reconcile(resp provider.OrderResponse, callErr error) repository.StatusUpdate
	FundingFailure(callErr error) repository.StatusUpdate
}

type reconciler struct {
	logger *zap.Logger
}

func NewReconciler(logger *zap.Logger) Reconciler {
	return &reconciler{logger: logger}
}

func (r *reconciler) Reconcile(resp provider.OrderResponse, callErr error) repository.StatusUpdate {
	if callErr == nil && resp.Status == provider.StatusAccepted {
		ref := resp.ProviderRef
		return repository.StatusUpdate{
			Status:      model.TxStatusCompleted,
			Note:        "Payment completed.",
			ExternalRef: &ref,
		}
	}

	if callErr == nil || errors.Is(callErr, provider.ErrOrderRejected) {
		// Funds have already left the user; the rejection must never be
		// logged as a plain failure.
		lastError := provider.ErrOrderRejected.Error()
		if callErr == nil {
			lastError = "provider returned status " + resp.Status
		}

		r.logger.Warn("Provider rejected order after debit, flagging for refund",
			zap.String("reason", lastError))

		return repository.StatusUpdate{
			Status:         model.TxStatusFailed,
			RefundRequired: true,
			Note:           "Payment failed after funds were debited. Refund initiated.",
			LastError:      &lastError,
		}
	}

	lastError := callErr.Error()

	r.logger.Warn("Provider outcome ambiguous, keeping record pending",
		zap.String("reason", lastError))

	return repository.StatusUpdate{
		Status:    model.TxStatusPending,
		Note:      "Payment submitted, awaiting provider confirmation.",
		LastError: &lastError,
	}
}

func (r *reconciler) FundingFailure(callErr error) repository.StatusUpdate {
	lastError := callErr.Error()

	return repository.StatusUpdate{
		Status:    model.TxStatusFailed,
		Note:      "Payment failed before any funds were debited.",
		LastError: &lastError,
	}
}
