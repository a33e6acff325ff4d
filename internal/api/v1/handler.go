package v1

import (
	"time"

	"github.com/finsuite/ledgergateway/internal/api/contract"
	"github.com/finsuite/ledgergateway/internal/api/v1/middleware"
	"github.com/finsuite/ledgergateway/internal/api/validator"
	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/internal/metrics"
	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const userIDHeader = "X-User-ID"

type Handler struct {
	logger     *zap.Logger
	payments   service.PaymentOrchestrator
	ledger     service.LedgerService
	loans      service.LoanWorkflowService
	XValidator validator.IXValidator
	metrics    *metrics.Metrics
}

func NewHandler(logger *zap.Logger, payments service.PaymentOrchestrator, ledger service.LedgerService,
	loans service.LoanWorkflowService, XValidator validator.IXValidator, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:     logger,
		payments:   payments,
		ledger:     ledger,
		loans:      loans,
		XValidator: XValidator,
		metrics:    metrics,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) SubmitPayment(c *fiber.Ctx) error {
	start := time.Now()

	userID := c.Get(userIDHeader)
	if userID == "" {
		return missingUserID(c)
	}

	var handlerRequest SubmitPaymentRequest
	validationStart := time.Now()

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	h.metrics.RecordValidationDuration("submit_payment", time.Since(validationStart))

	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		responseError.TrackID = middleware.TrackID(c)
		return c.JSON(responseError)
	}

	cmd := service.SubmitPaymentCommand{
		Domain:           handlerRequest.Domain,
		UserID:           userID,
		Amount:           handlerRequest.Amount,
		Target:           handlerRequest.Target,
		Counterparty:     handlerRequest.Counterparty,
		Method:           handlerRequest.Method,
		IdempotencyToken: handlerRequest.IdempotencyKey,
	}

	result, err := h.payments.Submit(c.UserContext(), cmd)
	if err != nil {
		h.metrics.RecordPayment(cmd.Domain, "error")
		return err
	}

	h.metrics.RecordPayment(cmd.Domain, string(result.Status))

	h.logger.Info("Payment submitted",
		zap.String("user_id", cmd.UserID),
		zap.String("domain", cmd.Domain),
		zap.Int64("record_id", result.RecordID),
		zap.String("status", string(result.Status)),
		zap.Bool("duplicate", result.Duplicate),
		zap.Duration("duration", time.Since(start)),
	)

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		Message:    result.Message,
		TrackID:    middleware.TrackID(c),
		Result:     result,
	})
}

func (h *Handler) QueryLedger(c *fiber.Ctx) error {
	userID := c.Get(userIDHeader)
	if userID == "" {
		return missingUserID(c)
	}

	cmd := service.LedgerQueryCommand{
		UserID: userID,
		Kind:   model.TxKind(c.Query("kind")),
		Status: model.TxStatus(c.Query("status")),
		Search: c.Query("q"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	var parseErr error
	if cmd.From, parseErr = parseTimeQuery(c.Query("from")); parseErr != nil {
		return badTimeQuery(c, "from")
	}
	if cmd.To, parseErr = parseTimeQuery(c.Query("to")); parseErr != nil {
		return badTimeQuery(c, "to")
	}

	records, err := h.ledger.Query(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	entries := make([]LedgerEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, toLedgerEntry(r))
	}

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		TrackID:    middleware.TrackID(c),
		Result:     LedgerResponse{Entries: entries, Count: len(entries)},
	})
}

func (h *Handler) ApplyLoan(c *fiber.Ctx) error {
	userID := c.Get(userIDHeader)
	if userID == "" {
		return missingUserID(c)
	}

	var handlerRequest ApplyLoanRequest
	validationStart := time.Now()

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	h.metrics.RecordValidationDuration("apply_loan", time.Since(validationStart))

	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		responseError.TrackID = middleware.TrackID(c)
		return c.JSON(responseError)
	}

	purpose := model.LoanPurpose(handlerRequest.Purpose)
	if purpose == "" {
		purpose = model.LoanPurposeGeneral
	}

	cmd := service.ApplyLoanCommand{
		UserID:           userID,
		Amount:           handlerRequest.Amount,
		Purpose:          purpose,
		Method:           handlerRequest.Method,
		IdempotencyToken: handlerRequest.IdempotencyKey,
	}

	result, err := h.loans.Apply(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	if !result.Duplicate {
		h.metrics.RecordLoanIssued()
	}

	h.logger.Info("Loan disbursed",
		zap.String("user_id", cmd.UserID),
		zap.Int64("loan_id", result.LoanID),
		zap.Int64("amount", cmd.Amount),
		zap.Bool("duplicate", result.Duplicate),
	)

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		Message:    constants.LoanDisbursed,
		TrackID:    middleware.TrackID(c),
		Result:     result,
	})
}

func (h *Handler) GetActiveLoan(c *fiber.Ctx) error {
	userID := c.Get(userIDHeader)
	if userID == "" {
		return missingUserID(c)
	}

	loan, err := h.loans.GetActive(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		TrackID:    middleware.TrackID(c),
		Result:     toActiveLoanResponse(loan),
	})
}

func (h *Handler) RepayLoan(c *fiber.Ctx) error {
	userID := c.Get(userIDHeader)
	if userID == "" {
		return missingUserID(c)
	}

	var handlerRequest RepayLoanRequest
	validationStart := time.Now()

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	h.metrics.RecordValidationDuration("repay_loan", time.Since(validationStart))

	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		responseError.TrackID = middleware.TrackID(c)
		return c.JSON(responseError)
	}

	cmd := service.RepayLoanCommand{
		UserID:           userID,
		LoanID:           handlerRequest.LoanID,
		Amount:           handlerRequest.Amount,
		Method:           handlerRequest.Method,
		IdempotencyToken: handlerRequest.IdempotencyKey,
	}

	result, err := h.loans.Repay(c.UserContext(), cmd)
	if err != nil {
		h.metrics.RecordLoanRepayment("error")
		return err
	}

	h.metrics.RecordLoanRepayment("success")

	h.logger.Info("Loan repayment applied",
		zap.String("user_id", cmd.UserID),
		zap.Int64("loan_id", cmd.LoanID),
		zap.Int64("amount", cmd.Amount),
		zap.Int64("amount_due", result.AmountDue),
		zap.String("loan_status", string(result.LoanStatus)),
	)

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		Message:    result.Message,
		TrackID:    middleware.TrackID(c),
		Result:     result,
	})
}

func missingUserID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(contract.Response{
		Code:    constants.ErrCodeValidationFailed,
		Message: "The '" + userIDHeader + "' header is required",
		TrackID: middleware.TrackID(c),
	})
}

func parseTimeQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func badTimeQuery(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(contract.Response{
		Code:    constants.ErrCodeValidationFailed,
		Message: "The '" + field + "' query must be RFC3339, e.g. " + time.RFC3339,
		TrackID: middleware.TrackID(c),
	})
}
