package constants

const MessageErrorFormat = "The '%s' format is invalid"

const (
	LoanDisbursed = "loan disbursed successfully"
	LoanRepaid    = "loan repaid in full"
)

const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeFundingFailed       = "FUNDING_FAILED"
	ErrCodeProviderFailed      = "PROVIDER_FAILED"
	ErrCodeProviderPending     = "PROVIDER_PENDING"
	ErrCodeActiveLoanExists    = "ACTIVE_LOAN_EXISTS"
	ErrCodeLoanLimitExceeded   = "LOAN_LIMIT_EXCEEDED"
	ErrCodeLoanNotFound        = "LOAN_NOT_FOUND"
	ErrCodeLoanNotActive       = "LOAN_NOT_ACTIVE"
	ErrCodeOverpayment         = "OVERPAYMENT"
	ErrCodeRecordNotFound      = "RECORD_NOT_FOUND"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeOperationFailed     = "OPERATION_FAILED"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:    "request validation failed",
	ErrCodeInvalidRequestBody:  "failed to parse request body",
	ErrCodeUserNotFound:        "user not found",
	ErrCodeInsufficientBalance: "insufficient balance, no funds were debited",
	ErrCodeFundingFailed:       "could not debit funding source, no funds were debited",
	ErrCodeProviderFailed:      "payment failed after funds were debited, refund initiated",
	ErrCodeProviderPending:     "payment outcome pending confirmation",
	ErrCodeActiveLoanExists:    "an active loan already exists for this user",
	ErrCodeLoanLimitExceeded:   "requested amount exceeds the loan eligibility limit",
	ErrCodeLoanNotFound:        "loan not found",
	ErrCodeLoanNotActive:       "loan is not active",
	ErrCodeOverpayment:         "repayment amount exceeds the outstanding due",
	ErrCodeRecordNotFound:      "transaction record not found",
	ErrCodeInvalidTransition:   "transaction record is already in a terminal state",
	ErrCodeInternalError:       "Internal server error",
	ErrCodeOperationFailed:     "operation failed",
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return errorMessages[ErrCodeInternalError]
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeValidationFailed:
		return 400
	case ErrCodeUserNotFound, ErrCodeLoanNotFound, ErrCodeRecordNotFound:
		return 404
	case ErrCodeInsufficientBalance, ErrCodeActiveLoanExists, ErrCodeLoanNotActive, ErrCodeOverpayment:
		return 409
	case ErrCodeLoanLimitExceeded:
		return 422
	case ErrCodeFundingFailed, ErrCodeProviderFailed:
		return 402
	case ErrCodeInvalidTransition, ErrCodeInternalError, ErrCodeOperationFailed:
		return 500
	default:
		return 500
	}
}
