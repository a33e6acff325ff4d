package fundingsource

import "errors"

const (
	StatusOK                  = 200
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusUnprocessableEntity = 422
)

const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeTimeout             = "TIMEOUT"
	ErrCodeServerError         = "SERVER_ERROR"
)

var (
	ErrValidationFailed    = errors.New(ErrCodeValidationFailed)
	ErrUserNotFound        = errors.New(ErrCodeUserNotFound)
	ErrInsufficientBalance = errors.New(ErrCodeInsufficientBalance)
	ErrTimeout             = errors.New(ErrCodeTimeout)
	ErrServerError         = errors.New(ErrCodeServerError)
)

func MapStatusToError(statusCode int) error {
	switch statusCode {
	case StatusNotFound:
		return ErrUserNotFound
	case StatusConflict:
		return ErrInsufficientBalance
	case StatusUnprocessableEntity:
		return ErrValidationFailed
	default:
		return ErrServerError
	}
}
