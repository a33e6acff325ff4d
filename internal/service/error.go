package service

import "errors"

var (
	ErrRecordNotFound     = errors.New("RECORD_NOT_FOUND")
	ErrInvalidTransition  = errors.New("INVALID_TRANSITION")
	ErrRefundInvalidState = errors.New("REFUND_INVALID_STATE")
	ErrRefundAlreadyDone  = errors.New("REFUND_ALREADY_PROCESSED")
	ErrDatabase           = errors.New("DATABASE_ERROR")
)

// Error is the structured failure surfaced to callers. RecordID is set when
// a ledger record was created before the failure, so the client can look up
// the final status instead of assuming nothing happened.
type Error struct {
	Code     string
	RecordID int64
	Cause    error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func NewRecordError(code string, recordID int64, cause error) error {
	return Error{Code: code, RecordID: recordID, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
