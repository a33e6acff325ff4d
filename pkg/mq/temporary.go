package mq

import "errors"

// TemporaryError marks a handler failure as retryable so the consumer
// requeues the delivery instead of acking it away.
type TemporaryError struct {
	cause error
}

func Temporary(err error) error {
	if err == nil {
		return nil
	}
	return &TemporaryError{cause: err}
}

func (e *TemporaryError) Error() string { return e.cause.Error() }

func (e *TemporaryError) Unwrap() error { return e.cause }

func IsTemporary(err error) bool {
	var tmp *TemporaryError
	return errors.As(err, &tmp)
}
