package provider

import "errors"

// Sentinel outcomes of an order attempt, matched with errors.Is. The
// messages double as the code persisted into a record's last_error.
var (
	ErrServerError   = errors.New("SERVER_ERROR")   // 5xx responses
	ErrTimeout       = errors.New("TIMEOUT")        // context deadline hit
	ErrOrderRejected = errors.New("ORDER_REJECTED") // definitive 4xx rejection
	ErrNetworkError  = errors.New("NETWORK_ERROR")  // connection failures
)
