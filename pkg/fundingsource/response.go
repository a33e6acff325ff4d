package fundingsource

type Response struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	TrackID string `json:"x_track_id"`
	Result  Result `json:"result"`
}

type Result struct {
	SourceTransactionID int64 `json:"source_transaction_id"`
}
