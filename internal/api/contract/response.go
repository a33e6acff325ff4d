package contract

type Response struct {
	Successful bool   `json:"successful"`
	Code       string `json:"code"`
	Message    string `json:"message,omitempty"`
	TrackID    string `json:"x_track_id"`
	Result     any    `json:"result,omitempty"`
}

type ErrorResponse struct {
	Successful bool   `json:"successful"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	TrackID    string `json:"x_track_id,omitempty"`
	RecordID   int64  `json:"record_id,omitempty"`
}
