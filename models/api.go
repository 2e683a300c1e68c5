package models

// WriteResult is returned by create, update and delete calls.
type WriteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RecordResult is returned by GET /api/record/{date}.
type RecordResult struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Data    *Record `json:"data,omitempty"`
}
