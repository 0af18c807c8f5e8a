package types

// Response is the envelope written for failed requests.
type Response struct {
	Success   bool   `json:"success" example:"false"`
	Error     string `json:"error,omitempty" example:"destination not found"`
	RequestID string `json:"request_id,omitempty"`
}
