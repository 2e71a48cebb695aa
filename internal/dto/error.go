package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error      string  `json:"error"`
	Code       string  `json:"code,omitempty"` // failure kind, e.g. INSUFFICIENT_FUNDS
	AccountIDs []int64 `json:"accountIDs,omitempty"`
}
