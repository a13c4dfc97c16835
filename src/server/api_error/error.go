package api_error

// JSONAPIError is the body of every failed request.
// ErrorDetails is the internal error chain and is left out in production.
type JSONAPIError struct {
	Code         string `json:"code"`
	Msg          string `json:"msg"`
	ErrorDetails string `json:"error_details,omitempty"`
}
