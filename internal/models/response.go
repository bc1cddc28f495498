package models

// ErrorItem carries a single user-facing error message
type ErrorItem struct {
	Msg string `json:"msg"`
}

// ErrorsResponse is the error envelope for every non-2xx response
type ErrorsResponse struct {
	Errors []ErrorItem `json:"errors"`
}

// NewErrorsResponse wraps messages in the error envelope
func NewErrorsResponse(msgs ...string) ErrorsResponse {
	items := make([]ErrorItem, 0, len(msgs))
	for _, msg := range msgs {
		items = append(items, ErrorItem{Msg: msg})
	}
	return ErrorsResponse{Errors: items}
}
