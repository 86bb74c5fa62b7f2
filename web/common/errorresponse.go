package common

type ErrorResponse struct {
	Message string        `json:"message"`
	Data    []interface{} `json:"data"`
}

// NewErrorResponse carries a human-readable message plus an empty data
// list, which the MDT app expects on every failure.
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
		Data:    []interface{}{},
	}
}
