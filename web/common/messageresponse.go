package common

// MessageResponse is the punch submission envelope: a display message
// plus the affected records (the new punch first, then any auto-closed
// one).
type MessageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func NewMessageResponse(message string, data interface{}) *MessageResponse {
	return &MessageResponse{
		Message: message,
		Data:    data,
	}
}
