package requests

// SendMessageRequest carries the text of a user message.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}
