package entity

import "time"

// SendMessageRequest is the body of POST /api/message.
type SendMessageRequest struct {
	FileID  string `json:"fileId"`
	Message string `json:"message"`
}

// SendMessageResponse carries the assistant's answer.
type SendMessageResponse struct {
	Response string `json:"response"`
}

// MessageDTO is the wire shape of a stored message.
type MessageDTO struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	IsUserMessage bool      `json:"isUserMessage"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListMessagesResponse is the body of GET /api/message.
type ListMessagesResponse struct {
	Messages []MessageDTO `json:"messages"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
