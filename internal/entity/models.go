package entity

import "time"

// User is the authenticated caller identity resolved from the session.
// The ID is the auth provider's opaque user id; this service never mints it.
type User struct {
	ID string `json:"id"`
}

// File is the metadata row for an uploaded PDF. The vector namespace that
// holds the file's embedded passages is keyed by the file ID.
type File struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one conversation turn on a file. Messages are append-only:
// the core never updates or deletes them.
type Message struct {
	ID            string    `json:"id"`
	FileID        string    `json:"file_id"`
	UserID        string    `json:"user_id"`
	Text          string    `json:"text"`
	IsUserMessage bool      `json:"is_user_message"`
	CreatedAt     time.Time `json:"created_at"`
}

// Passage is a retrieved chunk of a file's content from the vector store.
type Passage struct {
	PageContent string `json:"page_content"`
	Source      string `json:"source"`
}
