package models

import "time"

// Roles a stored message can carry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a conversation, ordered by Seq.
type Message struct {
	Seq       int64     `json:"seq"`
	Role      string    `json:"role"` // user or assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
