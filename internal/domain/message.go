// File: internal/domain/message.go
package domain

import "time"

// Role identifies the author of a message within a conversation.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is a single entry in a conversation. Messages are append-only;
// slice order is chronological order.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"ts"`
}
