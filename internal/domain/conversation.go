// File: internal/domain/conversation.go
package domain

import "time"

// DefaultTitle is the placeholder every new conversation starts with. It is
// replaced by the first appended message, tracked explicitly through
// TitleState rather than by comparing against this string.
const DefaultTitle = "New Chat"

const (
	maxTitleLen   = 60
	titleCutLen   = 57
	maxPreviewLen = 120
)

// TitleState tracks whether a conversation still carries the placeholder
// title. The Untitled -> Titled transition happens exactly once.
type TitleState int

const (
	TitleUntitled TitleState = iota
	TitleSet
)

// Conversation is an ordered, titled sequence of messages owned by exactly
// one user. IDs are unique only within the owning user's namespace.
type Conversation struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	TitleState TitleState `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	Messages   []Message  `json:"messages"`
}

// ConversationSummary is the sidebar projection of a conversation.
type ConversationSummary struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Preview string `json:"preview"`
}

// TitleFromMessage derives a conversation title from its first message:
// kept whole up to 60 characters, otherwise cut to 57 plus an ellipsis.
// Limits count characters, not bytes, so multi-byte text is never cut
// mid-rune.
func TitleFromMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTitleLen {
		return text
	}
	return string(runes[:titleCutLen]) + "..."
}

// Preview returns the text of the conversation's first message truncated for
// list views, or the empty string for a conversation with no messages yet.
func (c *Conversation) Preview() string {
	if len(c.Messages) == 0 {
		return ""
	}
	runes := []rune(c.Messages[0].Text)
	if len(runes) > maxPreviewLen {
		return string(runes[:maxPreviewLen])
	}
	return c.Messages[0].Text
}
