// File: internal/repository/conversation/interface.go
package conversation

import (
	"context"
	"errors"

	"github.com/krishisevak/go-agronomist/internal/domain"
)

// ErrNotFound is returned when a conversation id does not exist in the given
// user's namespace. Deleting an unknown id reports it too, so callers can
// tell success from a stale reference.
var ErrNotFound = errors.New("conversation not found")

// ErrEmptyMessage is returned when a message text is empty after trimming.
var ErrEmptyMessage = errors.New("message text is empty")

// ConversationStore owns all conversation and message state. State lives in
// process memory only: it starts empty and is discarded at exit, which is a
// designed property of this service, not a gap.
//
// Mutations on one user's conversations are serialized against each other;
// operations on different users never block one another.
type ConversationStore interface {
	// EnsureUser initializes an empty entry for an identity. Idempotent.
	EnsureUser(ctx context.Context, username string)

	// ListConversations returns a consistent snapshot of the user's
	// conversations in creation order.
	ListConversations(ctx context.Context, username string) []domain.ConversationSummary

	// CreateConversation allocates the next id for the user and appends an
	// empty conversation carrying the placeholder title.
	CreateConversation(ctx context.Context, username string) *domain.Conversation

	// CreateConversationIfNone creates the user's first conversation when
	// they have none, with the check and the create under one lock so two
	// concurrent callers cannot both create one. Reports whether a
	// conversation was created.
	CreateConversationIfNone(ctx context.Context, username string) (*domain.Conversation, bool)

	// GetConversation returns a copy of the conversation, or ErrNotFound.
	GetConversation(ctx context.Context, username string, id uint) (*domain.Conversation, error)

	// DeleteConversation removes the conversation immediately and
	// irreversibly, or reports ErrNotFound.
	DeleteConversation(ctx context.Context, username string, id uint) error

	// AppendMessage appends one message. The first append to a conversation
	// also rewrites the placeholder title, atomically with the append.
	// Returns ErrNotFound or ErrEmptyMessage.
	AppendMessage(ctx context.Context, username string, id uint, role domain.Role, text string) (*domain.Message, error)

	// CountConversations reports how many conversations the user has.
	CountConversations(ctx context.Context, username string) int

	// LatestMessages returns the flattened messages of the most recently
	// created conversation, or an empty slice when the user has none.
	LatestMessages(ctx context.Context, username string) []domain.Message
}
