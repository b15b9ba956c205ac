// File: internal/services/chat/service.go
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/krishisevak/go-agronomist/internal/domain"
	"github.com/krishisevak/go-agronomist/internal/knowledge"
	"github.com/krishisevak/go-agronomist/internal/repository/conversation"
)

// Service orchestrates chat turns against the conversation store and the
// knowledge base. The knowledge lookup is pure and CPU-only, so a turn
// either completes or fails synchronously.
type Service struct {
	store  conversation.ConversationStore
	kb     *knowledge.Base
	logger Logger
}

func NewService(store conversation.ConversationStore, kb *knowledge.Base, logger Logger) (*Service, error) {
	if store == nil {
		return nil, NewValidationError("constructor", "conversation store is required")
	}
	if kb == nil {
		return nil, NewValidationError("constructor", "knowledge base is required")
	}
	if logger == nil {
		return nil, NewValidationError("constructor", "logger is required")
	}
	return &Service{store: store, kb: kb, logger: logger}, nil
}

// HandleTurn runs one chat turn: append the user's message, compute the
// knowledge answer, append it as the bot's message, return it. If the bot
// append fails the already-recorded user message stays recorded; partial
// turns are not rolled back.
func (s *Service) HandleTurn(ctx context.Context, username string, conversationID uint, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", NewValidationError("HandleTurn", "no query provided")
	}

	if _, err := s.store.AppendMessage(ctx, username, conversationID, domain.RoleUser, query); err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return "", NewNotFoundError("HandleTurn", username, conversationID, err)
		}
		return "", NewInternalError("HandleTurn", "failed to record user message", err)
	}

	answer := s.kb.Answer(query)

	if _, err := s.store.AppendMessage(ctx, username, conversationID, domain.RoleBot, answer); err != nil {
		s.logger.Error("bot message append failed after user message was recorded",
			"username", username, "conversation_id", conversationID, "error", err)
		if errors.Is(err, conversation.ErrNotFound) {
			return "", NewNotFoundError("HandleTurn", username, conversationID, err)
		}
		return "", NewInternalError("HandleTurn", "failed to record bot message", err)
	}

	s.logger.Info("chat turn completed", "username", username, "conversation_id", conversationID)
	return answer, nil
}

// ListConversations returns the user's conversation summaries.
func (s *Service) ListConversations(ctx context.Context, username string) []domain.ConversationSummary {
	return s.store.ListConversations(ctx, username)
}

// CreateConversation starts a new, empty conversation for the user.
func (s *Service) CreateConversation(ctx context.Context, username string) *domain.Conversation {
	return s.store.CreateConversation(ctx, username)
}

// GetConversation returns one conversation with its messages.
func (s *Service) GetConversation(ctx context.Context, username string, conversationID uint) (*domain.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, username, conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return nil, NewNotFoundError("GetConversation", username, conversationID, err)
		}
		return nil, NewInternalError("GetConversation", "failed to load conversation", err)
	}
	return conv, nil
}

// DeleteConversation removes a conversation permanently.
func (s *Service) DeleteConversation(ctx context.Context, username string, conversationID uint) error {
	if err := s.store.DeleteConversation(ctx, username, conversationID); err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return NewNotFoundError("DeleteConversation", username, conversationID, err)
		}
		return NewInternalError("DeleteConversation", "failed to delete conversation", err)
	}
	return nil
}

// History returns the flattened messages of the user's most recently created
// conversation. Kept for compatibility with the legacy endpoint.
func (s *Service) History(ctx context.Context, username string) []domain.Message {
	return s.store.LatestMessages(ctx, username)
}
