// File: internal/repository/conversation/memory_store.go
package conversation

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/krishisevak/go-agronomist/internal/domain"
)

// userShard holds one user's conversations plus the lock that serializes
// every mutation of them. Ids are never reused: nextID only grows, even
// after deletions.
type userShard struct {
	mu            sync.RWMutex
	nextID        uint
	conversations []*domain.Conversation
}

// MemoryStore is the in-memory ConversationStore. The outer lock guards only
// the shard table; per-user work runs under the shard lock, so two users
// never contend.
type MemoryStore struct {
	mu     sync.RWMutex
	shards map[string]*userShard
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{shards: make(map[string]*userShard)}
}

// shard returns the user's shard, creating it on first use.
func (s *MemoryStore) shard(username string) *userShard {
	s.mu.RLock()
	shard, ok := s.shards[username]
	s.mu.RUnlock()
	if ok {
		return shard
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if shard, ok = s.shards[username]; ok {
		return shard
	}
	shard = &userShard{nextID: 1}
	s.shards[username] = shard
	log.Printf("[ConversationStore] Initialized store for user %q", username)
	return shard
}

func (s *MemoryStore) EnsureUser(_ context.Context, username string) {
	s.shard(username)
}

func (s *MemoryStore) ListConversations(_ context.Context, username string) []domain.ConversationSummary {
	shard := s.shard(username)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	out := make([]domain.ConversationSummary, 0, len(shard.conversations))
	for _, conv := range shard.conversations {
		out = append(out, domain.ConversationSummary{
			ID:      conv.ID,
			Title:   conv.Title,
			Preview: conv.Preview(),
		})
	}
	return out
}

func (s *MemoryStore) CreateConversation(_ context.Context, username string) *domain.Conversation {
	shard := s.shard(username)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	conv := newConversationLocked(shard)
	log.Printf("[ConversationStore] Conversation %d created for user %q", conv.ID, username)
	return copyConversation(conv)
}

func (s *MemoryStore) CreateConversationIfNone(_ context.Context, username string) (*domain.Conversation, bool) {
	shard := s.shard(username)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if len(shard.conversations) > 0 {
		return nil, false
	}
	conv := newConversationLocked(shard)
	log.Printf("[ConversationStore] Initial conversation %d created for user %q", conv.ID, username)
	return copyConversation(conv), true
}

func (s *MemoryStore) GetConversation(_ context.Context, username string, id uint) (*domain.Conversation, error) {
	shard := s.shard(username)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	conv := findConversation(shard, id)
	if conv == nil {
		return nil, ErrNotFound
	}
	return copyConversation(conv), nil
}

func (s *MemoryStore) DeleteConversation(_ context.Context, username string, id uint) error {
	shard := s.shard(username)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	for i, conv := range shard.conversations {
		if conv.ID == id {
			shard.conversations = append(shard.conversations[:i], shard.conversations[i+1:]...)
			log.Printf("[ConversationStore] Conversation %d deleted for user %q", id, username)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) AppendMessage(_ context.Context, username string, id uint, role domain.Role, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	shard := s.shard(username)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	conv := findConversation(shard, id)
	if conv == nil {
		return nil, ErrNotFound
	}

	msg := domain.Message{Role: role, Text: text, Timestamp: time.Now()}
	conv.Messages = append(conv.Messages, msg)

	// The append and the one-time retitle are a single critical section: a
	// reader never sees a first message alongside the placeholder title.
	if conv.TitleState == domain.TitleUntitled {
		conv.Title = domain.TitleFromMessage(text)
		conv.TitleState = domain.TitleSet
	}
	return &msg, nil
}

func (s *MemoryStore) CountConversations(_ context.Context, username string) int {
	shard := s.shard(username)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	return len(shard.conversations)
}

func (s *MemoryStore) LatestMessages(_ context.Context, username string) []domain.Message {
	shard := s.shard(username)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	if len(shard.conversations) == 0 {
		return []domain.Message{}
	}
	latest := shard.conversations[len(shard.conversations)-1]
	out := make([]domain.Message, len(latest.Messages))
	copy(out, latest.Messages)
	return out
}

// newConversationLocked allocates the next id and appends an empty
// conversation. Caller holds the shard lock.
func newConversationLocked(shard *userShard) *domain.Conversation {
	conv := &domain.Conversation{
		ID:         shard.nextID,
		Title:      domain.DefaultTitle,
		TitleState: domain.TitleUntitled,
		CreatedAt:  time.Now(),
		Messages:   []domain.Message{},
	}
	shard.nextID++
	shard.conversations = append(shard.conversations, conv)
	return conv
}

// findConversation must be called with the shard lock held.
func findConversation(shard *userShard, id uint) *domain.Conversation {
	for _, conv := range shard.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// copyConversation snapshots a conversation so callers never hold a
// reference into the live store.
func copyConversation(conv *domain.Conversation) *domain.Conversation {
	out := *conv
	out.Messages = make([]domain.Message, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	return &out
}
