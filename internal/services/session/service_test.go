// File: internal/services/session/service_test.go
package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishisevak/go-agronomist/internal/repository/conversation"
)

type noopLogger struct{}

func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

func newTestService(t *testing.T, store conversation.ConversationStore) *Service {
	t.Helper()
	svc, err := NewService("farmer", "password123", "test-secret", store, &noopLogger{})
	require.NoError(t, err)
	return svc
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	store := conversation.NewMemoryStore()
	svc := newTestService(t, store)

	token, err := svc.Login(context.Background(), "farmer", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := svc.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "farmer", username)
}

func TestLoginAutoCreatesFirstConversation(t *testing.T) {
	store := conversation.NewMemoryStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Login(ctx, "farmer", "password123")
	require.NoError(t, err)
	require.Equal(t, 1, store.CountConversations(ctx, "farmer"))

	// A second login must not create another one.
	_, err = svc.Login(ctx, "farmer", "password123")
	require.NoError(t, err)
	assert.Equal(t, 1, store.CountConversations(ctx, "farmer"))
}

func TestConcurrentFirstLoginsCreateOneConversation(t *testing.T) {
	store := conversation.NewMemoryStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Login(ctx, "farmer", "password123")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.CountConversations(ctx, "farmer"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := conversation.NewMemoryStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Login(ctx, "farmer", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "stranger", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Failed logins create no conversation state.
	assert.Equal(t, 0, store.CountConversations(ctx, "farmer"))
}

func TestResolveRejectsTamperedToken(t *testing.T) {
	store := conversation.NewMemoryStore()
	svc := newTestService(t, store)

	token, err := svc.Login(context.Background(), "farmer", "password123")
	require.NoError(t, err)

	_, err = svc.Resolve(token + "x")
	assert.Error(t, err)
}

func TestNewServiceValidatesConfiguration(t *testing.T) {
	store := conversation.NewMemoryStore()

	_, err := NewService("", "password123", "secret", store, &noopLogger{})
	assert.Error(t, err)

	_, err = NewService("farmer", "password123", "", store, &noopLogger{})
	assert.Error(t, err)

	_, err = NewService("farmer", "password123", "secret", nil, &noopLogger{})
	assert.Error(t, err)

	// SetPassword enforces a minimum length.
	_, err = NewService("farmer", "short", "secret", store, &noopLogger{})
	assert.Error(t, err)
}
