// File: internal/services/session/service.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krishisevak/go-agronomist/internal/auth"
	"github.com/krishisevak/go-agronomist/internal/domain"
	"github.com/krishisevak/go-agronomist/internal/repository/conversation"
)

// ErrInvalidCredentials is returned for any failed login. The reason is not
// distinguished to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Logger defines the logging interface used by the session service.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service resolves inbound credentials to a user identity and issues session
// tokens. Accounts are configured at startup; there is no registration flow.
type Service struct {
	users     map[string]*domain.User
	jwtSecret []byte
	store     conversation.ConversationStore
	logger    Logger
}

func NewService(username, password, jwtSecret string, store conversation.ConversationStore, logger Logger) (*Service, error) {
	if username == "" || password == "" {
		return nil, errors.New("session service requires a configured account")
	}
	if jwtSecret == "" {
		return nil, errors.New("session service requires a JWT secret")
	}
	if store == nil {
		return nil, errors.New("session service requires a conversation store")
	}

	user := &domain.User{Username: username}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hashing configured password: %w", err)
	}

	return &Service{
		users:     map[string]*domain.User{username: user},
		jwtSecret: []byte(jwtSecret),
		store:     store,
		logger:    logger,
	}, nil
}

// Login authenticates the credentials and returns a session token. A user
// logging in with zero conversations gets one created automatically, so the
// dashboard never starts without an open chat.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, ok := s.users[username]
	if !ok {
		s.logger.Warn("login failed - unknown user", "username", username)
		return "", ErrInvalidCredentials
	}
	if err := user.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "username", username)
		return "", ErrInvalidCredentials
	}

	s.store.EnsureUser(ctx, username)
	if conv, created := s.store.CreateConversationIfNone(ctx, username); created {
		s.logger.Info("created initial conversation on login",
			"username", username, "conversation_id", conv.ID)
	}

	token, err := auth.GenerateToken(username, s.jwtSecret)
	if err != nil {
		s.logger.Error("token generation failed", "username", username, "error", err)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "username", username)
	return token, nil
}

// Resolve validates a session token and returns the identity it names.
func (s *Service) Resolve(token string) (string, error) {
	return auth.ValidateToken(token, s.jwtSecret)
}
