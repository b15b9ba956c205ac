// File: internal/services/chat/errors.go
package chat

import "fmt"

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeInternal   ErrorType = "INTERNAL"
)

// ChatError carries the failure taxonomy of a chat turn. Failures are
// synchronous and surfaced to the caller; nothing here is retried.
type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	Username  string
	ConvID    uint
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, username string, convID uint, cause error) *ChatError {
	return &ChatError{
		Type:      ErrTypeNotFound,
		Operation: operation,
		Message:   "conversation not found",
		Username:  username,
		ConvID:    convID,
		Cause:     cause,
	}
}

func NewInternalError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeInternal, Operation: operation, Message: msg, Cause: cause}
}
