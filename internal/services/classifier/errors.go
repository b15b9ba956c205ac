// File: internal/services/classifier/errors.go
package classifier

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeDecode     ErrorType = "DECODE"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type ClassifierError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *ClassifierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Classifier %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("Classifier %s error: %s", e.Type, e.Message)
}

func (e *ClassifierError) Unwrap() error { return e.Cause }
