package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Kind is the machine-readable error category surfaced to API clients.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidQuantity   Kind = "invalid_quantity"
	KindInsufficientStock Kind = "insufficient_stock"
	KindValidation        Kind = "validation_error"
	KindTransient         Kind = "transient"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func notFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func invalidQuantity(msg string) *Error { return &Error{Kind: KindInvalidQuantity, Message: msg} }

func insufficientStock(msg string) *Error { return &Error{Kind: KindInsufficientStock, Message: msg} }

func validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// AsError unwraps a service error, if err carries one.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

const txRetries = 3

// withRetry re-runs fn on storage contention: duplicate keys from racing
// get-or-create inserts, lock conflicts, serialization failures. Anything
// else surfaces immediately.
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < txRetries; attempt++ {
		if err = fn(); err == nil || !isRetryable(err) {
			return err
		}
	}
	return &Error{Kind: KindTransient, Message: "storage contention, please retry: " + err.Error()}
}

func isRetryable(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
