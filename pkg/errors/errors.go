package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so that cloned sentinels still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidInput = New("INVALID_INPUT", http.StatusBadRequest, "invalid input")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrStoreFailure = New("STORE_FAILURE", http.StatusBadGateway, "record store failure")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// InvalidInput builds an INVALID_INPUT error with a specific message.
func InvalidInput(message string) *Error {
	return Clone(ErrInvalidInput, message)
}

// StoreFailure wraps a backing store error. The original error stays reachable through Unwrap.
func StoreFailure(err error, message string) *Error {
	return Wrap(err, ErrStoreFailure.Code, ErrStoreFailure.Status, message)
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var batch *PartialBatchFailure
	if errors.As(err, &batch) {
		return New(CodePartialBatchFailure, http.StatusMultiStatus, batch.Error())
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// CodePartialBatchFailure identifies batch operations that completed only in part.
const CodePartialBatchFailure = "PARTIAL_BATCH_FAILURE"

// BatchItemError pairs a batch key with the error it failed with.
type BatchItemError struct {
	Key string `json:"key"`
	Err error  `json:"-"`
}

// String renders the item as "key: message".
func (b BatchItemError) String() string {
	if b.Err == nil {
		return b.Key
	}
	return fmt.Sprintf("%s: %v", b.Key, b.Err)
}

// PartialBatchFailure reports a batch where some keys succeeded and others failed.
type PartialBatchFailure struct {
	Operation string
	Succeeded []string
	Failed    []BatchItemError
}

// Error implements the error interface.
func (p *PartialBatchFailure) Error() string {
	if p == nil {
		return "<nil>"
	}
	parts := make([]string, len(p.Failed))
	for i, f := range p.Failed {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %d succeeded, %d failed [%s]", p.Operation, len(p.Succeeded), len(p.Failed), strings.Join(parts, "; "))
}

// Unwrap exposes every item error to errors.Is / errors.As.
func (p *PartialBatchFailure) Unwrap() []error {
	if p == nil {
		return nil
	}
	errs := make([]error, 0, len(p.Failed))
	for _, f := range p.Failed {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// FailedKeys lists the keys that failed so callers can retry just that subset.
func (p *PartialBatchFailure) FailedKeys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.Failed))
	for i, f := range p.Failed {
		keys[i] = f.Key
	}
	return keys
}
