package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing or non-discoverable listing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateReview signals a second review by the same reviewer for one subject.
	ErrDuplicateReview = errors.New("review already exists")
	// ErrInvalidTransition signals a disallowed moderation status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports malformed request input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid creates a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a store collaborator failure.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err as an UpstreamError unless it already carries a domain meaning.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var ue *UpstreamError
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateReview) || errors.Is(err, ErrInvalidTransition) ||
		errors.As(err, &ve) || errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}
