// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Entity kinds used in NotFound errors.
const (
	KindPost         = "post"
	KindReel         = "reel"
	KindComment      = "comment"
	KindRecomment    = "recomment"
	KindUser         = "user"
	KindNotification = "notification"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("not authorized to modify this resource")
	// ErrConflict reports a document that kept changing underneath an
	// optimistic write until the attempts ran out.
	ErrConflict = errors.New("resource was modified concurrently, please retry")
)

// NotFoundError names the level of the addressed entity that does not exist.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string { return e.Kind + " not found" }

func NotFound(kind string) error { return &NotFoundError{Kind: kind} }

// ValidationError reports malformed input on a single field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg == "" {
		return "invalid " + e.Field
	}
	return e.Msg
}

func Invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// StorageError wraps a persistence failure. Its message is logged, never
// returned to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err unless it already belongs to the taxonomy.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is a NotFoundError, optionally of kind.
func IsNotFound(err error, kind ...string) bool {
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return false
	}
	return len(kind) == 0 || nf.Kind == kind[0]
}

// IsDomain reports whether err is one of the client-facing errors above.
func IsDomain(err error) bool {
	var nf *NotFoundError
	var ve *ValidationError
	return errors.As(err, &nf) || errors.As(err, &ve) ||
		errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrConflict)
}
