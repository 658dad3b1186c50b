// Package errs defines the error taxonomy shared by the profile store and the
// switch engine.
package errs

import (
	"errors"
	"fmt"
)

// Base error types
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateName    = errors.New("duplicate name")
	ErrCorruptStore     = errors.New("corrupt profile store")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
)

// Kind represents the category of error
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindDuplicateName    Kind = "duplicate_name"
	KindCorruptStore     Kind = "corrupt_store"
	KindPermissionDenied Kind = "permission_denied"
	KindInvalidInput     Kind = "invalid_input"
)

// Error is a structured error for profile operations
type Error struct {
	Kind Kind
	Op   string // Operation that failed (e.g., "switch", "remove")
	Name string // Profile name if applicable
	Path string // File path if applicable
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		if e.Name == "" {
			return fmt.Sprintf("%s: %s not found", e.Op, e.Path)
		}
		return fmt.Sprintf("profile '%s' not found", e.Name)
	case KindDuplicateName:
		return fmt.Sprintf("profile '%s' already exists", e.Name)
	}

	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrDuplicateName:
		return e.Kind == KindDuplicateName
	case ErrCorruptStore:
		return e.Kind == KindCorruptStore
	case ErrPermissionDenied:
		return e.Kind == KindPermissionDenied
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	}

	return errors.Is(e.Err, target)
}

// NotFound reports that name does not resolve to a profile.
func NotFound(op, name string) error {
	return &Error{Kind: KindNotFound, Op: op, Name: name}
}

// MissingArtifact reports that a live file the operation depends on is absent.
func MissingArtifact(op, path string) error {
	return &Error{Kind: KindNotFound, Op: op, Path: path}
}

// Duplicate reports that a profile called name already exists.
func Duplicate(op, name string) error {
	return &Error{Kind: KindDuplicateName, Op: op, Name: name}
}

// Corrupt reports an unparsable or invalid profile store.
func Corrupt(path string, err error) error {
	return &Error{Kind: KindCorruptStore, Op: "parse profile store", Path: path, Err: err}
}

// PermissionDenied reports that path could not be written with restrictive permissions.
func PermissionDenied(path string, err error) error {
	return &Error{Kind: KindPermissionDenied, Op: "restrict permissions on", Path: path, Err: err}
}

// Invalid reports rejected user input.
func Invalid(op string, err error) error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: err}
}

// IsRejection reports whether err is an expected rejection rather than a failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateName) || errors.Is(err, ErrInvalidInput)
}

// IsFatal reports whether err means no business logic can safely continue.
func IsFatal(err error) bool {
	return errors.Is(err, ErrCorruptStore) || errors.Is(err, ErrPermissionDenied)
}
