// Package apperr defines the error kinds callers branch on. Business rule
// violations and infrastructure failures are both *Error values; the Kind
// tells a client whether to fix its input or retry later.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error. A Kind is itself an error so it can be used as an
// errors.Is target: errors.Is(err, apperr.RoomFull).
type Kind string

const (
	NotFound        Kind = "NOT_FOUND"
	RoomUnavailable Kind = "ROOM_UNAVAILABLE"
	RoomFull        Kind = "ROOM_FULL"
	RoomOccupied    Kind = "ROOM_OCCUPIED"
	InvalidCapacity Kind = "INVALID_CAPACITY"
	DuplicateKey    Kind = "DUPLICATE_KEY"
	Forbidden       Kind = "FORBIDDEN"
	Unavailable     Kind = "UNAVAILABLE"
	InvalidInput    Kind = "INVALID_INPUT"
	BuildingInUse   Kind = "BUILDING_IN_USE"
	Unauthorized    Kind = "UNAUTHORIZED"
)

func (k Kind) Error() string { return string(k) }

// Error is a classified error with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a bare Kind target.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New creates an error of the given kind
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or "" when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}

// NotFoundf is shorthand for the common "<entity> <id> not found" error.
func NotFoundf(entity, id string) *Error {
	return New(NotFound, "%s %s not found", entity, id)
}
