package errors

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the service can surface. Controllers map a Kind to exactly one
// HTTP status in utils.ErrorResponse.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindConflict
	KindInvalidArgument
	KindUnauthenticated
	KindForbidden
	KindServiceUnavailable
	KindInternalAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindConflict:
		return "conflict"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindInternalAuthorization:
		return "internal_authorization"
	default:
		return "internal"
	}
}

// Error is a kinded error. Message is safe to show to the caller, Err is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any other *Error of the same kind, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newKind(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...interface{}) error {
	return newKind(KindNotFound, format, args...)
}

func NewInvalidState(format string, args ...interface{}) error {
	return newKind(KindInvalidState, format, args...)
}

func NewConflict(format string, args ...interface{}) error {
	return newKind(KindConflict, format, args...)
}

func NewInvalidArgument(format string, args ...interface{}) error {
	return newKind(KindInvalidArgument, format, args...)
}

// Wrap attaches a cause to a kinded error without changing its message.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	// Rule engine
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "record not found"}
	ErrInvalidState    = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrConflict        = &Error{Kind: KindConflict, Message: "record already exists"}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}

	// Authorization gateway
	ErrUnauthenticated       = &Error{Kind: KindUnauthenticated, Message: "Not authenticated"}
	ErrForbidden             = &Error{Kind: KindForbidden, Message: "Access forbidden - insufficient permissions"}
	ErrServiceUnavailable    = &Error{Kind: KindServiceUnavailable, Message: "Authentication service unavailable"}
	ErrInternalAuthorization = &Error{Kind: KindInternalAuthorization, Message: "Internal authorization error"}

	ErrEmptyAuthHeader   = &Error{Kind: KindUnauthenticated, Message: "Authorization header is missing"}
	ErrInvalidAuthHeader = &Error{Kind: KindUnauthenticated, Message: "Invalid authorization header format"}
	ErrIdentityNotFound  = &Error{Kind: KindUnauthenticated, Message: "identity not found in request context"}

	ErrInternalServer = &Error{Kind: KindInternal, Message: "Internal server error"}
)
