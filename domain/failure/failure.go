// Package failure provides the error model shared by the registry, the
// dispatcher and every tool.
package failure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
)

// Kind classifies a failure. Kind implements error so that
// errors.Is(err, failure.KindNotFound) matches any wrapped *Error of that kind.
type Kind int

const (
	KindUnknown          Kind = iota // Cause could not be classified
	KindInvalidArgument              // Bad input, unknown tool, duplicate name
	KindNotFound                     // A referenced resource does not exist
	KindPermissionDenied             // Access to a resource was refused
	KindOutOfMemory                  // An allocation could not be satisfied
	KindParseError                   // Input could not be parsed
	KindNetwork                      // A network operation failed
	KindTimeout                      // An operation ran out of time
	KindPluginFailure                // A tool failed without classifying the cause
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	case KindPermissionDenied:
		return "permission denied"
	case KindOutOfMemory:
		return "out of memory"
	case KindParseError:
		return "parse error"
	case KindNetwork:
		return "network error"
	case KindTimeout:
		return "timeout"
	case KindPluginFailure:
		return "plugin failure"
	default:
		return "unknown error"
	}
}

// Error implements the error interface.
func (k Kind) Error() string {
	return k.String()
}

// AllKinds returns every kind, Unknown last.
func AllKinds() []Kind {
	return []Kind{
		KindInvalidArgument,
		KindNotFound,
		KindPermissionDenied,
		KindOutOfMemory,
		KindParseError,
		KindNetwork,
		KindTimeout,
		KindPluginFailure,
		KindUnknown,
	}
}

// Error is a classified failure.
type Error struct {
	// Kind is the failure classification.
	Kind Kind

	// Message describes the failure for the user.
	Message string

	// Tool names the tool the failure originated from, if any.
	Tool string

	// Err is the underlying cause.
	Err error
}

// Error returns the message followed by the cause, if the cause adds anything.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Err != nil {
		cause := e.Err.Error()
		if cause != "" && cause != e.Message {
			if sb.Len() > 0 {
				sb.WriteString(": ")
			}
			sb.WriteString(cause)
		}
	}

	if sb.Len() == 0 {
		return e.Kind.String()
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New creates a classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap classifies err with a formatted message. It returns nil if err is nil.
func Wrap(err error, kind Kind, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithTool attributes err to the named tool. The result keeps err's kind and
// message and wraps err, so errors.Is still matches the original.
func WithTool(err error, name string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindOf(err), Tool: name, Err: err}
}

// InvalidArgument creates a KindInvalidArgument error.
func InvalidArgument(format string, args ...any) *Error {
	return New(KindInvalidArgument, format, args...)
}

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// PermissionDenied creates a KindPermissionDenied error.
func PermissionDenied(format string, args ...any) *Error {
	return New(KindPermissionDenied, format, args...)
}

// ParseError creates a KindParseError error.
func ParseError(format string, args ...any) *Error {
	return New(KindParseError, format, args...)
}

// PluginFailure creates a KindPluginFailure error.
func PluginFailure(format string, args ...any) *Error {
	return New(KindPluginFailure, format, args...)
}

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf returns the kind of the outermost *Error in err's chain.
// Nil and unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}
	return KindUnknown
}

// Classify maps well-known causes onto a kind. Already classified errors keep
// their kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if fe, ok := As(err); ok {
		return fe.Kind
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		numErr    *strconv.NumError
		netErr    net.Error
	)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.As(err, &numErr):
		return KindParseError
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	default:
		return KindUnknown
	}
}

// FromError classifies err with Classify and wraps it with the given message.
// Errors that cannot be classified become fallback.
func FromError(err error, fallback Kind, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	kind := Classify(err)
	if kind == KindUnknown {
		kind = fallback
	}
	return Wrap(err, kind, format, args...)
}

// Diagnostic renders err as the single line shown to the user. Line breaks
// in multi-line causes collapse to single spaces.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return fmt.Sprintf("%s: %s", KindOf(err), msg)
}
