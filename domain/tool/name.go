package tool

import (
	"strings"
	"unicode"

	"github.com/felixgeelhaar/devtools/domain/failure"
)

// MaxNameLength is the longest accepted tool name in bytes.
const MaxNameLength = 63

// ValidateName checks that name can be registered and typed on a command line.
func ValidateName(name string) error {
	switch {
	case name == "":
		return failure.Wrap(ErrEmptyName, failure.KindInvalidArgument, "tool name cannot be empty")
	case len(name) > MaxNameLength:
		return failure.Wrap(ErrNameTooLong, failure.KindInvalidArgument,
			"tool name %q exceeds %d bytes", name, MaxNameLength)
	case strings.HasPrefix(name, "-"):
		return failure.Wrap(ErrInvalidName, failure.KindInvalidArgument,
			"tool name %q must not start with '-'", name)
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return failure.Wrap(ErrInvalidName, failure.KindInvalidArgument,
			"tool name %q must not contain whitespace", name)
	}
	return nil
}
