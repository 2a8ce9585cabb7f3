package failure_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"testing"

	"github.com/felixgeelhaar/devtools/domain/failure"
)

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind failure.Kind
		want string
	}{
		{failure.KindInvalidArgument, "invalid argument"},
		{failure.KindNotFound, "not found"},
		{failure.KindPermissionDenied, "permission denied"},
		{failure.KindOutOfMemory, "out of memory"},
		{failure.KindParseError, "parse error"},
		{failure.KindNetwork, "network error"},
		{failure.KindTimeout, "timeout"},
		{failure.KindPluginFailure, "plugin failure"},
		{failure.KindUnknown, "unknown error"},
		{failure.Kind(99), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllKinds(t *testing.T) {
	t.Parallel()

	kinds := failure.AllKinds()
	if len(kinds) != 9 {
		t.Fatalf("AllKinds() returned %d kinds, want 9", len(kinds))
	}
	if kinds[len(kinds)-1] != failure.KindUnknown {
		t.Errorf("last kind = %v, want KindUnknown", kinds[len(kinds)-1])
	}
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *failure.Error
		want string
	}{
		{
			name: "message only",
			err:  failure.New(failure.KindNotFound, "missing %s", "file.txt"),
			want: "missing file.txt",
		},
		{
			name: "message with cause",
			err:  failure.Wrap(errors.New("disk on fire"), failure.KindPluginFailure, "tool failed"),
			want: "tool failed: disk on fire",
		},
		{
			name: "cause equal to message is not repeated",
			err:  failure.Wrap(errors.New("boom"), failure.KindUnknown, "boom"),
			want: "boom",
		},
		{
			name: "empty message falls back to cause",
			err:  &failure.Error{Kind: failure.KindTimeout, Err: errors.New("too slow")},
			want: "too slow",
		},
		{
			name: "empty error falls back to kind",
			err:  &failure.Error{Kind: failure.KindTimeout},
			want: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsKind(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := fmt.Errorf("outer: %w", failure.Wrap(sentinel, failure.KindInvalidArgument, "bad"))

	if !errors.Is(err, failure.KindInvalidArgument) {
		t.Error("errors.Is should match the error kind")
	}
	if errors.Is(err, failure.KindNotFound) {
		t.Error("errors.Is should not match a different kind")
	}
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should match the wrapped sentinel")
	}
}

func TestWrap_Nil(t *testing.T) {
	t.Parallel()

	if failure.Wrap(nil, failure.KindNotFound, "x") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if failure.FromError(nil, failure.KindNotFound, "x") != nil {
		t.Error("FromError(nil) should return nil")
	}
}

func TestWithTool(t *testing.T) {
	t.Parallel()

	orig := failure.NotFound("missing")
	wrapped := fmt.Errorf("reading input: %w", orig)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"direct", orig, "missing"},
		{"wrapped", wrapped, "reading input: missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tagged := failure.WithTool(tt.err, "hash-generate")
			if tagged.Tool != "hash-generate" {
				t.Errorf("Tool = %q, want hash-generate", tagged.Tool)
			}
			if tagged.Kind != failure.KindNotFound {
				t.Errorf("Kind = %v, want not found", tagged.Kind)
			}
			if tagged.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", tagged.Error(), tt.want)
			}
			if !errors.Is(tagged, orig) {
				t.Error("the original error should stay in the chain")
			}
		})
	}

	if orig.Tool != "" {
		t.Error("WithTool should not modify the original")
	}
	if failure.WithTool(nil, "x") != nil {
		t.Error("WithTool(nil) should return nil")
	}
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *failure.Error
		want failure.Kind
	}{
		{"invalid argument", failure.InvalidArgument("x"), failure.KindInvalidArgument},
		{"not found", failure.NotFound("x"), failure.KindNotFound},
		{"permission denied", failure.PermissionDenied("x"), failure.KindPermissionDenied},
		{"parse error", failure.ParseError("x"), failure.KindParseError},
		{"plugin failure", failure.PluginFailure("x"), failure.KindPluginFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.err.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if got := failure.KindOf(nil); got != failure.KindUnknown {
		t.Errorf("KindOf(nil) = %v, want KindUnknown", got)
	}
	if got := failure.KindOf(errors.New("plain")); got != failure.KindUnknown {
		t.Errorf("KindOf(plain) = %v, want KindUnknown", got)
	}

	wrapped := fmt.Errorf("context: %w", failure.ParseError("bad json"))
	if got := failure.KindOf(wrapped); got != failure.KindParseError {
		t.Errorf("KindOf(wrapped) = %v, want KindParseError", got)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type refusedErr struct{}

func (refusedErr) Error() string   { return "connection refused" }
func (refusedErr) Timeout() bool   { return false }
func (refusedErr) Temporary() bool { return false }

func TestClassify(t *testing.T) {
	t.Parallel()

	_, statErr := os.Stat("/definitely/not/here")
	var syntaxErr error = &json.SyntaxError{Offset: 3}
	_, numErr := strconv.Atoi("abc")

	tests := []struct {
		name string
		err  error
		want failure.Kind
	}{
		{"nil", nil, failure.KindUnknown},
		{"plain", errors.New("plain"), failure.KindUnknown},
		{"not exist", statErr, failure.KindNotFound},
		{"permission", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, failure.KindPermissionDenied},
		{"deadline", context.DeadlineExceeded, failure.KindTimeout},
		{"json syntax", syntaxErr, failure.KindParseError},
		{"strconv", numErr, failure.KindParseError},
		{"net timeout", timeoutErr{}, failure.KindTimeout},
		{"net refused", refusedErr{}, failure.KindNetwork},
		{"already classified", failure.PluginFailure("x"), failure.KindPluginFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := failure.Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromError(t *testing.T) {
	t.Parallel()

	_, statErr := os.Stat("/definitely/not/here")
	err := failure.FromError(statErr, failure.KindPluginFailure, "cannot read %s", "x")
	if err.Kind != failure.KindNotFound {
		t.Errorf("Kind = %v, want KindNotFound", err.Kind)
	}

	err = failure.FromError(errors.New("odd"), failure.KindPluginFailure, "cannot read")
	if err.Kind != failure.KindPluginFailure {
		t.Errorf("Kind = %v, want fallback KindPluginFailure", err.Kind)
	}
}

func TestDiagnostic(t *testing.T) {
	t.Parallel()

	if got := failure.Diagnostic(nil); got != "" {
		t.Errorf("Diagnostic(nil) = %q, want empty", got)
	}

	got := failure.Diagnostic(failure.InvalidArgument("unknown tool: %s", "nope"))
	want := "invalid argument: unknown tool: nope"
	if got != want {
		t.Errorf("Diagnostic() = %q, want %q", got, want)
	}

	got = failure.Diagnostic(errors.New("plain"))
	if got != "unknown error: plain" {
		t.Errorf("Diagnostic(plain) = %q", got)
	}

	multi := failure.Wrap(errors.New("yaml: unmarshal errors:\n  line 1: bad\n  line 2: worse"), failure.KindParseError, "invalid yaml configuration")
	got = failure.Diagnostic(multi)
	want = "parse error: invalid yaml configuration: yaml: unmarshal errors: line 1: bad line 2: worse"
	if got != want {
		t.Errorf("Diagnostic(multi-line) = %q, want %q", got, want)
	}
}
