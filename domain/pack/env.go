package pack

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Env is the I/O environment and user preferences handed to tools at
// construction time.
type Env struct {
	// Stdin is read by tools that accept piped input.
	Stdin io.Reader

	// Stdout receives tool output.
	Stdout io.Writer

	// Stderr receives tool warnings.
	Stderr io.Writer

	// Color enables ANSI styling in tool output.
	Color bool

	// TabSize is the indentation width used when pretty-printing.
	TabSize int

	// Confirm asks before destructive operations.
	Confirm bool
}

// DefaultEnv returns an environment bound to the process stdio.
func DefaultEnv() Env {
	return Env{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		TabSize: 4,
	}
}

// WithDefaults fills unset streams with io.Discard or an empty reader.
func (e Env) WithDefaults() Env {
	if e.Stdin == nil {
		e.Stdin = strings.NewReader("")
	}
	if e.Stdout == nil {
		e.Stdout = io.Discard
	}
	if e.Stderr == nil {
		e.Stderr = io.Discard
	}
	if e.TabSize < 0 {
		e.TabSize = 0
	}
	return e
}

// Indent returns TabSize spaces.
func (e Env) Indent() string {
	return strings.Repeat(" ", e.TabSize)
}

// Ask prints prompt and reports whether the user answered y or yes.
// With Confirm disabled it returns true without prompting.
func (e Env) Ask(prompt string) bool {
	if !e.Confirm {
		return true
	}
	fmt.Fprintf(e.Stdout, "%s [y/N] ", prompt)

	line, err := bufio.NewReader(e.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
