// Package pack provides plugin loaders that turn configuration into tools.
package pack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/devtools/domain/config"
	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
)

// waitDelay bounds how long a cancelled command may keep its pipes open.
const waitDelay = 2 * time.Second

// CommandPackName is the name of the pack produced by CommandLoader.
const CommandPackName = "commands"

// CommandLoader exposes external executables declared under tools.commands
// as tools.
type CommandLoader struct {
	commands []config.CommandToolConfig
	env      pack.Env
}

var _ pack.Loader = (*CommandLoader)(nil)

// NewCommandLoader creates a loader for the given command declarations.
// Tools inherit env's streams.
func NewCommandLoader(commands []config.CommandToolConfig, env pack.Env) *CommandLoader {
	return &CommandLoader{
		commands: slices.Clone(commands),
		env:      env.WithDefaults(),
	}
}

// Name returns the loader name.
func (l *CommandLoader) Name() string {
	return "command-loader"
}

// Load builds one tool per declaration. Declarations that cannot be built are
// reported in the returned error while the rest are still returned.
func (l *CommandLoader) Load(_ context.Context) ([]*pack.Pack, error) {
	if len(l.commands) == 0 {
		return nil, nil
	}

	b := pack.NewBuilder(CommandPackName).
		WithDescription("External commands declared in configuration")

	var errs []error
	for _, c := range l.commands {
		t, err := l.build(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.AddTool(t)
	}

	p := b.Build()
	if len(errs) > 0 {
		err := failure.Wrap(errors.Join(errs...), failure.KindInvalidArgument, "%d command tool(s) skipped", len(errs))
		if len(p.Tools) == 0 {
			return nil, err
		}
		return []*pack.Pack{p}, err
	}
	return []*pack.Pack{p}, nil
}

func (l *CommandLoader) build(c config.CommandToolConfig) (tool.Tool, error) {
	if strings.TrimSpace(c.Command) == "" {
		return nil, failure.InvalidArgument("command tool %q has no command", c.Name)
	}

	desc := c.Description
	if desc == "" {
		desc = "Run " + c.Command
	}

	return tool.NewBuilder(c.Name).
		WithDescription(desc).
		WithVersion(c.Version).
		WithAuthor(c.Author).
		WithHelp(func(w io.Writer) {
			fmt.Fprintf(w, "%s - %s\n\n", c.Name, desc)
			fmt.Fprintf(w, "Usage: devtools %s [args...]\n\n", c.Name)
			fmt.Fprintf(w, "Runs: %s\n", strings.Join(append([]string{c.Command}, c.Args...), " "))
		}).
		WithHandler(l.handler(c)).
		Build()
}

func (l *CommandLoader) handler(c config.CommandToolConfig) tool.Handler {
	return func(ctx context.Context, args []string) error {
		argv := append(slices.Clone(c.Args), args...)

		cmd := exec.CommandContext(ctx, c.Command, argv...)
		cmd.Dir = c.Dir
		cmd.WaitDelay = waitDelay
		cmd.Stdin = l.env.Stdin
		cmd.Stdout = l.env.Stdout
		cmd.Stderr = l.env.Stderr
		if len(c.Env) > 0 {
			cmd.Env = append(os.Environ(), environ(c.Env)...)
		}

		return runError(ctx, c, cmd.Run())
	}
}

// environ renders vars as sorted KEY=value pairs.
func environ(vars map[string]string) []string {
	out := make([]string, 0, len(vars))
	for k, v := range vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func runError(ctx context.Context, c config.CommandToolConfig, err error) error {
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return failure.Wrap(ctxErr, failure.KindTimeout, "%s timed out", c.Command)
		}
		return failure.Wrap(ctxErr, failure.KindPluginFailure, "%s was interrupted", c.Command)
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		return failure.Wrap(err, failure.KindPluginFailure, "%s exited with status %d", c.Command, exitErr.ExitCode())
	case errors.Is(err, exec.ErrNotFound):
		return failure.Wrap(err, failure.KindNotFound, "command not found: %s", c.Command)
	case errors.Is(err, fs.ErrPermission):
		return failure.Wrap(err, failure.KindPermissionDenied, "cannot execute %s", c.Command)
	case errors.Is(err, fs.ErrNotExist):
		return failure.Wrap(err, failure.KindNotFound, "cannot start %s", c.Command)
	default:
		return failure.FromError(err, failure.KindPluginFailure, "cannot run %s", c.Command)
	}
}
