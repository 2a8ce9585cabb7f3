// Package cli provides the devtools command-line front-end.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/devtools"
	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

// Version information set at build time.
var (
	Version   = devtools.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalFlags are the options accepted before the tool name.
type globalFlags struct {
	verbose   bool
	quiet     bool
	version   bool
	listTools bool
	config    string
}

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	flags  globalFlags
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	color  bool
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:           "devtools [global-options] <tool-name> [tool-options...]",
		Short:         devtools.Name,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.run,
	}

	flags := app.root.Flags()
	// Options after the tool name belong to the tool.
	flags.SetInterspersed(false)
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&app.flags.quiet, "quiet", "q", false, "suppress non-error output")
	flags.BoolVar(&app.flags.version, "version", false, "show version information")
	flags.BoolVar(&app.flags.listTools, "list-tools", false, "list available tools")
	flags.StringVar(&app.flags.config, "config", "", "configuration file (default ~/.devtoolsrc)")

	app.root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return failure.Wrap(err, failure.KindInvalidArgument, "%s", err.Error())
	})
	app.root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		app.help(cmd.Context())
	})

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithInput sets the reader tools consume as standard input.
func (a *App) WithInput(stdin io.Reader) *App {
	a.stdin = stdin
	a.root.SetIn(stdin)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// WriteError prints the diagnostic for err on the error stream, styled
// according to the resolved configuration.
func (a *App) WriteError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(a.stderr, FormatError(toolkit.NewStyles(a.stderr, a.color), err))
}

func (a *App) run(cmd *cobra.Command, args []string) error {
	if a.flags.version {
		a.writeVersion()
		return nil
	}

	ctx := cmd.Context()
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(ctx); cerr != nil {
			fmt.Fprintf(a.stderr, "warning: %v\n", cerr)
		}
	}()

	if a.flags.listTools {
		a.writeTools(s)
		return nil
	}

	if len(args) == 0 {
		a.writeUsage(s.Tools())
	}
	_, err = s.dispatcher.Dispatch(ctx, args)
	return err
}

func (a *App) writeVersion() {
	fmt.Fprintf(a.stdout, "%s %s\n", devtools.Name, Version)
	fmt.Fprintf(a.stdout, "  Go runtime: %s\n", runtime.Version())
	fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
}

// help prints the usage with whatever tools the configuration yields. A
// configuration that cannot be loaded still gets the usage text.
func (a *App) help(ctx context.Context) {
	s, err := a.open(ctx)
	if err != nil {
		a.writeUsage(nil)
		a.WriteError(err)
		return
	}
	defer func() { _ = s.Close(ctx) }()

	a.writeUsage(s.Tools())
}

// ExitCode maps the result of Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// FormatError renders err as "error: <kind>: <message>", with the prefix in
// the alert style.
func FormatError(s toolkit.Styles, err error) string {
	return s.Alert.Render("error:") + " " + failure.Diagnostic(err)
}
