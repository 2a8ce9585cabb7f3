package cli

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/devtools"
	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/tool"
)

var examples = []string{
	"devtools file-analyzer --top 5 ./src",
	"devtools hash-generate --md5 archive.zip",
	"devtools text-processor --find TODO --context 2 .",
	"devtools json-validator --pretty config.json",
	"devtools <tool-name> --help",
}

// writeUsage prints the global usage followed by the tool table.
func (a *App) writeUsage(tools []tool.Tool) {
	w := a.stdout
	fmt.Fprintf(w, "%s %s\n\n", devtools.Name, Version)
	fmt.Fprintln(w, "Usage: "+a.root.Use)
	fmt.Fprintf(w, "\nGlobal options:\n%s", a.root.Flags().FlagUsages())

	if len(tools) > 0 {
		fmt.Fprintln(w, "\nAvailable tools:")
		writeToolRows(w, tools)
	}

	fmt.Fprintln(w, "\nExamples:")
	for _, ex := range examples {
		fmt.Fprintf(w, "  %s\n", ex)
	}
}

// writeTools prints the --list-tools listing. Verbose listings add version
// and author lines and summarise registration problems on stderr.
func (a *App) writeTools(s *session) {
	tools := s.Tools()
	if !s.cfg.Verbose {
		fmt.Fprintln(a.stdout, "Available tools:")
		writeToolRows(a.stdout, tools)
		return
	}

	fmt.Fprintln(a.stdout, "Available tools:")
	for _, t := range tools {
		fmt.Fprintf(a.stdout, "  %-20s %s\n", t.Name(), t.Description())
		fmt.Fprintf(a.stdout, "  %-20s version %s, by %s\n", "", t.Version(), t.Author())
	}

	for _, f := range s.report.Failed {
		fmt.Fprintf(a.stderr, "skipped %q from %s: %s\n", f.Name, f.Source, failure.Diagnostic(f.Err))
	}
	for _, f := range s.report.LoaderFailures {
		fmt.Fprintf(a.stderr, "loader %s: %s\n", f.Loader, failure.Diagnostic(f.Err))
	}
}

func writeToolRows(w io.Writer, tools []tool.Tool) {
	for _, t := range tools {
		fmt.Fprintf(w, "  %-20s %s\n", t.Name(), t.Description())
	}
}
