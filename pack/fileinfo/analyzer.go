package fileinfo

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

const noExtension = "(none)"

var analyzerUsage = toolkit.Usage{
	Name:        "file-analyzer",
	Synopsis:    "[options] [paths...]",
	Description: "Analyze files and directories for statistics",
	Examples: []string{
		"devtools file-analyzer",
		"devtools file-analyzer --hidden --top 5 src docs",
	},
}

// extCount is the number of files sharing an extension.
type extCount struct {
	Ext   string
	Files int
}

// fileStamp names a file and its modification time.
type fileStamp struct {
	Path    string
	ModTime time.Time
}

// analysis summarises the files under a set of paths.
type analysis struct {
	Files      int
	TotalSize  int64
	TotalLines int
	Extensions []extCount
	Newest     fileStamp
	Oldest     fileStamp
}

// FileAnalyzer creates the file-analyzer tool.
func FileAnalyzer(env pack.Env) tool.Tool {
	env = env.WithDefaults()

	return tool.NewBuilder(analyzerUsage.Name).
		WithDescription(analyzerUsage.Description).
		WithVersion(toolkit.Version).
		WithAuthor(toolkit.Author).
		WithHelp(analyzerUsage.Help(analyzerFlags)).
		WithHandler(func(ctx context.Context, args []string) error {
			flags := analyzerFlags()
			if done, err := toolkit.Parse(flags, args, env.Stdout, analyzerUsage); done || err != nil {
				return err
			}

			top, _ := flags.GetInt("top")
			if top < 0 {
				return failure.InvalidArgument("file-analyzer: --top must not be negative")
			}

			a, err := analyze(ctx, walkerFrom(flags), operands(flags))
			if err != nil {
				return err
			}
			writeAnalysis(env.Stdout, toolkit.NewStyles(env.Stdout, env.Color), a, top)
			return nil
		}).
		MustBuild()
}

func analyzerFlags() *pflag.FlagSet {
	flags := toolkit.NewFlagSet(analyzerUsage.Name)
	walkFlags(flags)
	flags.IntP("top", "t", 10, "number of extensions to list (0 lists all)")
	return flags
}

func analyze(ctx context.Context, w toolkit.Walker, roots []string) (*analysis, error) {
	a := &analysis{}
	exts := make(map[string]int)

	err := w.Walk(ctx, roots, func(path, _ string, info fs.FileInfo) error {
		data, err := toolkit.ReadFile(path)
		if err != nil {
			return err
		}

		a.Files++
		a.TotalSize += info.Size()
		a.TotalLines += toolkit.CountLines(data)

		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			ext = noExtension
		}
		exts[ext]++

		stamp := fileStamp{Path: path, ModTime: info.ModTime()}
		if a.Files == 1 || stamp.ModTime.After(a.Newest.ModTime) {
			a.Newest = stamp
		}
		if a.Files == 1 || stamp.ModTime.Before(a.Oldest.ModTime) {
			a.Oldest = stamp
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for ext, n := range exts {
		a.Extensions = append(a.Extensions, extCount{Ext: ext, Files: n})
	}
	slices.SortFunc(a.Extensions, func(x, y extCount) int {
		if c := cmp.Compare(y.Files, x.Files); c != 0 {
			return c
		}
		return cmp.Compare(x.Ext, y.Ext)
	})
	return a, nil
}

func writeAnalysis(w io.Writer, s toolkit.Styles, a *analysis, top int) {
	if a.Files == 0 {
		fmt.Fprintln(w, "No files found.")
		return
	}

	fmt.Fprintf(w, "Files:        %s\n", humanize.Comma(int64(a.Files)))
	fmt.Fprintf(w, "Total size:   %s (%s bytes)\n", humanize.Bytes(uint64(a.TotalSize)), humanize.Comma(a.TotalSize))
	fmt.Fprintf(w, "Total lines:  %s\n", humanize.Comma(int64(a.TotalLines)))
	fmt.Fprintf(w, "Newest:       %s (%s)\n", a.Newest.Path, humanize.Time(a.Newest.ModTime))
	fmt.Fprintf(w, "Oldest:       %s (%s)\n", a.Oldest.Path, humanize.Time(a.Oldest.ModTime))

	exts := a.Extensions
	if top > 0 && len(exts) > top {
		exts = exts[:top]
	}

	rows := make([][]string, 0, len(exts))
	for _, e := range exts {
		share := float64(e.Files) * 100 / float64(a.Files)
		rows = append(rows, []string{e.Ext, strconv.Itoa(e.Files), fmt.Sprintf("%.1f%%", share)})
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Table([]string{"Extension", "Files", "Share"}, rows, false))
	if len(exts) < len(a.Extensions) {
		fmt.Fprintf(w, "(%d more extension(s) not shown)\n", len(a.Extensions)-len(exts))
	}
}
