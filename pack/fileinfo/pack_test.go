package fileinfo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestToolMetadata(t *testing.T) {
	t.Parallel()

	var names []string
	for _, tl := range []tool.Tool{FileAnalyzer(pack.Env{}), CodeMetrics(pack.Env{})} {
		names = append(names, tl.Name())
		if tl.Version() != toolkit.Version || tl.Author() == "" {
			t.Errorf("%s metadata = %q, %q", tl.Name(), tl.Version(), tl.Author())
		}
	}
	if diff := cmp.Diff([]string{"file-analyzer", "code-metrics"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		".gitignore":   "*.tmp\n",
		"main.go":      "package main\n\nfunc main() {}\n",
		"util.go":      "package main\n",
		"README":       "hello",
		"scratch.tmp":  "ignored\n",
		".hidden/a.go": "package hidden\n",
	})

	old := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(root, "README"), old, old); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(filepath.Join(root, "util.go"), recent, recent); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(filepath.Join(root, "main.go"), old.Add(time.Hour), old.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	a, err := analyze(context.Background(), toolkit.Walker{GitIgnore: true, Recursive: true}, []string{root})
	if err != nil {
		t.Fatalf("analyze() error = %v", err)
	}

	if a.Files != 3 {
		t.Errorf("Files = %d, want 3", a.Files)
	}
	if a.TotalLines != 5 {
		t.Errorf("TotalLines = %d, want 5", a.TotalLines)
	}
	if a.TotalSize != int64(len("package main\n\nfunc main() {}\n")+len("package main\n")+len("hello")) {
		t.Errorf("TotalSize = %d", a.TotalSize)
	}
	wantExt := []extCount{{Ext: ".go", Files: 2}, {Ext: noExtension, Files: 1}}
	if diff := cmp.Diff(wantExt, a.Extensions); diff != "" {
		t.Errorf("Extensions mismatch (-want +got):\n%s", diff)
	}
	if filepath.Base(a.Newest.Path) != "util.go" {
		t.Errorf("Newest = %s", a.Newest.Path)
	}
	if filepath.Base(a.Oldest.Path) != "README" {
		t.Errorf("Oldest = %s", a.Oldest.Path)
	}
}

func TestFileAnalyzer(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a.go":   "package a\n",
		"b.go":   "package b\n",
		"c.md":   "# c\n",
		"d.yaml": "d: 1\n",
	})

	t.Run("report", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		tl := FileAnalyzer(pack.Env{Stdout: &out})
		if err := tl.Execute(context.Background(), []string{root}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		for _, want := range []string{"Files:        4", "Total lines:  4", "Newest:", "Oldest:", ".go", "50.0%", ".yaml"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("top limits the extension table", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		tl := FileAnalyzer(pack.Env{Stdout: &out})
		if err := tl.Execute(context.Background(), []string{"--top", "1", root}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if strings.Contains(out.String(), ".yaml") {
			t.Errorf("--top 1 should hide .yaml:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "(2 more extension(s) not shown)") {
			t.Errorf("missing overflow note:\n%s", out.String())
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		tl := FileAnalyzer(pack.Env{Stdout: &out})
		if err := tl.Execute(context.Background(), []string{t.TempDir()}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if out.String() != "No files found.\n" {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		tl := FileAnalyzer(pack.Env{Stdout: &out})
		if err := tl.Execute(context.Background(), []string{"--help"}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !strings.Contains(out.String(), "--no-gitignore") {
			t.Errorf("help = %q", out.String())
		}
	})

	errTests := []struct {
		name string
		args []string
		kind failure.Kind
	}{
		{"negative top", []string{"--top", "-1", root}, failure.KindInvalidArgument},
		{"bad flag", []string{"--bogus"}, failure.KindInvalidArgument},
		{"missing path", []string{filepath.Join(root, "missing")}, failure.KindNotFound},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := FileAnalyzer(pack.Env{}).Execute(context.Background(), tt.args)
			if !errors.Is(err, tt.kind) {
				t.Errorf("Execute() error = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		ext  string
		want lineCounts
	}{
		{
			name: "go with block comments",
			src:  "package main\n\n// comment\n/* block\nstill */\nx := 1 /* inline */\n/* a */ y := 2\n/* open\n*/ z := 3\n",
			ext:  ".go",
			want: lineCounts{Lines: 9, Code: 4, Comment: 4, Blank: 1},
		},
		{
			name: "code line opening a block",
			src:  "x := 1 /* starts\nstill comment\nends */\n",
			ext:  ".go",
			want: lineCounts{Lines: 3, Code: 1, Comment: 2},
		},
		{
			name: "python",
			src:  "#!/usr/bin/env python\n# comment\nx = 1\n\n",
			ext:  ".py",
			want: lineCounts{Lines: 4, Code: 1, Comment: 2, Blank: 1},
		},
		{
			name: "sql dashes",
			src:  "-- create\nSELECT 1;\n",
			ext:  ".sql",
			want: lineCounts{Lines: 2, Code: 1, Comment: 1},
		},
		{
			name: "lisp semicolons",
			src:  ";; header\n(defun f ())\n",
			ext:  ".lisp",
			want: lineCounts{Lines: 2, Code: 1, Comment: 1},
		},
		{
			name: "no trailing newline",
			src:  "local x = 1",
			ext:  ".lua",
			want: lineCounts{Lines: 1, Code: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := countLines([]byte(tt.src), languages[tt.ext])
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("countLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCodeMetrics(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"main.go":    "package main\n\n// entry\nfunc main() {}\n",
		"lib/x.go":   "package lib\n",
		"tool.py":    "# script\nprint(1)\n",
		"notes.txt":  "not source\n",
		"binary.c":   "int\x00main;\n",
		"ignored.go": "package ignored\n",
		".gitignore": "ignored.go\n",
	})

	counts, err := measure(context.Background(), toolkit.Walker{GitIgnore: true, Recursive: true}, []string{root})
	if err != nil {
		t.Fatalf("measure() error = %v", err)
	}

	want := []lineCounts{
		{Language: "Go", Files: 2, Lines: 5, Code: 3, Comment: 1, Blank: 1},
		{Language: "Python", Files: 1, Lines: 2, Code: 1, Comment: 1},
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("measure() mismatch (-want +got):\n%s", diff)
	}

	var out bytes.Buffer
	if err := CodeMetrics(pack.Env{Stdout: &out}).Execute(context.Background(), []string{root}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"Language", "Go", "Python", "Total"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := CodeMetrics(pack.Env{Stdout: &out}).Execute(context.Background(), []string{t.TempDir()}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.String() != "No source files found.\n" {
		t.Errorf("output = %q", out.String())
	}
}
