package toolkit_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

// tree writes files (slash-separated relative paths) under a new temp dir.
func tree(t *testing.T, files map[string]string) string {
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

func collect(t *testing.T, w toolkit.Walker, roots ...string) []string {
	t.Helper()
	var got []string
	err := w.Walk(context.Background(), roots, func(_, rel string, _ fs.FileInfo) error {
		got = append(got, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	return got
}

func TestWalker(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		".gitignore":     "# build output\n*.log\nbuild/\n!keep.log\n",
		".env":           "SECRET=1\n",
		"main.go":        "package main\n",
		"debug.log":      "noise\n",
		"keep.log":       "kept\n",
		"build/out.bin":  "bin",
		"pkg/util.go":    "package pkg\n",
		".hidden/x.txt":  "x",
		".git/HEAD":      "ref: refs/heads/main\n",
		"pkg/deep/z.txt": "z",
	})

	tests := []struct {
		name   string
		walker toolkit.Walker
		want   []string
	}{
		{
			name:   "defaults honour gitignore and skip hidden",
			walker: toolkit.Walker{GitIgnore: true, Recursive: true},
			want:   []string{"keep.log", "main.go", "pkg/deep/z.txt", "pkg/util.go"},
		},
		{
			name:   "hidden entries",
			walker: toolkit.Walker{Hidden: true, GitIgnore: true, Recursive: true},
			want:   []string{".env", ".gitignore", ".hidden/x.txt", "keep.log", "main.go", "pkg/deep/z.txt", "pkg/util.go"},
		},
		{
			name:   "gitignore disabled",
			walker: toolkit.Walker{Recursive: true},
			want:   []string{"build/out.bin", "debug.log", "keep.log", "main.go", "pkg/deep/z.txt", "pkg/util.go"},
		},
		{
			name:   "not recursive",
			walker: toolkit.Walker{GitIgnore: true},
			want:   []string{"keep.log", "main.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, collect(t, tt.walker, root)); diff != "" {
				t.Errorf("visited files mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalker_FileOperands(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{"a.txt": "a", ".b.txt": "b"})
	got := collect(t, toolkit.Walker{}, filepath.Join(root, ".b.txt"), filepath.Join(root, "a.txt"))

	if diff := cmp.Diff([]string{".b.txt", "a.txt"}, got); diff != "" {
		t.Errorf("visited files mismatch (-want +got):\n%s", diff)
	}
}

func TestWalker_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing operand", func(t *testing.T) {
		t.Parallel()

		err := toolkit.Walker{}.Walk(context.Background(), []string{filepath.Join(t.TempDir(), "nope")},
			func(string, string, fs.FileInfo) error { return nil })
		if !errors.Is(err, failure.KindNotFound) {
			t.Errorf("Walk() error = %v, want not found", err)
		}
	})

	t.Run("callback error stops the walk", func(t *testing.T) {
		t.Parallel()

		root := tree(t, map[string]string{"a": "1", "b": "2"})
		stop := errors.New("stop")
		calls := 0
		err := toolkit.Walker{Recursive: true}.Walk(context.Background(), []string{root},
			func(string, string, fs.FileInfo) error {
				calls++
				return stop
			})
		if !errors.Is(err, stop) || calls != 1 {
			t.Errorf("Walk() = %v after %d calls", err, calls)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		root := tree(t, map[string]string{"a": "1"})
		err := toolkit.Walker{Recursive: true}.Walk(ctx, []string{root},
			func(string, string, fs.FileInfo) error { return nil })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Walk() error = %v, want context.Canceled", err)
		}
	})
}

func TestFiles(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{"data.txt": "one\ntwo"})

	data, err := toolkit.ReadInput(filepath.Join(root, "data.txt"), nil)
	if err != nil || string(data) != "one\ntwo" {
		t.Fatalf("ReadInput(file) = %q, %v", data, err)
	}

	data, err = toolkit.ReadInput(toolkit.StdinName, strings.NewReader("piped"))
	if err != nil || string(data) != "piped" {
		t.Fatalf("ReadInput(-) = %q, %v", data, err)
	}

	if _, err := toolkit.ReadFile(filepath.Join(root, "missing")); !errors.Is(err, failure.KindNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want not found", err)
	}

	if _, err := toolkit.OpenFile(root); !errors.Is(err, failure.KindInvalidArgument) {
		t.Errorf("OpenFile(dir) error = %v, want invalid argument", err)
	}

	if got := toolkit.CountLines([]byte("one\ntwo")); got != 2 {
		t.Errorf("CountLines() = %d, want 2", got)
	}
	if got := toolkit.CountLines([]byte("one\n")); got != 1 {
		t.Errorf("CountLines() = %d, want 1", got)
	}
	if !toolkit.IsBinary([]byte{'a', 0, 'b'}) || toolkit.IsBinary([]byte("text")) {
		t.Error("IsBinary() misclassified input")
	}
}
