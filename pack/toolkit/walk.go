package toolkit

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/felixgeelhaar/devtools/domain/failure"
)

// WalkFunc is called for every regular file the Walker visits. rel is the
// slash-separated path relative to the operand it was found under.
type WalkFunc func(path, rel string, info fs.FileInfo) error

// Walker visits the regular files named by a list of operands.
type Walker struct {
	// Hidden includes entries whose name starts with a dot.
	Hidden bool

	// GitIgnore skips entries matched by the .gitignore at each directory
	// operand's root.
	GitIgnore bool

	// Recursive descends into subdirectories.
	Recursive bool
}

// Walk visits every file under roots in lexical order. Files named directly
// as operands are always visited. The walk stops at the first error from fn
// or when ctx is done.
func (w Walker) Walk(ctx context.Context, roots []string, fn WalkFunc) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return failure.FromError(err, failure.KindPluginFailure, "cannot access %s", root)
		}

		if !info.IsDir() {
			if err := fn(root, filepath.Base(root), info); err != nil {
				return err
			}
			continue
		}

		if err := w.walkDir(ctx, root, fn); err != nil {
			return err
		}
	}
	return nil
}

func (w Walker) walkDir(ctx context.Context, root string, fn WalkFunc) error {
	var matcher gitignore.Matcher
	if w.GitIgnore {
		patterns, err := readIgnore(filepath.Join(root, ".gitignore"))
		if err != nil {
			return err
		}
		if len(patterns) > 0 {
			matcher = gitignore.NewMatcher(patterns)
		}
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return failure.FromError(ctxErr, failure.KindPluginFailure, "walk of %s interrupted", root)
		}
		if err != nil {
			return failure.FromError(err, failure.KindPluginFailure, "cannot access %s", path)
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return failure.FromError(err, failure.KindPluginFailure, "cannot access %s", path)
		}
		rel = filepath.ToSlash(rel)

		if w.skip(d, rel, matcher) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !w.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return failure.FromError(err, failure.KindPluginFailure, "cannot access %s", path)
		}
		return fn(path, rel, info)
	})
}

func (w Walker) skip(d fs.DirEntry, rel string, matcher gitignore.Matcher) bool {
	name := d.Name()
	if d.IsDir() && name == ".git" {
		return true
	}
	if !w.Hidden && strings.HasPrefix(name, ".") {
		return true
	}
	return matcher != nil && matcher.Match(strings.Split(rel, "/"), d.IsDir())
}

// readIgnore parses a .gitignore file. A missing file yields no patterns.
func readIgnore(path string) ([]gitignore.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fileError(err, path)
	}

	var patterns []gitignore.Pattern
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns, nil
}
