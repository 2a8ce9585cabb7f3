package fileinfo

import (
	"bufio"
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

var metricsUsage = toolkit.Usage{
	Name:        "code-metrics",
	Synopsis:    "[options] [paths...]",
	Description: "Calculate code complexity and statistics",
	Examples: []string{
		"devtools code-metrics",
		"devtools code-metrics --no-gitignore src",
	},
}

// syntax describes how a language marks comments.
type syntax struct {
	name  string
	line  []string
	block bool
}

var (
	slashes = []string{"//"}
	hashes  = []string{"#"}
)

var languages = map[string]syntax{
	".c":     {"C", slashes, true},
	".h":     {"C", slashes, true},
	".cc":    {"C++", slashes, true},
	".cpp":   {"C++", slashes, true},
	".hpp":   {"C++", slashes, true},
	".cs":    {"C#", slashes, true},
	".go":    {"Go", slashes, true},
	".java":  {"Java", slashes, true},
	".js":    {"JavaScript", slashes, true},
	".kt":    {"Kotlin", slashes, true},
	".rs":    {"Rust", slashes, true},
	".swift": {"Swift", slashes, true},
	".ts":    {"TypeScript", slashes, true},
	".css":   {"CSS", nil, true},
	".py":    {"Python", hashes, false},
	".rb":    {"Ruby", hashes, false},
	".sh":    {"Shell", hashes, false},
	".pl":    {"Perl", hashes, false},
	".yaml":  {"YAML", hashes, false},
	".yml":   {"YAML", hashes, false},
	".toml":  {"TOML", hashes, false},
	".mk":    {"Makefile", hashes, false},
	".sql":   {"SQL", []string{"--"}, true},
	".lua":   {"Lua", []string{"--"}, false},
	".hs":    {"Haskell", []string{"--"}, false},
	".lisp":  {"Lisp", []string{";"}, false},
	".el":    {"Lisp", []string{";"}, false},
	".clj":   {"Clojure", []string{";"}, false},
	".asm":   {"Assembly", []string{";"}, false},
	".ini":   {"INI", []string{";", "#"}, false},
}

// lineCounts tallies the lines of one language.
type lineCounts struct {
	Language string
	Files    int
	Lines    int
	Code     int
	Comment  int
	Blank    int
}

func (c *lineCounts) add(o lineCounts) {
	c.Files += o.Files
	c.Lines += o.Lines
	c.Code += o.Code
	c.Comment += o.Comment
	c.Blank += o.Blank
}

// CodeMetrics creates the code-metrics tool.
func CodeMetrics(env pack.Env) tool.Tool {
	env = env.WithDefaults()

	return tool.NewBuilder(metricsUsage.Name).
		WithDescription(metricsUsage.Description).
		WithVersion(toolkit.Version).
		WithAuthor(toolkit.Author).
		WithHelp(metricsUsage.Help(metricsFlags)).
		WithHandler(func(ctx context.Context, args []string) error {
			flags := metricsFlags()
			if done, err := toolkit.Parse(flags, args, env.Stdout, metricsUsage); done || err != nil {
				return err
			}

			counts, err := measure(ctx, walkerFrom(flags), operands(flags))
			if err != nil {
				return err
			}
			writeMetrics(env.Stdout, toolkit.NewStyles(env.Stdout, env.Color), counts)
			return nil
		}).
		MustBuild()
}

func metricsFlags() *pflag.FlagSet {
	flags := toolkit.NewFlagSet(metricsUsage.Name)
	walkFlags(flags)
	return flags
}

// measure counts lines per language, largest language first. Files in
// unrecognised languages are skipped.
func measure(ctx context.Context, w toolkit.Walker, roots []string) ([]lineCounts, error) {
	byLang := make(map[string]*lineCounts)

	err := w.Walk(ctx, roots, func(path, _ string, _ fs.FileInfo) error {
		lang, ok := languages[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}

		data, err := toolkit.ReadFile(path)
		if err != nil {
			return err
		}
		if toolkit.IsBinary(data) {
			return nil
		}

		c := countLines(data, lang)
		c.Files = 1
		total, ok := byLang[lang.name]
		if !ok {
			total = &lineCounts{Language: lang.name}
			byLang[lang.name] = total
		}
		total.add(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]lineCounts, 0, len(byLang))
	for _, c := range byLang {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(x, y lineCounts) int {
		if c := cmp.Compare(y.Lines, x.Lines); c != 0 {
			return c
		}
		return cmp.Compare(x.Language, y.Language)
	})
	return out, nil
}

// countLines classifies each line as blank, comment or code. A line holding
// both code and a comment counts as code.
func countLines(data []byte, lang syntax) lineCounts {
	var c lineCounts
	inBlock := false

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		c.Lines++
		line := strings.TrimSpace(sc.Text())

		switch {
		case line == "":
			c.Blank++
		case inBlock:
			inBlock = c.tallyBlock(line, lang)
		case hasPrefix(line, lang.line):
			c.Comment++
		case lang.block && strings.HasPrefix(line, "/*"):
			inBlock = c.tallyBlock(line[2:], lang)
		default:
			c.Code++
			if lang.block {
				inBlock = opensBlock(line)
			}
		}
	}
	return c
}

// closeBlock returns the text after the first "*/" in line.
func closeBlock(line string) (string, bool) {
	i := strings.Index(line, "*/")
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(line[i+2:]), true
}

// opensBlock reports whether a code line leaves a block comment open.
func opensBlock(line string) bool {
	open := false
	for {
		if !open {
			i := strings.Index(line, "/*")
			if i < 0 {
				return false
			}
			line, open = line[i+2:], true
			continue
		}
		i := strings.Index(line, "*/")
		if i < 0 {
			return true
		}
		line, open = line[i+2:], false
	}
}

// tallyBlock counts a line that starts inside a block comment and reports
// whether a block is still open at its end.
func (c *lineCounts) tallyBlock(line string, lang syntax) bool {
	rest, closed := closeBlock(line)
	if !closed {
		c.Comment++
		return true
	}
	if hasCode(rest, lang) {
		c.Code++
	} else {
		c.Comment++
	}
	return opensBlock(rest)
}

func hasCode(rest string, lang syntax) bool {
	if rest == "" || hasPrefix(rest, lang.line) {
		return false
	}
	if strings.HasPrefix(rest, "/*") {
		after, closed := closeBlock(rest[2:])
		return closed && hasCode(after, lang)
	}
	return true
}

func hasPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func writeMetrics(w io.Writer, s toolkit.Styles, counts []lineCounts) {
	if len(counts) == 0 {
		fmt.Fprintln(w, "No source files found.")
		return
	}

	total := lineCounts{Language: "Total"}
	rows := make([][]string, 0, len(counts)+1)
	for _, c := range counts {
		total.add(c)
		rows = append(rows, countRow(c))
	}
	rows = append(rows, countRow(total))

	fmt.Fprintln(w, s.Table([]string{"Language", "Files", "Lines", "Code", "Comment", "Blank"}, rows, true))
}

func countRow(c lineCounts) []string {
	return []string{
		c.Language,
		strconv.Itoa(c.Files),
		strconv.Itoa(c.Lines),
		strconv.Itoa(c.Code),
		strconv.Itoa(c.Comment),
		strconv.Itoa(c.Blank),
	}
}
