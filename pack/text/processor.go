package text

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

var processorUsage = toolkit.Usage{
	Name:        "text-processor",
	Synopsis:    "--find PATTERN [--replace TEXT] [options] [paths...]",
	Description: "Process and transform text files",
	Examples: []string{
		"devtools text-processor --find TODO --context 2 src",
		"devtools text-processor --find colour --replace color --whole-words --include '**/*.md' docs",
		"devtools text-processor --regex --find 'v(\\d+)' --replace 'version $1' --dry-run notes.txt",
	},
}

// processOptions holds the parsed text-processor flags.
type processOptions struct {
	find       string
	replace    string
	replacing  bool
	ignoreCase bool
	wholeWords bool
	regex      bool
	backup     bool
	dryRun     bool
	include    string
	context    int
}

// lineChange records one rewritten line.
type lineChange struct {
	line   int
	before string
	after  string
}

// fileEdit is the pending rewrite of one file.
type fileEdit struct {
	path     string
	perm     fs.FileMode
	original []byte
	updated  string
	count    int
	changes  []lineChange
}

// Processor creates the text-processor tool.
func Processor(env pack.Env) tool.Tool {
	env = env.WithDefaults()

	return tool.NewBuilder(processorUsage.Name).
		WithDescription(processorUsage.Description).
		WithVersion(toolkit.Version).
		WithAuthor(toolkit.Author).
		WithHelp(processorUsage.Help(processorFlags)).
		WithHandler(func(ctx context.Context, args []string) error {
			flags := processorFlags()
			if done, err := toolkit.Parse(flags, args, env.Stdout, processorUsage); done || err != nil {
				return err
			}

			opts := readProcessOptions(flags)
			re, err := opts.compile()
			if err != nil {
				return err
			}

			if flags.NArg() == 0 {
				return processStdin(env, opts, re)
			}
			return processFiles(ctx, env, opts, re, flags.Args())
		}).
		MustBuild()
}

func processorFlags() *pflag.FlagSet {
	flags := toolkit.NewFlagSet(processorUsage.Name)
	flags.StringP("find", "f", "", "text or pattern to search for")
	flags.StringP("replace", "r", "", "replacement text; enables replace mode")
	flags.BoolP("ignore-case", "i", false, "match case-insensitively")
	flags.BoolP("whole-words", "w", false, "match whole words only")
	flags.BoolP("regex", "E", false, "treat --find as a regular expression")
	flags.Bool("backup", false, "write a .bak copy before rewriting a file")
	flags.String("include", "", "only process files matching this glob (supports **)")
	flags.IntP("context", "C", 0, "lines of context around each match")
	flags.BoolP("dry-run", "n", false, "show replacements without writing")
	return flags
}

func readProcessOptions(flags *pflag.FlagSet) processOptions {
	var o processOptions
	o.find, _ = flags.GetString("find")
	o.replace, _ = flags.GetString("replace")
	o.replacing = flags.Changed("replace")
	o.ignoreCase, _ = flags.GetBool("ignore-case")
	o.wholeWords, _ = flags.GetBool("whole-words")
	o.regex, _ = flags.GetBool("regex")
	o.backup, _ = flags.GetBool("backup")
	o.dryRun, _ = flags.GetBool("dry-run")
	o.include, _ = flags.GetString("include")
	o.context, _ = flags.GetInt("context")
	return o
}

// compile validates the options and builds the search expression.
func (o processOptions) compile() (*regexp.Regexp, error) {
	if o.find == "" {
		return nil, failure.InvalidArgument("text-processor: --find is required")
	}
	if o.context < 0 {
		return nil, failure.InvalidArgument("text-processor: --context must not be negative")
	}
	if o.include != "" && !doublestar.ValidatePattern(o.include) {
		return nil, failure.InvalidArgument("text-processor: invalid --include pattern %q", o.include)
	}

	expr := o.find
	if !o.regex {
		expr = regexp.QuoteMeta(expr)
	}
	if o.wholeWords {
		expr = `\b(?:` + expr + `)\b`
	}
	if o.ignoreCase {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, failure.Wrap(err, failure.KindInvalidArgument, "text-processor: invalid pattern %q", o.find)
	}
	return re, nil
}

func (o processOptions) included(rel string) bool {
	if o.include == "" {
		return true
	}
	name := rel
	if !strings.Contains(o.include, "/") {
		name = path.Base(rel)
	}
	ok, _ := doublestar.Match(o.include, name)
	return ok
}

// rewrite applies re to every line of data and returns the new text, the
// number of replacements and the changed lines.
func (o processOptions) rewrite(re *regexp.Regexp, data string) (string, int, []lineChange) {
	var (
		sb      strings.Builder
		count   int
		changes []lineChange
	)

	for i, line := range strings.SplitAfter(data, "\n") {
		body, nl := strings.CutSuffix(line, "\n")
		n := len(re.FindAllStringIndex(body, -1))
		if n == 0 {
			sb.WriteString(line)
			continue
		}

		var after string
		if o.regex {
			after = re.ReplaceAllString(body, o.replace)
		} else {
			after = re.ReplaceAllLiteralString(body, o.replace)
		}

		count += n
		changes = append(changes, lineChange{line: i + 1, before: body, after: after})
		sb.WriteString(after)
		if nl {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), count, changes
}

func processStdin(env pack.Env, o processOptions, re *regexp.Regexp) error {
	data, err := toolkit.ReadInput(toolkit.StdinName, env.Stdin)
	if err != nil {
		return err
	}

	if !o.replacing {
		n := writeMatches(env.Stdout, "", string(data), re, o.context)
		fmt.Fprintf(env.Stdout, "%d match(es)\n", n)
		return nil
	}

	out, _, _ := o.rewrite(re, string(data))
	if _, err := io.WriteString(env.Stdout, out); err != nil {
		return failure.FromError(err, failure.KindPluginFailure, "text-processor: cannot write output")
	}
	return nil
}

func processFiles(ctx context.Context, env pack.Env, o processOptions, re *regexp.Regexp, roots []string) error {
	var (
		edits   []fileEdit
		matches int
		files   int
	)

	err := toolkit.Walker{Recursive: true}.Walk(ctx, roots, func(p, rel string, info fs.FileInfo) error {
		if !o.included(rel) {
			return nil
		}
		data, err := toolkit.ReadFile(p)
		if err != nil {
			return err
		}
		if toolkit.IsBinary(data) {
			return nil
		}

		if !o.replacing {
			if n := writeMatches(env.Stdout, p, string(data), re, o.context); n > 0 {
				matches += n
				files++
			}
			return nil
		}

		updated, n, changes := o.rewrite(re, string(data))
		if n > 0 {
			edits = append(edits, fileEdit{
				path:     p,
				perm:     info.Mode().Perm(),
				original: data,
				updated:  updated,
				count:    n,
				changes:  changes,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !o.replacing {
		fmt.Fprintf(env.Stdout, "%d match(es) in %d file(s)\n", matches, files)
		return nil
	}
	return applyEdits(env, o, edits)
}

func applyEdits(env pack.Env, o processOptions, edits []fileEdit) error {
	if len(edits) == 0 {
		fmt.Fprintln(env.Stdout, "No matches found.")
		return nil
	}

	total := 0
	for _, e := range edits {
		total += e.count
		fmt.Fprintf(env.Stdout, "%s: %d replacement(s)\n", e.path, e.count)
		if o.dryRun {
			for _, c := range e.changes {
				fmt.Fprintf(env.Stdout, "  %d: - %s\n  %d: + %s\n", c.line, c.before, c.line, c.after)
			}
		}
	}

	if o.dryRun {
		fmt.Fprintf(env.Stdout, "Would apply %d replacement(s) in %d file(s) (dry run)\n", total, len(edits))
		return nil
	}

	if !env.Ask(fmt.Sprintf("Apply %d replacement(s) in %d file(s)?", total, len(edits))) {
		return failure.Wrap(pack.ErrAborted, failure.KindInvalidArgument, "text-processor: replacement declined")
	}

	for _, e := range edits {
		if o.backup {
			if err := toolkit.WriteFile(e.path+".bak", e.original, e.perm); err != nil {
				return err
			}
		}
		if err := toolkit.WriteFile(e.path, []byte(e.updated), e.perm); err != nil {
			return err
		}
	}

	fmt.Fprintf(env.Stdout, "Applied %d replacement(s) in %d file(s)\n", total, len(edits))
	return nil
}

// writeMatches prints matching lines of data in grep style, with context
// lines marked by '-' and non-adjacent groups separated by "--". It returns
// the number of matches.
func writeMatches(w io.Writer, label, data string, re *regexp.Regexp, around int) int {
	lines := strings.Split(strings.TrimSuffix(data, "\n"), "\n")
	hits := make([]bool, len(lines))
	show := make([]bool, len(lines))

	count := 0
	for i, line := range lines {
		n := len(re.FindAllStringIndex(line, -1))
		if n == 0 {
			continue
		}
		count += n
		hits[i] = true
		for j := max(0, i-around); j <= min(len(lines)-1, i+around); j++ {
			show[j] = true
		}
	}

	last := -1
	for i, line := range lines {
		if !show[i] {
			continue
		}
		if around > 0 && last >= 0 && i > last+1 {
			fmt.Fprintln(w, "--")
		}

		sep := "-"
		if hits[i] {
			sep = ":"
		}
		if label != "" {
			fmt.Fprintf(w, "%s%s", label, sep)
		}
		fmt.Fprintf(w, "%d%s%s\n", i+1, sep, line)
		last = i
	}
	return count
}
