package text

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

const stdinLabel = "<stdin>"

var jsonUsage = toolkit.Usage{
	Name:        "json-validator",
	Synopsis:    "[--pretty|--compact] [files...]",
	Description: "Validate and pretty-print JSON files",
	Examples: []string{
		"devtools json-validator package.json",
		"curl -s https://example.com/api | devtools json-validator --pretty",
	},
}

// JSONValidator creates the json-validator tool.
func JSONValidator(env pack.Env) tool.Tool {
	env = env.WithDefaults()

	return tool.NewBuilder(jsonUsage.Name).
		WithDescription(jsonUsage.Description).
		WithVersion(toolkit.Version).
		WithAuthor(toolkit.Author).
		WithHelp(jsonUsage.Help(jsonFlags)).
		WithHandler(func(_ context.Context, args []string) error {
			flags := jsonFlags()
			if done, err := toolkit.Parse(flags, args, env.Stdout, jsonUsage); done || err != nil {
				return err
			}

			mode, err := toolkit.OneOf(flags, "", "pretty", "compact")
			if err != nil {
				return err
			}

			inputs := flags.Args()
			if len(inputs) == 0 {
				inputs = []string{toolkit.StdinName}
			}
			return validateAll(env, mode, inputs)
		}).
		MustBuild()
}

func jsonFlags() *pflag.FlagSet {
	flags := toolkit.NewFlagSet(jsonUsage.Name)
	flags.BoolP("pretty", "p", false, "print each document indented by the configured tab size")
	flags.BoolP("compact", "c", false, "print each document with insignificant whitespace removed")
	return flags
}

// validateAll checks every input. A single invalid input is returned as is.
// With several inputs each invalid one is reported on stderr and a summary
// error is returned.
func validateAll(env pack.Env, mode string, inputs []string) error {
	if err := toolkit.StdinOnce(jsonUsage.Name, inputs); err != nil {
		return err
	}

	invalid := 0
	var last error

	for _, in := range inputs {
		data, err := toolkit.ReadInput(in, env.Stdin)
		if err != nil {
			return err
		}

		name := in
		if in == toolkit.StdinName {
			name = stdinLabel
		}

		if err := validateJSON(name, data); err != nil {
			invalid++
			last = err
			if len(inputs) > 1 {
				fmt.Fprintln(env.Stderr, err)
			}
			continue
		}

		if err := writeJSON(env, mode, name, data); err != nil {
			return err
		}
	}

	switch {
	case invalid == 0:
		return nil
	case len(inputs) == 1:
		return last
	default:
		return failure.ParseError("json-validator: %d of %d document(s) invalid", invalid, len(inputs))
	}
}

func writeJSON(env pack.Env, mode, name string, data []byte) error {
	var buf bytes.Buffer
	switch mode {
	case "pretty":
		if err := json.Indent(&buf, data, "", env.Indent()); err != nil {
			return failure.Wrap(err, failure.KindParseError, "%s", name)
		}
	case "compact":
		if err := json.Compact(&buf, data); err != nil {
			return failure.Wrap(err, failure.KindParseError, "%s", name)
		}
	default:
		fmt.Fprintf(env.Stdout, "%s: valid JSON\n", name)
		return nil
	}

	buf.WriteByte('\n')
	if _, err := buf.WriteTo(env.Stdout); err != nil {
		return failure.FromError(err, failure.KindPluginFailure, "json-validator: cannot write output")
	}
	return nil
}

// validateJSON reports the first syntax error in data as name:line:column.
func validateJSON(name string, data []byte) error {
	var v any
	err := json.Unmarshal(data, &v)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return failure.Wrap(err, failure.KindParseError, "%s", name)
	}

	line, col := position(data, syntaxErr.Offset)
	return failure.Wrap(err, failure.KindParseError, "%s:%d:%d", name, line, col)
}

// position converts the byte count consumed before a syntax error into a
// 1-based line and column of the offending byte.
func position(data []byte, consumed int64) (line, col int) {
	idx := max(int(consumed)-1, 0)
	idx = min(idx, len(data))

	before := data[:idx]
	line = bytes.Count(before, []byte{'\n'}) + 1
	col = idx - (bytes.LastIndexByte(before, '\n') + 1) + 1
	return line, col
}
