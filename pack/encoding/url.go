package encoding

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

var urlUsage = toolkit.Usage{
	Name:        "url-encoder",
	Synopsis:    "[--decode] [--path] [values...]",
	Description: "Encode and decode URLs",
	Examples: []string{
		"devtools url-encoder 'a b&c=d'",
		"devtools url-encoder --decode 'a+b%26c%3Dd'",
		"devtools url-encoder --path 'docs/read me.md'",
	},
}

// URL creates the url-encoder tool.
func URL(env pack.Env) tool.Tool {
	env = env.WithDefaults()

	return tool.NewBuilder(urlUsage.Name).
		WithDescription(urlUsage.Description).
		WithVersion(toolkit.Version).
		WithAuthor(toolkit.Author).
		WithHelp(urlUsage.Help(urlFlags)).
		WithHandler(func(_ context.Context, args []string) error {
			flags := urlFlags()
			if done, err := toolkit.Parse(flags, args, env.Stdout, urlUsage); done || err != nil {
				return err
			}

			decode, _ := flags.GetBool("decode")
			path, _ := flags.GetBool("path")
			convert := urlConverter(decode, path)

			if flags.NArg() > 0 {
				for _, v := range flags.Args() {
					out, err := convert(v)
					if err != nil {
						return err
					}
					fmt.Fprintln(env.Stdout, out)
				}
				return nil
			}

			sc := bufio.NewScanner(env.Stdin)
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for sc.Scan() {
				out, err := convert(strings.TrimSuffix(sc.Text(), "\r"))
				if err != nil {
					return err
				}
				fmt.Fprintln(env.Stdout, out)
			}
			if err := sc.Err(); err != nil {
				return failure.FromError(err, failure.KindPluginFailure, "url-encoder: cannot read standard input")
			}
			return nil
		}).
		MustBuild()
}

func urlFlags() *pflag.FlagSet {
	flags := toolkit.NewFlagSet(urlUsage.Name)
	flags.BoolP("decode", "d", false, "decode instead of encode")
	flags.BoolP("path", "p", false, "use path-segment escaping instead of query escaping")
	return flags
}

func urlConverter(decode, path bool) func(string) (string, error) {
	switch {
	case decode && path:
		return unescape(url.PathUnescape)
	case decode:
		return unescape(url.QueryUnescape)
	case path:
		return func(s string) (string, error) { return url.PathEscape(s), nil }
	default:
		return func(s string) (string, error) { return url.QueryEscape(s), nil }
	}
}

func unescape(fn func(string) (string, error)) func(string) (string, error) {
	return func(s string) (string, error) {
		out, err := fn(s)
		if err != nil {
			return "", failure.Wrap(err, failure.KindParseError, "url-encoder: cannot decode %q", s)
		}
		return out, nil
	}
}
