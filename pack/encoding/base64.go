// Package encoding provides Base64 and URL encoding tools.
package encoding

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

var base64Usage = toolkit.Usage{
	Name:        "base64-encoder",
	Synopsis:    "[--decode] [--url] [--raw] [--text STRING | files...]",
	Description: "Encode and decode Base64 data",
	Examples: []string{
		"devtools base64-encoder --text 'hello world'",
		"devtools base64-encoder --decode --url token.txt",
		"cat image.png | devtools base64-encoder --raw",
	},
}

// Base64 creates the base64-encoder tool.
func Base64(env pack.Env) tool.Tool {
	env = env.WithDefaults()

	return tool.NewBuilder(base64Usage.Name).
		WithDescription(base64Usage.Description).
		WithVersion(toolkit.Version).
		WithAuthor(toolkit.Author).
		WithHelp(base64Usage.Help(base64Flags)).
		WithHandler(func(_ context.Context, args []string) error {
			flags := base64Flags()
			if done, err := toolkit.Parse(flags, args, env.Stdout, base64Usage); done || err != nil {
				return err
			}

			decode, _ := flags.GetBool("decode")
			enc := base64Encoding(flags)

			inputs, err := base64Inputs(env, flags)
			if err != nil {
				return err
			}

			for _, in := range inputs {
				if decode {
					out, err := decodeBase64(enc, in.data)
					if err != nil {
						return failure.Wrap(err, failure.KindParseError, "base64-encoder: invalid input in %s", in.name)
					}
					if _, err := env.Stdout.Write(out); err != nil {
						return failure.FromError(err, failure.KindPluginFailure, "base64-encoder: cannot write output")
					}
					continue
				}
				fmt.Fprintln(env.Stdout, enc.EncodeToString(in.data))
			}
			return nil
		}).
		MustBuild()
}

func base64Flags() *pflag.FlagSet {
	flags := toolkit.NewFlagSet(base64Usage.Name)
	flags.BoolP("decode", "d", false, "decode instead of encode")
	flags.BoolP("url", "u", false, "use the URL-safe alphabet")
	flags.BoolP("raw", "r", false, "omit padding characters")
	flags.StringP("text", "t", "", "encode or decode this string instead of files")
	return flags
}

func base64Encoding(flags *pflag.FlagSet) *base64.Encoding {
	url, _ := flags.GetBool("url")
	raw, _ := flags.GetBool("raw")

	switch {
	case url && raw:
		return base64.RawURLEncoding
	case url:
		return base64.URLEncoding
	case raw:
		return base64.RawStdEncoding
	default:
		return base64.StdEncoding
	}
}

// namedInput is one chunk of tool input.
type namedInput struct {
	name string
	data []byte
}

func base64Inputs(env pack.Env, flags *pflag.FlagSet) ([]namedInput, error) {
	if flags.Changed("text") {
		if flags.NArg() > 0 {
			return nil, failure.InvalidArgument("base64-encoder: --text cannot be combined with files")
		}
		text, _ := flags.GetString("text")
		return []namedInput{{name: "--text", data: []byte(text)}}, nil
	}

	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{toolkit.StdinName}
	}
	if err := toolkit.StdinOnce(base64Usage.Name, paths); err != nil {
		return nil, err
	}

	inputs := make([]namedInput, 0, len(paths))
	for _, p := range paths {
		data, err := toolkit.ReadInput(p, env.Stdin)
		if err != nil {
			return nil, err
		}
		name := p
		if p == toolkit.StdinName {
			name = "standard input"
		}
		inputs = append(inputs, namedInput{name: name, data: data})
	}
	return inputs, nil
}

// decodeBase64 decodes data, ignoring line breaks and surrounding whitespace.
func decodeBase64(enc *base64.Encoding, data []byte) ([]byte, error) {
	clean := bytes.Join(bytes.Fields(data), nil)
	out := make([]byte, enc.DecodedLen(len(clean)))
	n, err := enc.Decode(out, clean)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
