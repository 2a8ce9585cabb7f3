// Package hash provides the hash-generate tool.
package hash

import (
	"context"
	"crypto/md5"  // #nosec G501 -- checksums only
	"crypto/sha1" // #nosec G505 -- checksums only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	gohash "hash"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

// Algorithm names accepted as flags.
const (
	MD5    = "md5"
	SHA1   = "sha1"
	SHA256 = "sha256"
	SHA512 = "sha512"
)

var algorithms = map[string]func() gohash.Hash{
	MD5:    md5.New,
	SHA1:   sha1.New,
	SHA256: sha256.New,
	SHA512: sha512.New,
}

var usage = toolkit.Usage{
	Name:        "hash-generate",
	Synopsis:    "[--md5|--sha1|--sha256|--sha512] [files...]",
	Description: "Generate file hashes (MD5, SHA1, SHA256, SHA512)",
	Examples: []string{
		"devtools hash-generate go.mod go.sum",
		"echo -n hello | devtools hash-generate --md5",
	},
}

// Generate creates the hash-generate tool.
func Generate(env pack.Env) tool.Tool {
	env = env.WithDefaults()

	return tool.NewBuilder(usage.Name).
		WithDescription(usage.Description).
		WithVersion(toolkit.Version).
		WithAuthor(toolkit.Author).
		WithHelp(usage.Help(flagSet)).
		WithHandler(func(ctx context.Context, args []string) error {
			flags := flagSet()
			if done, err := toolkit.Parse(flags, args, env.Stdout, usage); done || err != nil {
				return err
			}

			algo, err := toolkit.OneOf(flags, SHA256, MD5, SHA1, SHA256, SHA512)
			if err != nil {
				return err
			}

			inputs := flags.Args()
			if len(inputs) == 0 {
				inputs = []string{toolkit.StdinName}
			}

			sums, err := Files(ctx, algo, inputs, env.Stdin)
			if err != nil {
				return err
			}
			for i, sum := range sums {
				fmt.Fprintf(env.Stdout, "%s  %s\n", sum, inputs[i])
			}
			return nil
		}).
		MustBuild()
}

func flagSet() *pflag.FlagSet {
	flags := toolkit.NewFlagSet(usage.Name)
	flags.Bool(MD5, false, "use MD5")
	flags.Bool(SHA1, false, "use SHA-1")
	flags.Bool(SHA256, false, "use SHA-256 (default)")
	flags.Bool(SHA512, false, "use SHA-512")
	return flags
}

// Files hashes every input concurrently and returns the hex digests in input
// order. The input "-" reads stdin and may appear at most once.
func Files(ctx context.Context, algo string, inputs []string, stdin io.Reader) ([]string, error) {
	newHash, ok := algorithms[strings.ToLower(algo)]
	if !ok {
		return nil, failure.InvalidArgument("hash-generate: unsupported algorithm %q", algo)
	}

	if err := toolkit.StdinOnce(usage.Name, inputs); err != nil {
		return nil, err
	}

	sums := make([]string, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return failure.FromError(err, failure.KindPluginFailure, "hash-generate: interrupted")
			}

			sum, err := hashInput(in, stdin, newHash())
			if err != nil {
				return err
			}
			sums[i] = sum
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sums, nil
}

func hashInput(in string, stdin io.Reader, h gohash.Hash) (string, error) {
	r := stdin
	if in != toolkit.StdinName {
		f, err := toolkit.OpenFile(in)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	if _, err := io.Copy(h, r); err != nil {
		return "", failure.FromError(err, failure.KindPluginFailure, "cannot read %s", in)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
