// Package toolkit holds the argument parsing, file access and output helpers
// shared by the built-in tools.
package toolkit

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/devtools"
	"github.com/felixgeelhaar/devtools/domain/failure"
)

// Version and Author are stamped on every built-in tool.
const (
	Version = devtools.Version
	Author  = devtools.Author
)

// Usage describes how a tool is invoked.
type Usage struct {
	// Name is the tool name.
	Name string

	// Synopsis follows the tool name on the usage line.
	Synopsis string

	// Description is the one-line tool summary.
	Description string

	// Examples are full command lines shown after the options.
	Examples []string
}

// Write prints the usage text, including every flag registered on fs.
func (u Usage) Write(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "%s - %s\n\n", u.Name, u.Description)
	fmt.Fprintf(w, "Usage: devtools %s %s\n", u.Name, u.Synopsis)

	if fs != nil && fs.HasFlags() {
		fmt.Fprintf(w, "\nOptions:\n%s", fs.FlagUsages())
	}

	if len(u.Examples) > 0 {
		fmt.Fprintln(w, "\nExamples:")
		for _, e := range u.Examples {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}

// Help returns a help printer that renders u with the flags from newFlags.
func (u Usage) Help(newFlags func() *pflag.FlagSet) func(io.Writer) {
	return func(w io.Writer) {
		u.Write(w, newFlags())
	}
}

// NewFlagSet returns a flag set that reports errors instead of exiting and
// lists flags in declaration order.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.BoolP("help", "h", false, "show this help")
	return fs
}

// Parse parses args into fs. When -h or --help is present it prints the
// usage to w and reports done. Flag errors are InvalidArgument.
func Parse(fs *pflag.FlagSet, args []string, w io.Writer, u Usage) (done bool, err error) {
	if err := fs.Parse(args); err != nil {
		return false, failure.Wrap(err, failure.KindInvalidArgument, "%s", fs.Name())
	}

	if help, _ := fs.GetBool("help"); help {
		u.Write(w, fs)
		return true, nil
	}
	return false, nil
}

// OneOf returns the single name whose flag is set, def if none is, or an
// InvalidArgument error if more than one is.
func OneOf(fs *pflag.FlagSet, def string, names ...string) (string, error) {
	var set []string
	for _, n := range names {
		if v, err := fs.GetBool(n); err == nil && v {
			set = append(set, n)
		}
	}

	switch len(set) {
	case 0:
		return def, nil
	case 1:
		return set[0], nil
	default:
		return "", failure.InvalidArgument("%s: options --%s are mutually exclusive",
			fs.Name(), strings.Join(set, ", --"))
	}
}
