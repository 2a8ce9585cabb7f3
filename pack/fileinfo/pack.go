// Package fileinfo provides tools that report statistics about files and
// source trees.
package fileinfo

import (
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

// walkFlags registers the flags shared by tools that walk directories.
func walkFlags(fs *pflag.FlagSet) {
	fs.Bool("hidden", false, "include entries whose name starts with a dot")
	fs.Bool("no-gitignore", false, "do not honour .gitignore")
	fs.BoolP("recursive", "r", true, "descend into subdirectories")
}

func walkerFrom(fs *pflag.FlagSet) toolkit.Walker {
	hidden, _ := fs.GetBool("hidden")
	noIgnore, _ := fs.GetBool("no-gitignore")
	recursive, _ := fs.GetBool("recursive")
	return toolkit.Walker{
		Hidden:    hidden,
		GitIgnore: !noIgnore,
		Recursive: recursive,
	}
}

func operands(fs *pflag.FlagSet) []string {
	if fs.NArg() == 0 {
		return []string{"."}
	}
	return fs.Args()
}
