// Package main provides the entry point for the devtools CLI.
package main

import (
	"context"
	"os"

	"github.com/felixgeelhaar/devtools/interfaces/cli"
)

func main() {
	app := cli.New()

	if err := app.Execute(context.Background()); err != nil {
		app.WriteError(err)
		os.Exit(cli.ExitCode(err))
	}
}
