package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/upt-tools/upt/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		if !errors.Is(err, cli.ErrErrorsLogged) {
			fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render(err.Error()))
		}
		os.Exit(1)
	}
}
