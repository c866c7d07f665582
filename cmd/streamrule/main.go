package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/streamrule/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		code := cli.GetExitCode(err)
		// Commands print their own errors; only flag and argument errors
		// from cobra itself reach here unprinted.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			code = cli.ExitCommandError
		}
		os.Exit(code)
	}
}
