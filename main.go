package main

import (
	"os"

	"github.com/fair-research/concierge-cli/cmd"
)

func main() {
	err := cmd.NewApp().Run(os.Args)
	if code := cmd.ExitCode(err, os.Stderr); code != cmd.ExitOK {
		os.Exit(code)
	}
}
