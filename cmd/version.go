package cmd

import (
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/urfave/cli/v2"
)

// Print the CLI version.
func PrintVersion(c *cli.Context) error {
	console.Print("%s", Version)
	return nil
}
