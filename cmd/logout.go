package cmd

import (
	"github.com/fair-research/concierge-cli/config"
	"github.com/fair-research/concierge-cli/lib/auth"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/urfave/cli/v2"
)

// Log out, revoking all saved tokens.
func LogOut(c *cli.Context) error {
	revoker := auth.NewRevoker(auth.RevokeURL(config.I.Auth.Domain), config.I.Auth.ClientID)
	loggedOut, err := auth.Logout(c.Context, tokenStore(), revoker)
	if err != nil {
		return err
	}

	if loggedOut {
		console.Success("You have been logged out.")
	} else {
		console.Print("No user logged in, no logout necessary.")
	}
	return nil
}
