package cmd

import (
	"github.com/fair-research/concierge-cli/config"
	"github.com/fair-research/concierge-cli/constants"
	"github.com/fair-research/concierge-cli/lib/auth"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/lib/system"
	"github.com/urfave/cli/v2"
)

// Log in with Globus.
func LogIn(c *cli.Context) error {
	if c.NArg() > 1 {
		return usagef("login takes at most one provider")
	}
	if provider := c.Args().First(); provider != "" && provider != "globus" {
		return usagef("unknown login provider %q (only \"globus\" is supported)", provider)
	}

	store := tokenStore()
	if !c.Bool("force") && auth.IsLoggedIn(store, constants.ConciergeResourceServer) {
		console.Info("You are already logged in.")
		return nil
	}

	flow := &auth.Flow{
		OAuth: oauthConfig(),
		Store: store,
		Prompt: func() (string, error) {
			return system.PromptLine(stdin, console.Stdout(), "Enter the resulting Authorization Code here: ")
		},
		OpenBrowser:   openBrowser,
		IsRemote:      isRemoteSession,
		Identity:      auth.OIDCIdentity{Issuer: config.I.Auth.Domain},
		Out:           console.Stdout(),
		RefreshTokens: c.Bool("refresh-tokens"),
		NoBrowser:     c.Bool("no-browser"),
	}

	tf, err := flow.Login(c.Context)
	if err != nil {
		return err
	}

	console.Success("You have been logged in.")
	if tf.Name != "" {
		console.Info("Logged in as %s", tf.Name)
	}
	return nil
}
