package cmd

import (
	"io"
	"net/http"
	"os"

	"github.com/fair-research/concierge-cli/config"
	"github.com/fair-research/concierge-cli/constants"
	"github.com/fair-research/concierge-cli/lib/auth"
	"github.com/fair-research/concierge-cli/lib/concierge"
	"github.com/fair-research/concierge-cli/lib/system"
	"github.com/fair-research/concierge-cli/lib/tokens"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

// Swapped out by tests.
var (
	stdin           io.Reader = os.Stdin
	openBrowser               = system.OpenBrowser
	isRemoteSession           = system.IsRemoteSession
	httpClient      *http.Client
)

func tokenStore() *tokens.Store {
	return tokens.NewStore(config.I.Auth.TokenFile)
}

func oauthConfig() oauth2.Config {
	return auth.NewOAuthConfig(config.I.Auth.ClientID, config.I.Auth.Domain, config.I.Auth.RedirectURI, config.I.Scopes())
}

// Build a Concierge client authenticated with the saved Concierge token.
func conciergeClient(c *cli.Context) (*concierge.Client, error) {
	session := &auth.Session{Store: tokenStore(), OAuth: oauthConfig()}
	token, err := session.AccessToken(c.Context, constants.ConciergeResourceServer)
	if err != nil {
		return nil, err
	}

	opts := []concierge.Option{
		concierge.WithServer(config.I.ServerURL(c.String("server"))),
		concierge.WithToken(token),
		concierge.WithUserAgent("cbag/" + Version),
	}
	if httpClient != nil {
		opts = append(opts, concierge.WithHTTPClient(httpClient))
	}
	return concierge.New(opts...)
}
