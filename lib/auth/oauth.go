// Package auth implements the Globus Auth native app login used by the CLI,
// along with token refresh, identity lookup and logout.
package auth

import (
	"strings"
	"time"

	"github.com/fair-research/concierge-cli/constants"
	"github.com/fair-research/concierge-cli/models"
	"golang.org/x/oauth2"
)

// Build the OAuth2 config for a native app registered with Globus Auth.
func NewOAuthConfig(clientID, domain, redirectURI string, scopes []string) oauth2.Config {
	domain = strings.TrimRight(domain, "/")
	return oauth2.Config{
		ClientID: clientID,
		Endpoint: oauth2.Endpoint{
			AuthURL:   domain + "/v2/oauth2/authorize",
			TokenURL:  domain + "/v2/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: redirectURI,
		Scopes:      scopes,
	}
}

// Globus Auth token revocation endpoint.
func RevokeURL(domain string) string {
	return strings.TrimRight(domain, "/") + "/v2/oauth2/token/revoke"
}

// Split a token response into one record per resource server. Globus returns
// the first resource server's token at the top level and the rest in
// "other_tokens".
func ByResourceServer(tok *oauth2.Token, now time.Time) map[string]models.TokenRecord {
	out := map[string]models.TokenRecord{}

	rs, _ := tok.Extra("resource_server").(string)
	if rs == "" {
		rs = constants.GlobusAuthResourceServer
	}
	top := models.TokenRecord{
		ResourceServer: rs,
		AccessToken:    tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		top.ExpiresAt = tok.Expiry.Unix()
	}
	out[rs] = top

	others, _ := tok.Extra("other_tokens").([]any)
	for _, o := range others {
		raw, ok := o.(map[string]any)
		if !ok {
			continue
		}
		rec := models.TokenRecord{}
		rec.ResourceServer, _ = raw["resource_server"].(string)
		rec.AccessToken, _ = raw["access_token"].(string)
		rec.RefreshToken, _ = raw["refresh_token"].(string)
		if secs, ok := raw["expires_in"].(float64); ok && secs > 0 {
			rec.ExpiresAt = now.Add(time.Duration(secs) * time.Second).Unix()
		}
		if rec.ResourceServer == "" || rec.AccessToken == "" {
			continue
		}
		out[rec.ResourceServer] = rec
	}

	return out
}
