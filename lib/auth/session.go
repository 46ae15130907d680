package auth

import (
	"context"
	"time"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/lib/tokens"
	"golang.org/x/oauth2"
)

// Session hands out access tokens from the token file, refreshing expired
// ones when a refresh token was saved.
type Session struct {
	Store *tokens.Store
	OAuth oauth2.Config

	now func() time.Time
}

func (s *Session) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Returns a usable access token for the resource server.
func (s *Session) AccessToken(ctx context.Context, resourceServer string) (string, error) {
	tf, err := s.Store.Load()
	if err != nil {
		return "", err
	}

	rec, ok := tf.Token(resourceServer)
	if !ok {
		return "", apierrors.LoginRequired("no token for "+resourceServer, nil)
	}
	if !rec.Expired(s.clock()) {
		return rec.AccessToken, nil
	}
	if rec.RefreshToken == "" {
		return "", apierrors.LoginRequired("token for "+resourceServer+" has expired", nil)
	}

	console.Verbose("Refreshing expired token for %s", resourceServer)
	src := s.OAuth.TokenSource(ctx, &oauth2.Token{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		Expiry:       rec.Expiry(),
	})
	fresh, err := src.Token()
	if err != nil {
		return "", apierrors.LoginRequired("could not refresh token for "+resourceServer, err)
	}

	rec.AccessToken = fresh.AccessToken
	if fresh.RefreshToken != "" {
		rec.RefreshToken = fresh.RefreshToken
	}
	rec.ExpiresAt = 0
	if !fresh.Expiry.IsZero() {
		rec.ExpiresAt = fresh.Expiry.Unix()
	}
	tf.Tokens[resourceServer] = rec

	if err := s.Store.Save(tf); err != nil {
		return "", err
	}
	return rec.AccessToken, nil
}

// Reports whether a token for the resource server is saved and still usable
// or refreshable.
func IsLoggedIn(store *tokens.Store, resourceServer string) bool {
	tf, err := store.Load()
	if err != nil {
		return false
	}
	rec, ok := tf.Token(resourceServer)
	if !ok {
		return false
	}
	return !rec.Expired(time.Now()) || rec.RefreshToken != ""
}
