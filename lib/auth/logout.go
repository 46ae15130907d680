package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/lib/tokens"
	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// TokenRevoker invalidates a token at the identity provider.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string) error
}

// Revoker calls the Globus Auth revocation endpoint.
type Revoker struct {
	URL      string
	ClientID string

	client *resty.Client
}

func NewRevoker(url, clientID string) *Revoker {
	return &Revoker{URL: url, ClientID: clientID, client: resty.New()}
}

func (r *Revoker) Revoke(ctx context.Context, token string) error {
	res, err := r.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"token":     token,
			"client_id": r.ClientID,
		}).
		Post(r.URL)
	if err != nil {
		return &apierrors.TransportError{URL: r.URL, Err: err}
	}
	if res.IsError() {
		return fmt.Errorf("token revocation failed: %s", res.Status())
	}
	return nil
}

// Revoke all saved tokens and remove the token file. Returns false when no
// one was logged in.
func Logout(ctx context.Context, store *tokens.Store, revoker TokenRevoker) (bool, error) {
	tf, err := store.Load()
	if err != nil {
		if errors.Is(err, apierrors.ErrLoginRequired) {
			// Clear out an unreadable file, if any.
			_, _ = store.Delete()
			return false, nil
		}
		return false, err
	}

	servers := lo.Keys(tf.Tokens)
	slices.Sort(servers)
	for _, rs := range servers {
		rec := tf.Tokens[rs]
		for _, tok := range nonEmpty(rec.AccessToken, rec.RefreshToken) {
			if err := revoker.Revoke(ctx, tok); err != nil {
				console.Warning("Could not revoke token for %s: %s", rs, err)
			}
		}
	}

	if _, err := store.Delete(); err != nil {
		return false, err
	}
	return true, nil
}

func nonEmpty(values ...string) []string {
	return lo.Filter(values, func(v string, _ int) bool {
		return v != ""
	})
}
