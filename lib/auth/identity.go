package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/fair-research/concierge-cli/models"
	"golang.org/x/oauth2"
)

// IdentityResolver looks up the user an access token belongs to.
type IdentityResolver interface {
	Resolve(ctx context.Context, accessToken string) (models.UserIdentity, error)
}

// OIDCIdentity resolves identities with the provider's userinfo endpoint,
// found through OIDC discovery on Issuer.
type OIDCIdentity struct {
	Issuer string
}

func (o OIDCIdentity) Resolve(ctx context.Context, accessToken string) (models.UserIdentity, error) {
	provider, err := oidc.NewProvider(ctx, o.Issuer)
	if err != nil {
		return models.UserIdentity{}, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	info, err := provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return models.UserIdentity{}, fmt.Errorf("userinfo request failed: %w", err)
	}

	var claims struct {
		Name string `json:"name"`
	}
	if err := info.Claims(&claims); err != nil {
		return models.UserIdentity{}, fmt.Errorf("failed to parse userinfo: %w", err)
	}

	return models.UserIdentity{
		Name:      claims.Name,
		Email:     info.Email,
		SubjectID: info.Subject,
	}, nil
}
