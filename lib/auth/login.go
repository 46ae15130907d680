package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fair-research/concierge-cli/constants"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/lib/tokens"
	"github.com/fair-research/concierge-cli/models"
	"github.com/grokify/go-pkce"
	"github.com/lucsky/cuid"
	"golang.org/x/oauth2"
)

var ErrNoAuthCode = errors.New("no authorization code entered")

// Flow drives the native app authorization code login.
type Flow struct {
	OAuth oauth2.Config
	Store *tokens.Store
	// Blocks until the user enters the authorization code.
	Prompt      func() (string, error)
	OpenBrowser func(url string) error
	IsRemote    func() bool
	// Optional. Resolves name, email and subject after the exchange.
	Identity IdentityResolver
	Out      io.Writer
	// Ask for refresh tokens so the login outlives the access tokens.
	RefreshTokens bool
	NoBrowser     bool

	now func() time.Time
}

// Build the authorization URL along with the PKCE verifier and state it uses.
func (f *Flow) AuthorizeURL() (authURL, verifier, state string, err error) {
	verifier, err = pkce.NewCodeVerifierWithLength(32)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate code verifier: %w", err)
	}
	codeChallenge := pkce.CodeChallengeS256(verifier)
	state = cuid.New()

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
	if f.RefreshTokens {
		opts = append(opts, oauth2.AccessTypeOffline)
	}

	return f.OAuth.AuthCodeURL(state, opts...), verifier, state, nil
}

// Log in and save the resulting tokens.
func (f *Flow) Login(ctx context.Context) (*models.TokenFile, error) {
	authURL, verifier, _, err := f.AuthorizeURL()
	if err != nil {
		return nil, err
	}

	out := f.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintf(out, "Native App Authorization URL: \n%s\n", authURL)

	if f.shouldOpenBrowser() {
		if err := f.OpenBrowser(authURL); err != nil {
			console.Warning("Could not open a browser: %s", err)
		}
	}

	if f.Prompt == nil {
		return nil, errors.New("no prompt configured for the authorization code")
	}
	code, err := f.Prompt()
	if err != nil {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrNoAuthCode
	}

	tok, err := f.OAuth.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		return nil, err
	}

	tf := &models.TokenFile{Tokens: ByResourceServer(tok, f.clock())}
	console.Log().Debug().Int("resource_servers", len(tf.Tokens)).Msg("exchanged authorization code")

	if f.Identity != nil {
		if authToken, ok := tf.Token(constants.GlobusAuthResourceServer); ok {
			identity, err := f.Identity.Resolve(ctx, authToken.AccessToken)
			if err != nil {
				console.Warning("Could not look up user identity: %s", err)
			} else {
				tf.UserIdentity = identity
			}
		}
	}

	if err := f.Store.Save(tf); err != nil {
		return nil, err
	}

	return tf, nil
}

func (f *Flow) shouldOpenBrowser() bool {
	if f.NoBrowser || f.OpenBrowser == nil {
		return false
	}
	if f.IsRemote != nil && f.IsRemote() {
		return false
	}
	return true
}

func (f *Flow) clock() time.Time {
	if f.now != nil {
		return f.now()
	}
	return time.Now()
}
