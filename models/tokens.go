package models

import "time"

// A single OAuth token issued for one resource server.
type TokenRecord struct {
	ResourceServer string `json:"-"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token,omitempty"`
	// Unix seconds. Zero means the provider did not report an expiry.
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// Expired reports whether the token has an expiry that is already past.
func (t TokenRecord) Expired(now time.Time) bool {
	return t.ExpiresAt != 0 && now.Unix() >= t.ExpiresAt
}

// Expiry returns the expiry as a time, or the zero time if unknown.
func (t TokenRecord) Expiry() time.Time {
	if t.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(t.ExpiresAt, 0)
}

// Identity of the user that logged in.
type UserIdentity struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	SubjectID string `json:"sub,omitempty"`
}

// Structure of the token file written to the user's home directory.
type TokenFile struct {
	Tokens map[string]TokenRecord `json:"tokens"`
	UserIdentity
}

// Returns the token for the given resource server.
func (f *TokenFile) Token(resourceServer string) (TokenRecord, bool) {
	if f == nil || f.Tokens == nil {
		return TokenRecord{}, false
	}
	t, ok := f.Tokens[resourceServer]
	return t, ok
}
