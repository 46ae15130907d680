package tokens

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTokens() *models.TokenFile {
	return &models.TokenFile{
		Tokens: map[string]models.TokenRecord{
			"auth.globus.org": {
				ResourceServer: "auth.globus.org",
				AccessToken:    "auth-access",
				RefreshToken:   "auth-refresh",
				ExpiresAt:      time.Now().Add(time.Hour).Unix(),
			},
			"524361f2-e4a9-4bd0-a3a6-03e365cac8a9": {
				ResourceServer: "524361f2-e4a9-4bd0-a3a6-03e365cac8a9",
				AccessToken:    "concierge-access",
			},
		},
		UserIdentity: models.UserIdentity{
			Name:      "Jane Doe",
			Email:     "jane@example.org",
			SubjectID: "b2c3",
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "tokens.json"))
	want := sampleTokens()

	require.NoError(t, store.Save(want))
	assert.True(t, store.Exists())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveReplacesWholeFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, store.Save(sampleTokens()))

	second := &models.TokenFile{Tokens: map[string]models.TokenRecord{
		"transfer.api.globus.org": {ResourceServer: "transfer.api.globus.org", AccessToken: "t"},
	}}
	require.NoError(t, store.Save(second))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, second, got)
	assert.Empty(t, got.Name)
}

func TestFileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewStore(path)
	require.NoError(t, store.Save(&models.TokenFile{
		Tokens: map[string]models.TokenRecord{
			"rs": {AccessToken: "a", ExpiresAt: 42},
		},
		UserIdentity: models.UserIdentity{Email: "jane@example.org"},
	}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tokens":{"rs":{"access_token":"a","expires_at":42}},"email":"jane@example.org"}`, string(content))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestLoadFailuresAreLoginRequired(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "malformed json", content: strPtr("{bad json")},
		{name: "no tokens", content: strPtr(`{"tokens":{}}`)},
		{name: "wrong shape", content: strPtr(`{"tokens":["a"]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o600))
			}
			_, err := NewStore(path).Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, apierrors.ErrLoginRequired))
		})
	}
}

func TestSaveFailureIsLoginRequired(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := NewStore(filepath.Join(blocker, "tokens.json")).Save(sampleTokens())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierrors.ErrLoginRequired))
}

func TestDelete(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tokens.json"))

	deleted, err := store.Delete()
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, store.Save(sampleTokens()))
	deleted, err = store.Delete()
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, store.Exists())
}

func strPtr(s string) *string { return &s }
