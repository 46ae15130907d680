package minid

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newMinidServer(t *testing.T, records map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/")
		requested = append(requested, id)
		w.Header().Set("Content-Type", "application/json")
		body, ok := records[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"NotFound","message":"No such identifier"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &requested
}

func TestResolve(t *testing.T) {
	server, requested := newMinidServer(t, map[string]string{
		"ark:/99999/abc": `{"identifier":"ark:/99999/abc","location":["https://x/bag.zip"]}`,
	})

	r := NewResolver(server.URL+"/", rate.NewLimiter(rate.Inf, 1))
	records, err := r.ResolveAll(context.Background(), []string{"ark:/99999/abc"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.MinidRecord{{
		"identifier": "ark:/99999/abc",
		"location":   []any{"https://x/bag.zip"},
	}}, records)
	assert.Equal(t, []string{"ark:/99999/abc"}, *requested)
	assert.Equal(t, []string{"https://x/bag.zip"}, records[0].Locations())
}

func TestResolveAllKeepsOrder(t *testing.T) {
	server, requested := newMinidServer(t, map[string]string{
		"ark:/1": `{"identifier":"ark:/1"}`,
		"ark:/2": `{"identifier":"ark:/2"}`,
		"ark:/3": `{"identifier":"ark:/3"}`,
	})

	var progress []int
	records, err := NewResolver(server.URL, nil).ResolveAll(context.Background(),
		[]string{"ark:/3", "ark:/1", "ark:/2"}, func(n int) { progress = append(progress, n) })
	require.NoError(t, err)

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.Identifier())
	}
	assert.Equal(t, []string{"ark:/3", "ark:/1", "ark:/2"}, ids)
	assert.Equal(t, []string{"ark:/3", "ark:/1", "ark:/2"}, *requested)
	assert.Equal(t, []int{1, 2, 3}, progress)
}

func TestResolveAllStopsAtFirstFailure(t *testing.T) {
	server, requested := newMinidServer(t, map[string]string{
		"ark:/1": `{"identifier":"ark:/1"}`,
		"ark:/3": `{"identifier":"ark:/3"}`,
	})

	records, err := NewResolver(server.URL, nil).ResolveAll(context.Background(),
		[]string{"ark:/1", "ark:/missing", "ark:/3"}, nil)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, []string{"ark:/1", "ark:/missing"}, *requested)

	var ce *apierrors.ConciergeError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "NotFound", ce.Code)
	assert.Equal(t, "No such identifier", ce.Message)
	assert.Contains(t, err.Error(), "ark:/missing")
}

func TestResolveErrors(t *testing.T) {
	unauthorized := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer unauthorized.Close()
	_, err := NewResolver(unauthorized.URL, nil).Resolve(context.Background(), "ark:/1")
	assert.ErrorIs(t, err, apierrors.ErrLoginRequired)

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer garbage.Close()
	_, err = NewResolver(garbage.URL, nil).Resolve(context.Background(), "ark:/1")
	assert.ErrorIs(t, err, apierrors.ErrMalformedResponse)

	garbage.Close()
	_, err = NewResolver(garbage.URL, nil).Resolve(context.Background(), "ark:/1")
	assert.ErrorIs(t, err, apierrors.ErrTransport)
}

func TestResolveHonorsCanceledContext(t *testing.T) {
	server, requested := newMinidServer(t, map[string]string{"ark:/1": `{}`})
	limiter := rate.NewLimiter(rate.Every(1e12), 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewResolver(server.URL, limiter).Resolve(ctx, "ark:/1")
	assert.Error(t, err)
	assert.Empty(t, *requested)
}
