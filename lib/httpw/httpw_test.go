package httpw

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostSendsJSONWithBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "cbag-test", r.Header.Get("User-Agent"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"minids":["ark:/99999/abc"]}`, string(body))

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := &Client{UserAgent: "cbag-test"}
	res, err := c.Post(context.Background(), server.URL, map[string][]string{"minids": {"ark:/99999/abc"}}, "secret")
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, res.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(res.Body))
}

func TestRequestWithoutTokenOrBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		_ = json.NewEncoder(w).Encode(map[string]string{"identifier": "x"})
	}))
	defer server.Close()

	var c *Client
	res, err := c.SendRequest(context.Background(), http.MethodGet, server.URL, nil, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := (&Client{}).Post(context.Background(), url, nil, "t")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierrors.ErrTransport))
}

func TestUnencodableBody(t *testing.T) {
	_, err := (&Client{}).Post(context.Background(), "http://127.0.0.1:1", map[string]any{"bad": make(chan int)}, "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apierrors.ErrTransport))
}
