package httpw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/lib/console"
)

// Response with the body already read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client sends JSON requests authenticated with a bearer token.
// No timeout and no retries are applied.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

func (c *Client) httpClient() *http.Client {
	if c == nil || c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// Send an HTTP request to the specified URL.
//
// @param method - HTTP method
//
// @param url - URL to send the request to
//
// @param body - Request body, encoded as JSON unless nil
//
// @param accessToken - Access token, omitted from the request if empty
//
// Returns the response and any transport error that occurred.
func (c *Client) SendRequest(ctx context.Context, method string, url string, body any, accessToken string) (*Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	// Build request
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	}
	if c != nil && c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	// Send request
	start := time.Now()
	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &apierrors.TransportError{URL: url, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &apierrors.TransportError{URL: url, Err: err}
	}

	console.Log().Debug().
		Str("method", method).
		Str("url", url).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("http request")

	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: data}, nil
}

// Send a POST request with a JSON body to the specified URL.
func (c *Client) Post(ctx context.Context, url string, body any, accessToken string) (*Response, error) {
	return c.SendRequest(ctx, http.MethodPost, url, body, accessToken)
}
