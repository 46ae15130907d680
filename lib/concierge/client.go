// Package concierge is the client for the Concierge bag service API.
package concierge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fair-research/concierge-cli/lib/httpvalidation"
	"github.com/fair-research/concierge-cli/lib/httpw"
	"github.com/fair-research/concierge-cli/models"
)

const (
	bagsPath  = "bags/"
	stagePath = "stagebag/"
)

type Client struct {
	baseURL *url.URL
	token   string
	http    *httpw.Client
}

type Option func(*Client) error

func New(opts ...Option) (*Client, error) {
	c := &Client{
		http: &httpw.Client{UserAgent: "concierge-cli"},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.baseURL == nil {
		return nil, errors.New("server is required")
	}
	return c, nil
}

func WithServer(server string) Option {
	return func(c *Client) error {
		if server == "" {
			return errors.New("server is required")
		}
		parsed, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("invalid server: %w", err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("invalid server %q: scheme and host are required", server)
		}
		c.baseURL = parsed
		return nil
	}
}

// Bearer token for the Concierge resource server.
func WithToken(token string) Option {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.http.HTTP = hc
		return nil
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		c.http.UserAgent = userAgent
		return nil
	}
}

// Server the client talks to.
func (c *Client) Server() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(p string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + p
	return u.String()
}

func (c *Client) post(ctx context.Context, p string, body any) httpvalidation.Outcome {
	return httpvalidation.Result(c.http.Post(ctx, c.endpoint(p), body, c.token))
}

// Create a bag from a remote file manifest and register a minid for it.
// The response is returned exactly as the server sent it.
func (c *Client) CreateBag(ctx context.Context, req models.BagRequest) (models.BagResult, error) {
	req.MinidMetadata = orEmpty(req.MinidMetadata)
	req.BagMetadata = orEmpty(req.BagMetadata)
	req.BagROMetadata = orEmpty(req.BagROMetadata)
	if req.RemoteFileManifest == nil {
		req.RemoteFileManifest = []json.RawMessage{}
	}

	var result models.BagResult
	if err := httpvalidation.Decode(c.post(ctx, bagsPath, req), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Stage the contents of one or more bags to a Globus endpoint.
func (c *Client) StageBag(ctx context.Context, req models.StageRequest) (*models.StageResult, error) {
	if req.Minids == nil {
		req.Minids = []string{}
	}

	o := c.post(ctx, stagePath, req)

	var result models.StageResult
	if err := httpvalidation.Decode(o, &result); err != nil {
		return nil, err
	}
	if err := httpvalidation.Decode(o, &result.Raw); err != nil {
		return nil, err
	}
	return &result, nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
