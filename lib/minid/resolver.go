// Package minid looks up identifier records at the minid resolution service.
package minid

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/lib/httpvalidation"
	"github.com/fair-research/concierge-cli/models"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

type Resolver struct {
	baseURL string
	limiter *rate.Limiter
	client  *resty.Client
}

type Option func(*Resolver)

func WithHTTPClient(hc *http.Client) Option {
	return func(r *Resolver) {
		r.client = resty.NewWithClient(hc)
	}
}

// A nil limiter means lookups are not rate limited.
func NewResolver(baseURL string, limiter *rate.Limiter, opts ...Option) *Resolver {
	r := &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: limiter,
		client:  resty.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.client.SetHeader("Accept", "application/json")
	return r
}

// Resolve a single identifier.
func (r *Resolver) Resolve(ctx context.Context, id string) (models.MinidRecord, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	url := r.baseURL + "/" + strings.TrimLeft(id, "/")
	res, err := r.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &apierrors.TransportError{URL: url, Err: err}
	}
	console.Log().Debug().Str("minid", id).Int("status", res.StatusCode()).Dur("elapsed", res.Time()).Msg("resolved identifier")

	var record models.MinidRecord
	if err := httpvalidation.Decode(httpvalidation.Interpret(res.StatusCode(), res.Body()), &record); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return record, nil
}

// Resolve identifiers one at a time, in order. The first failure fails the
// whole call. onDone, if set, is called with the number resolved so far.
func (r *Resolver) ResolveAll(ctx context.Context, ids []string, onDone func(int)) ([]models.MinidRecord, error) {
	records := make([]models.MinidRecord, 0, len(ids))
	for i, id := range ids {
		record, err := r.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
		if onDone != nil {
			onDone(i + 1)
		}
	}
	return records, nil
}
