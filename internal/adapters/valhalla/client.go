// Package valhalla talks to a Valhalla routing engine over HTTP.
package valhalla

import (
	"bikeroute-service/internal/platform/httpx"
	"bikeroute-service/internal/platform/obs"
	"bikeroute-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Client implements ports.RoutingEngine against a Valhalla /route endpoint.
//
// It coordinates:
//   - Request encoding (locations, costing, bicycle options)
//   - An optional response cache keyed by request fingerprint
//   - Coalescing of identical in-flight requests
//   - External API calls with retry/backoff
//
// The client is safe for concurrent use.
type Client struct {
	session  *http.Client
	baseURL  string
	policy   httpx.Policy
	cache    ports.ResponseCache
	cacheTTL time.Duration
	group    singleflight.Group
}

// NewClient returns a client for the engine at baseURL. cache may be nil.
func NewClient(baseURL string, cache ports.ResponseCache, cacheTTL time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("valhalla base url is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse valhalla base url: %w", err)
	}

	return &Client{
		session:  &http.Client{Timeout: 15 * time.Second},
		baseURL:  baseURL,
		policy:   httpx.DefaultPolicy,
		cache:    cache,
		cacheTTL: cacheTTL,
	}, nil
}

// Route requests a path through req.Locations in order.
func (c *Client) Route(ctx context.Context, req ports.EngineRequest) (_ *ports.EngineResponse, err error) {
	defer obs.Time(ctx, "valhalla.Route")(&err)

	if len(req.Locations) < 2 {
		return nil, fmt.Errorf("valhalla route: need at least 2 locations, got %d", len(req.Locations))
	}

	body, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}
	key := cacheKey(body)

	// Cache failures degrade to a live call.
	if c.cache != nil {
		hit, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Printf("route cache read failed: key=%s err=%v", key, err)
		} else if ok {
			return hit, nil
		}
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := c.group.DoChan(key, func() (any, error) {
		detached := context.WithoutCancel(ctx)

		resp, err := c.fetch(detached, body)
		if err != nil {
			return nil, err
		}

		// A legless reply fails only this attempt; never replay it from cache.
		if c.cache != nil && len(resp.Legs) > 0 {
			if err := c.cache.Set(detached, key, resp, c.cacheTTL); err != nil {
				log.Printf("route cache write failed: key=%s err=%v", key, err)
			}
		}

		return resp, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, fmt.Errorf("valhalla route: %w", res.Err)
	}

	return res.Val.(*ports.EngineResponse), nil
}

func (c *Client) fetch(ctx context.Context, body []byte) (*ports.EngineResponse, error) {
	endpoint := c.baseURL + "/route"

	resp, err := httpx.DoWithRetry(ctx, c.session, c.policy, func() (*http.Request, error) {
		return c.newRequest(ctx, endpoint, body)
	})
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	// Shape validation is left to the geometry processor.
	if decoded.Trip == nil {
		return &ports.EngineResponse{}, nil
	}

	return decoded.Trip, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("json", string(body))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")

	return req, nil
}
