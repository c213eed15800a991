// Package tracker is the client side of visitor tracking. It posts page
// views to the analytics endpoint and never re-sends the same path within
// the throttle window.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"makani-studio/internal/domain/analytics"
	"makani-studio/internal/infra/cache"

	"go.uber.org/zap"
)

// Store remembers which paths were sent recently. cache.MemoryThrottle and
// cache.RedisThrottle both satisfy it.
type Store interface {
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
}

type Visit struct {
	Path         string         `json:"path"`
	VisitorToken string         `json:"visitorToken,omitempty"`
	Referrer     string         `json:"referrer,omitempty"`
	Language     string         `json:"language,omitempty"`
	Timezone     string         `json:"timezone,omitempty"`
	Screen       string         `json:"screen,omitempty"`
	UTM          *analytics.UTM `json:"utm,omitempty"`
}

type Client struct {
	endpoint string
	http     *http.Client
	store    Store
	window   time.Duration
	log      *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithStore(s Store) Option             { return func(c *Client) { c.store = s } }
func WithLogger(l *zap.Logger) Option      { return func(c *Client) { c.log = l } }

// New targets baseURL + /api/analytics/visit.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/analytics/visit",
		http:     &http.Client{Timeout: 10 * time.Second},
		store:    cache.NewMemoryThrottle(),
		window:   analytics.ThrottleWindow,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Track sends v unless its path was sent within the window. The bool
// reports whether a request went out. A failed request still consumes the
// window.
func (c *Client) Track(ctx context.Context, v Visit) (bool, error) {
	path := strings.TrimSpace(v.Path)
	if path == "" {
		path = "/"
	}
	v.Path = path

	ok, err := c.store.Allow(ctx, "tracker:"+path, c.window)
	if err != nil {
		return false, fmt.Errorf("tracker store: %w", err)
	}
	if !ok {
		return false, nil
	}

	body, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("track visit", zap.String("path", path), zap.Error(err))
		return true, err
	}
	defer resp.Body.Close()

	var res analytics.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err == nil && !res.Tracked {
		c.log.Debug("visit not tracked", zap.String("path", path), zap.String("reason", res.Reason))
	}
	return true, nil
}
