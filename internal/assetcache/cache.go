// Package assetcache is an offline read-through cache for static assets,
// implemented as an http.RoundTripper in front of the network.
package assetcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fxconvert/internal/metrics"

	"github.com/sirupsen/logrus"
)

// HeaderName is set on every response produced by the cache.
const HeaderName = "X-Asset-Cache"

const (
	StatusHit         = "hit"
	StatusMiss        = "miss"
	StatusBypass      = "bypass"
	StatusOffline     = "offline"
	StatusFallback    = "fallback"
	StatusPassthrough = "passthrough"
)

var offlineBody = []byte(`{"error":"Offline"}`)

type Config struct {
	// Origin is the scheme and host assets are served from. Only same-origin
	// responses are stored.
	Origin string
	// Generation names the cache generation owned by this build.
	Generation string
	// Manifest lists the assets stored on Install, relative to Origin.
	Manifest []string
	// RootDocument is served to navigation requests that fail with no cache entry.
	RootDocument string
	// BypassHosts are never cached. A network failure for them yields a
	// synthetic offline payload.
	BypassHosts []string
}

type Cache struct {
	next       http.RoundTripper
	storage    *Storage
	metrics    *metrics.Metrics
	origin     *url.URL
	generation string
	manifest   []string
	root       string
	bypass     []string
}

// Install fetches every manifest asset and stores them in the current
// generation. Nothing is stored unless all of them succeed.
func (c *Cache) Install(ctx context.Context) error {
	if c.origin == nil {
		return errors.New("asset cache origin is not configured")
	}

	entries := make(map[string]*Entry, len(c.manifest))
	for _, asset := range c.manifest {
		u, err := c.origin.Parse(asset)
		if err != nil {
			return fmt.Errorf("failed to resolve manifest asset %q: %w", asset, err)
		}
		entry, err := c.fetchEntry(ctx, u)
		if err != nil {
			return fmt.Errorf("failed to install manifest asset %q: %w", asset, err)
		}
		entries[cacheKey(u)] = entry
	}

	gen, err := c.storage.Open(c.generation)
	if err != nil {
		return err
	}
	for key, entry := range entries {
		if !gen.Put(key, entry) {
			logrus.WithField("url", key).Warn("asset cache rejected manifest entry")
		}
	}
	logrus.WithFields(logrus.Fields{"generation": c.generation, "assets": len(entries)}).Info("asset cache installed")
	return nil
}

func (c *Cache) fetchEntry(ctx context.Context, u *url.URL) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Entry{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}

// Activate deletes every generation except the current one and returns the
// deleted names.
func (c *Cache) Activate() []string {
	var deleted []string
	for _, name := range c.storage.Names() {
		if name == c.generation {
			continue
		}
		if c.storage.Delete(name) {
			logrus.WithField("generation", name).Info("old asset cache generation deleted")
			deleted = append(deleted, name)
		}
	}
	return deleted
}

func (c *Cache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		c.metrics.ObserveAssetCache(StatusPassthrough)
		return c.next.RoundTrip(req)
	}
	if c.bypassed(req.URL) {
		return c.roundTripLive(req)
	}

	gen, err := c.storage.Open(c.generation)
	if err != nil {
		return nil, err
	}
	key := cacheKey(req.URL)
	if entry, ok := gen.Get(key); ok {
		c.metrics.ObserveAssetCache(StatusHit)
		return entry.toResponse(req, StatusHit), nil
	}

	resp, err := c.next.RoundTrip(req)
	if err != nil {
		return c.fallback(req, gen, err)
	}
	c.metrics.ObserveAssetCache(StatusMiss)
	if resp.StatusCode != http.StatusOK || !c.sameOrigin(req.URL) {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response for %s: %w", key, err)
	}
	gen.Put(key, &Entry{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: body})

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set(HeaderName, StatusMiss)
	return resp, nil
}

// roundTripLive sends req to the network and answers a failure with the
// synthetic offline payload.
func (c *Cache) roundTripLive(req *http.Request) (*http.Response, error) {
	resp, err := c.next.RoundTrip(req)
	if err == nil {
		c.metrics.ObserveAssetCache(StatusBypass)
		return resp, nil
	}
	if req.Context().Err() != nil {
		return nil, err
	}
	logrus.WithError(err).WithField("host", req.URL.Host).Debug("live request failed, answering offline")
	c.metrics.ObserveAssetCache(StatusOffline)
	offline := &Entry{
		StatusCode: http.StatusServiceUnavailable,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       offlineBody,
	}
	return offline.toResponse(req, StatusOffline), nil
}

func (c *Cache) fallback(req *http.Request, gen *Generation, cause error) (*http.Response, error) {
	if c.root != "" && c.origin != nil && isNavigation(req) {
		if u, err := c.origin.Parse(c.root); err == nil {
			if entry, ok := gen.Get(cacheKey(u)); ok {
				c.metrics.ObserveAssetCache(StatusFallback)
				return entry.toResponse(req, StatusFallback), nil
			}
		}
	}
	c.metrics.ObserveAssetCache("error")
	return nil, cause
}

func (c *Cache) bypassed(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	for _, b := range c.bypass {
		if host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}

func (c *Cache) sameOrigin(u *url.URL) bool {
	return c.origin != nil &&
		strings.EqualFold(u.Scheme, c.origin.Scheme) &&
		strings.EqualFold(u.Host, c.origin.Host)
}

func isNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}

func cacheKey(u *url.URL) string {
	k := *u
	k.Fragment = ""
	k.RawFragment = ""
	if k.Path == "" {
		k.Path = "/"
	}
	return k.String()
}

// New wraps next, which defaults to http.DefaultTransport.
func New(next http.RoundTripper, storage *Storage, cfg Config, m *metrics.Metrics) (*Cache, error) {
	if next == nil {
		next = http.DefaultTransport
	}
	if cfg.Generation == "" {
		return nil, errors.New("asset cache generation is required")
	}

	c := &Cache{
		next:       next,
		storage:    storage,
		metrics:    m,
		generation: cfg.Generation,
		manifest:   cfg.Manifest,
		root:       cfg.RootDocument,
	}
	if cfg.Origin != "" {
		origin, err := url.Parse(cfg.Origin)
		if err != nil {
			return nil, fmt.Errorf("failed to parse asset cache origin: %w", err)
		}
		if origin.Scheme == "" || origin.Host == "" {
			return nil, fmt.Errorf("asset cache origin %q must be absolute", cfg.Origin)
		}
		c.origin = origin
	}
	for _, h := range cfg.BypassHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			c.bypass = append(c.bypass, h)
		}
	}
	return c, nil
}
