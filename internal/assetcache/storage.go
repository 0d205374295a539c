package assetcache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Entry is a stored response. Entries are never handed out directly; every
// read builds a fresh *http.Response over a shared immutable body.
type Entry struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *Entry) toResponse(req *http.Request, status string) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(HeaderName, status)
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode)),
		StatusCode:    e.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// Generation is one named cache. Cost is measured in body bytes.
type Generation struct {
	name  string
	cache *ristretto.Cache
}

func (g *Generation) Name() string { return g.name }

func (g *Generation) Get(key string) (*Entry, bool) {
	if v, ok := g.cache.Get(key); ok {
		e, ok := v.(*Entry)
		return e, ok
	}
	return nil, false
}

// Put stores e under key and waits until it is visible to Get. It reports
// false when the cache refused the entry.
func (g *Generation) Put(key string, e *Entry) bool {
	stored := &Entry{StatusCode: e.StatusCode, Header: e.Header.Clone(), Body: slices.Clone(e.Body)}
	ok := g.cache.Set(key, stored, int64(len(stored.Body))+1)
	g.cache.Wait()
	return ok
}

// Storage holds the named cache generations.
type Storage struct {
	maxItems int64
	maxBytes int64

	mu          sync.RWMutex
	generations map[string]*Generation
}

// Open returns the named generation, creating it when absent.
func (s *Storage) Open(name string) (*Generation, error) {
	s.mu.RLock()
	g, ok := s.generations[name]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok = s.generations[name]; ok {
		return g, nil
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        10 * s.maxItems,
		MaxCost:            s.maxBytes,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create asset cache generation %q failed: %w", name, err)
	}
	g = &Generation{name: name, cache: c}
	s.generations[name] = g
	return g, nil
}

// Names lists the existing generations in sorted order.
func (s *Storage) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.generations))
	for name := range s.generations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Delete drops the named generation and reports whether it existed.
func (s *Storage) Delete(name string) bool {
	s.mu.Lock()
	g, ok := s.generations[name]
	delete(s.generations, name)
	s.mu.Unlock()
	if ok {
		g.cache.Close()
	}
	return ok
}

func (s *Storage) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, g := range s.generations {
		g.cache.Close()
		delete(s.generations, name)
	}
}

// NewStorage sizes every generation for maxItems entries and maxBytes of bodies.
func NewStorage(maxItems, maxBytes int64) *Storage {
	if maxItems <= 0 {
		maxItems = 256
	}
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	return &Storage{maxItems: maxItems, maxBytes: maxBytes, generations: make(map[string]*Generation)}
}
