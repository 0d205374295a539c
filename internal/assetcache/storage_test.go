package assetcache

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage_OpenReturnsSameGeneration(t *testing.T) {
	s := NewStorage(16, 1024)
	defer s.Close()

	a, err := s.Open("v1")
	require.NoError(t, err)
	b, err := s.Open("v1")
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, "v1", a.Name())
	require.Equal(t, []string{"v1"}, s.Names())
}

func TestGeneration_PutCopiesEntry(t *testing.T) {
	s := NewStorage(16, 1024)
	defer s.Close()
	gen, err := s.Open("v1")
	require.NoError(t, err)

	entry := &Entry{StatusCode: http.StatusOK, Header: http.Header{"Etag": []string{"a"}}, Body: []byte("hello")}
	require.True(t, gen.Put("http://app.local/", entry))

	entry.Body[0] = 'j'
	entry.Header.Set("Etag", "b")

	got, ok := gen.Get("http://app.local/")
	require.True(t, ok)
	require.Equal(t, "hello", string(got.Body))
	require.Equal(t, "a", got.Header.Get("Etag"))
}

func TestGeneration_MissWhenEmpty(t *testing.T) {
	s := NewStorage(16, 1024)
	defer s.Close()
	gen, err := s.Open("v1")
	require.NoError(t, err)

	got, ok := gen.Get("http://app.local/")
	require.False(t, ok)
	require.Nil(t, got)
}

func TestStorage_DeleteDropsGeneration(t *testing.T) {
	s := NewStorage(16, 1024)
	defer s.Close()

	gen, err := s.Open("v0")
	require.NoError(t, err)
	require.True(t, gen.Put("k", &Entry{StatusCode: http.StatusOK, Body: []byte("x")}))

	require.True(t, s.Delete("v0"))
	require.False(t, s.Delete("v0"))
	require.Empty(t, s.Names())

	// reopening yields a fresh, empty generation
	fresh, err := s.Open("v0")
	require.NoError(t, err)
	_, ok := fresh.Get("k")
	require.False(t, ok)
}

func TestEntry_ToResponse(t *testing.T) {
	e := &Entry{StatusCode: http.StatusOK, Body: []byte("abc")}
	req, err := http.NewRequest(http.MethodGet, "http://app.local/", nil)
	require.NoError(t, err)

	resp := e.toResponse(req, StatusHit)
	require.Equal(t, "200 OK", resp.Status)
	require.Equal(t, int64(3), resp.ContentLength)
	require.Equal(t, StatusHit, resp.Header.Get(HeaderName))
	require.Same(t, req, resp.Request)
}
