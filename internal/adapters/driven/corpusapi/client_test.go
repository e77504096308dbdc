package corpusapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

type recordedRequest struct {
	Path      string
	RawQuery  string
	Query     map[string][]string
	Accept    string
	UserAgent string
	RequestID string
}

// newTestServer serves body with status and records every request.
func newTestServer(t *testing.T, status int, body string, headers map[string]string) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, recordedRequest{
			Path:      r.URL.Path,
			RawQuery:  r.URL.RawQuery,
			Query:     r.URL.Query(),
			Accept:    r.Header.Get("Accept"),
			UserAgent: r.Header.Get("User-Agent"),
			RequestID: r.Header.Get("X-Request-ID"),
		})
		mu.Unlock()

		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(Config{Endpoint: endpoint})
	require.NoError(t, err)
	return c
}

const twoSegments = `{
  "total": 47,
  "results": [
    {
      "id": "ch01_sc02_p03",
      "content": "The ice cracked under her boots.",
      "source_file": "chapter_01.md",
      "chapter_title": "Chapter 1",
      "scene_index": 2,
      "paragraph_index": 3,
      "location_name": "Frozen Lake",
      "primary_characters": "Alice, Bob,,Alice",
      "tags": ["winter", " cold ", "winter", ""]
    },
    {
      "id": "ch01_sc02_p04",
      "content": "Nothing moved.",
      "source_file": "chapter_01.md",
      "chapter_title": "Chapter 1",
      "scene_index": 2,
      "paragraph_index": 4,
      "location_name": null,
      "primary_characters": "",
      "tags": null
    }
  ]
}`

func TestClient_Search(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, twoSegments, nil)
	c := newTestClient(t, srv.URL)

	page, err := c.Search(context.Background(), "ice", 20)

	require.NoError(t, err)
	assert.Equal(t, 47, page.Total)
	require.Len(t, page.Items, 2)

	first := page.Items[0]
	assert.Equal(t, "ch01_sc02_p03", first.ID)
	assert.Equal(t, "The ice cracked under her boots.", first.Content)
	assert.Equal(t, "chapter_01.md", first.SourceFile)
	assert.Equal(t, "Chapter 1", first.ChapterTitle)
	assert.Equal(t, 2, first.SceneIndex)
	assert.Equal(t, 3, first.ParagraphIndex)
	assert.Equal(t, "Frozen Lake", first.Location())
	assert.Equal(t, []string{"Alice", "Bob"}, first.PrimaryCharacters)
	assert.Equal(t, []string{"winter", "cold"}, first.Tags)

	second := page.Items[1]
	assert.False(t, second.HasLocation())
	assert.Nil(t, second.LocationName)
	assert.Nil(t, second.PrimaryCharacters)
	assert.Nil(t, second.Tags)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/corpus/search", reqs[0].Path)
	assert.Equal(t, []string{"ice"}, reqs[0].Query["q"])
	assert.Equal(t, []string{"20"}, reqs[0].Query["limit"])
	assert.Equal(t, "application/json", reqs[0].Accept)
	assert.Equal(t, DefaultUserAgent, reqs[0].UserAgent)
	_, err = uuid.Parse(reqs[0].RequestID)
	assert.NoError(t, err)
}

func TestClient_Search_EmptyTextOmitsQ(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"total": 0, "results": []}`, nil)
	c := newTestClient(t, srv.URL)

	page, err := c.Search(context.Background(), "", 20)

	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "limit=20", reqs[0].RawQuery)
	_, hasQ := reqs[0].Query["q"]
	assert.False(t, hasQ)
}

func TestClient_Search_EncodesText(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"total": 0, "results": []}`, nil)
	c := newTestClient(t, srv.URL+"/")

	_, err := c.Search(context.Background(), "  fire & ice ", 70)

	require.NoError(t, err)
	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/corpus/search", reqs[0].Path)
	assert.Equal(t, []string{"  fire & ice "}, reqs[0].Query["q"])
	assert.Equal(t, []string{"70"}, reqs[0].Query["limit"])
}

func TestClient_Search_UniqueRequestIDs(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"total": 0, "results": []}`, nil)
	c := newTestClient(t, srv.URL)

	for i := 0; i < 3; i++ {
		_, err := c.Search(context.Background(), "ice", 20)
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	for _, r := range requests() {
		assert.False(t, seen[r.RequestID])
		seen[r.RequestID] = true
	}
}

func TestClient_Search_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing total", `{"results": []}`},
		{"missing results", `{"total": 3}`},
		{"null results", `{"total": 3, "results": null}`},
		{"wrong total type", `{"total": "many", "results": []}`},
		{"more items than total", `{"total": 1, "results": [{"id": "a"}, {"id": "b"}]}`},
		{"negative total", `{"total": -1, "results": []}`},
		{"bad tags", `{"total": 1, "results": [{"id": "a", "tags": 7}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, tt.body, nil)
			c := newTestClient(t, srv.URL)

			_, err := c.Search(context.Background(), "ice", 20)

			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestClient_Search_MoreItemsThanLimit(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"total": 5, "results": [{"id": "a"}, {"id": "b"}]}`, nil)
	c := newTestClient(t, srv.URL)

	_, err := c.Search(context.Background(), "ice", 1)

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestClient_Search_StatusErrors(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, "database locked\n", nil)
	c := newTestClient(t, srv.URL)

	_, err := c.Search(context.Background(), "ice", 20)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "database locked", statusErr.Body)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Search_RateLimited(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusTooManyRequests, "", map[string]string{"Retry-After": "2"})
	c, err := NewClient(Config{Endpoint: srv.URL, RateLimit: 100, RateBurst: 10})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "ice", 20)

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorIs(t, err, domain.ErrTransport)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 2*time.Second, statusErr.RetryAfter)
	c.limiter.mu.Lock()
	retryAt := c.limiter.retryAt
	c.limiter.mu.Unlock()
	assert.WithinDuration(t, time.Now().Add(2*time.Second), retryAt, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, "ice", 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Search_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c := newTestClient(t, endpoint)
	_, err := c.Search(context.Background(), "ice", 20)

	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_Search_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Search(ctx, "ice", 20)

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_Search_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c, err := NewClient(Config{Endpoint: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "ice", 20)

	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_Search_InvalidLimit(t *testing.T) {
	c := newTestClient(t, "http://localhost:8000")

	_, err := c.Search(context.Background(), "ice", 0)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{"http", "http://localhost:8000", false},
		{"https with path", "https://corpus.example.com/api/", false},
		{"empty", "", true},
		{"no scheme", "localhost:8000", true},
		{"ftp", "ftp://corpus.example.com", true},
		{"no host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(Config{Endpoint: tt.endpoint})
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{Endpoint: "http://localhost:8000/", Timeout: 3 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", c.baseURL)
	assert.Equal(t, DefaultUserAgent, c.userAgent)
	assert.Equal(t, 3*time.Second, c.client.Timeout)
	assert.Nil(t, c.limiter)
}

func TestConfigFromSettings(t *testing.T) {
	s := domain.DefaultSettings()
	s.RequestTimeout = time.Second

	cfg := ConfigFromSettings(s)

	assert.Equal(t, s.Endpoint, cfg.Endpoint)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.InDelta(t, s.RateLimit, cfg.RateLimit, 0.0001)
	assert.Equal(t, s.RateBurst, cfg.RateBurst)
}

func TestSearchURL(t *testing.T) {
	c := newTestClient(t, "http://localhost:8000")

	assert.Equal(t, "http://localhost:8000/corpus/search?limit=20", c.searchURL("", 20))
	assert.Equal(t, "http://localhost:8000/corpus/search?limit=70&q=ice", c.searchURL("ice", 70))
	assert.Equal(t, "http://localhost:8000/corpus/search?limit=20&q=a+b%26c", c.searchURL("a b&c", 20))
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))
	assert.Equal(t, 7*time.Second, parseRetryAfter("7", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-3", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon", now))
	assert.Equal(t, 30*time.Second, parseRetryAfter(now.Add(30*time.Second).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), parseRetryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
}
