package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// --- Fake clock ---

// fakeClock fires timers only when Advance is called.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) driven.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs every due timer in schedule order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

// Armed returns the number of timers that are neither stopped nor fired.
func (c *fakeClock) Armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// callback returns the function of the i-th scheduled timer.
func (c *fakeClock) callback(i int) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[i].f
}

// --- Corpus searcher backed by a slice ---

type searchRequest struct {
	Text  string
	Limit int
}

// mockCorpusSearcher answers immediately from an in-memory corpus using
// case-insensitive substring match, in corpus order.
type mockCorpusSearcher struct {
	mu       sync.Mutex
	corpus   []domain.TextSegment
	err      error
	requests []searchRequest
	override func(text string, limit int) (domain.ResultPage, error)
}

func (m *mockCorpusSearcher) Search(_ context.Context, text string, limit int) (domain.ResultPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, searchRequest{Text: text, Limit: limit})
	if m.override != nil {
		return m.override(text, limit)
	}
	if m.err != nil {
		return domain.ResultPage{}, m.err
	}

	var matches []domain.TextSegment
	for _, seg := range m.corpus {
		if text == "" || strings.Contains(strings.ToLower(seg.Content), strings.ToLower(text)) {
			matches = append(matches, seg)
		}
	}
	items := matches
	if len(items) > limit {
		items = items[:limit]
	}
	return domain.ResultPage{Items: items, Total: len(matches)}, nil
}

func (m *mockCorpusSearcher) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockCorpusSearcher) Requests() []searchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]searchRequest(nil), m.requests...)
}

func (m *mockCorpusSearcher) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// testCorpus builds n segments mentioning word, followed by filler segments.
func testCorpus(word string, n, filler int) []domain.TextSegment {
	segs := make([]domain.TextSegment, 0, n+filler)
	for i := 0; i < n; i++ {
		segs = append(segs, domain.TextSegment{
			ID:           fmt.Sprintf("%s-%03d", word, i),
			Content:      fmt.Sprintf("The %s cracked under paragraph %d.", word, i),
			ChapterTitle: "Chapter 1",
			SceneIndex:   i / 10,
		})
	}
	for i := 0; i < filler; i++ {
		segs = append(segs, domain.TextSegment{
			ID:      fmt.Sprintf("filler-%03d", i),
			Content: fmt.Sprintf("Nothing happened in paragraph %d.", i),
		})
	}
	return segs
}

// --- Blocking searcher for ordering tests ---

type searchReply struct {
	page domain.ResultPage
	err  error
}

type pendingSearch struct {
	Text  string
	Limit int
	reply chan searchReply
}

func (p *pendingSearch) Respond(page domain.ResultPage) {
	p.reply <- searchReply{page: page}
}

func (p *pendingSearch) Fail(err error) {
	p.reply <- searchReply{err: err}
}

// blockingSearcher holds every request until the test responds to it.
type blockingSearcher struct {
	calls chan *pendingSearch
}

func newBlockingSearcher() *blockingSearcher {
	return &blockingSearcher{calls: make(chan *pendingSearch, 32)}
}

func (s *blockingSearcher) Search(ctx context.Context, text string, limit int) (domain.ResultPage, error) {
	call := &pendingSearch{Text: text, Limit: limit, reply: make(chan searchReply, 1)}
	s.calls <- call
	select {
	case r := <-call.reply:
		return r.page, r.err
	case <-ctx.Done():
		return domain.ResultPage{}, ctx.Err()
	}
}

func (s *blockingSearcher) next(t *testing.T) *pendingSearch {
	t.Helper()
	select {
	case call := <-s.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("expected a search request")
		return nil
	}
}

func (s *blockingSearcher) assertNoCall(t *testing.T) {
	t.Helper()
	select {
	case call := <-s.calls:
		t.Fatalf("unexpected search request q=%q limit=%d", call.Text, call.Limit)
	case <-time.After(50 * time.Millisecond):
	}
}

// --- Error reporter ---

type reportedError struct {
	Query domain.SearchQuery
	Err   error
}

type mockReporter struct {
	mu      sync.Mutex
	reports []reportedError
}

func (m *mockReporter) Report(query domain.SearchQuery, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, reportedError{Query: query, Err: err})
}

func (m *mockReporter) Reports() []reportedError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]reportedError(nil), m.reports...)
}

func page(ids ...string) domain.ResultPage {
	items := make([]domain.TextSegment, len(ids))
	for i, id := range ids {
		items[i] = domain.TextSegment{ID: id, Content: id}
	}
	return domain.ResultPage{Items: items, Total: len(ids)}
}

func ids(p domain.ResultPage) []string {
	out := make([]string, len(p.Items))
	for i := range p.Items {
		out[i] = p.Items[i].ID
	}
	return out
}
