package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure Browser implements the interface.
var _ driving.Browser = (*Browser)(nil)

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithClock sets the clock used for debounce timers.
func WithClock(clock driven.Clock) BrowserOption {
	return func(b *Browser) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// WithDebounceDelay sets the keystroke debounce delay.
func WithDebounceDelay(d time.Duration) BrowserOption {
	return func(b *Browser) {
		if d >= 0 {
			b.delay = d
		}
	}
}

// WithContext sets the parent context of every request. Cancelling it has
// the same effect on in-flight requests as Close.
func WithContext(ctx context.Context) BrowserOption {
	return func(b *Browser) {
		if ctx != nil {
			b.parent = ctx
		}
	}
}

// Browser is the incremental search controller.
//
// Keystrokes go through OnInput and the debouncer; load-more and submit
// dispatch directly. Every dispatch allocates a new generation token and
// only the response carrying the latest token is applied, so responses
// arriving out of order never overwrite a newer query's results.
type Browser struct {
	searcher driven.CorpusSearcher
	reporter driven.ErrorReporter
	clock    driven.Clock

	debouncer *Debouncer
	parent    context.Context
	ctx       context.Context
	cancel    context.CancelFunc
	changes   chan struct{}

	mu      sync.Mutex
	state   domain.ViewState
	pending domain.SearchQuery
	latest  domain.SearchRequestToken
	delay   time.Duration
	closed  bool
}

// NewBrowser creates a browser over searcher. A nil reporter logs failures.
func NewBrowser(
	searcher driven.CorpusSearcher,
	reporter driven.ErrorReporter,
	opts ...BrowserOption,
) *Browser {
	if reporter == nil {
		reporter = logReporter{}
	}

	b := &Browser{
		searcher: searcher,
		reporter: reporter,
		clock:    SystemClock{},
		parent:   context.Background(),
		changes:  make(chan struct{}, 1),
		delay:    domain.DefaultDebounceDelay,
		state:    domain.ViewState{Query: domain.DefaultQuery()},
		pending:  domain.DefaultQuery(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.ctx, b.cancel = context.WithCancel(b.parent)
	b.debouncer = NewDebouncer(b.clock, b.search)
	return b
}

// Start dispatches the default query, listing the head of the corpus.
func (b *Browser) Start() {
	b.search(domain.DefaultQuery())
}

// OnInput records raw input verbatim and arms the debouncer. The window size
// goes back to the default because a new filter invalidates pagination.
func (b *Browser) OnInput(raw string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.pending = domain.NewQuery(raw)
	b.debouncer.Arm(b.pending, b.delay)
}

// Submit commits text immediately, dropping any armed keystroke.
func (b *Browser) Submit(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.debouncer.Cancel()
	b.pending = domain.NewQuery(text)
	b.dispatchLocked(b.pending)
}

// LoadMore re-issues the current query with the window grown by one step.
// It does nothing while a request is in flight or when every match is shown.
func (b *Browser) LoadMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || !b.state.CanLoadMore() {
		logger.Debug("load more ignored: loading=%t shown=%d total=%d",
			b.state.IsLoading, b.state.Page.Len(), b.state.Page.Total)
		return false
	}
	b.dispatchLocked(b.state.Query.Next())
	return true
}

// State returns a copy of the current view state.
func (b *Browser) State() domain.ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Changes is signalled after every visible state change. Signals coalesce:
// readers should call State rather than count signals.
func (b *Browser) Changes() <-chan struct{} {
	return b.changes
}

// WaitIdle blocks until the latest request has completed.
func (b *Browser) WaitIdle(ctx context.Context) (domain.ViewState, error) {
	for {
		b.mu.Lock()
		state := b.state.Clone()
		closed := b.closed
		b.mu.Unlock()

		if !state.IsLoading {
			return state, nil
		}
		if closed {
			return state, domain.ErrBrowserClosed
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-b.changes:
		}
	}
}

// SetDebounceDelay changes the delay applied to the next keystroke.
func (b *Browser) SetDebounceDelay(d time.Duration) {
	if d < 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = d
}

// Close cancels the armed keystroke and every in-flight request.
// Responses that arrive afterwards are dropped. Close is idempotent.
func (b *Browser) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.debouncer.Close()
	b.mu.Unlock()

	b.cancel()
	b.notify()
}

// search is the dispatch entry point for the debouncer and Start.
func (b *Browser) search(query domain.SearchQuery) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.dispatchLocked(query)
}

// dispatchLocked allocates the next token and starts the request.
// Caller must hold b.mu.
func (b *Browser) dispatchLocked(query domain.SearchQuery) {
	b.latest++
	token := b.latest

	b.state.Query = query
	b.state.IsLoading = true
	b.state.Err = nil
	logger.Debug("dispatch #%d: %s", token, query)

	go b.fetch(token, query)
	b.notify()
}

func (b *Browser) fetch(token domain.SearchRequestToken, query domain.SearchQuery) {
	page, err := b.searcher.Search(b.ctx, query.Text, query.WindowSize)
	if err == nil {
		err = page.Validate(query.WindowSize)
	}
	b.apply(token, query, page, err)
}

// apply updates the view with the outcome of request token, unless a newer
// request has been issued since.
func (b *Browser) apply(token domain.SearchRequestToken, query domain.SearchQuery, page domain.ResultPage, err error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		logger.Debug("dropping response #%d after close", token)
		return
	}
	if token != b.latest {
		latest := b.latest
		b.mu.Unlock()
		logger.Debug("discarding stale response #%d (latest #%d)", token, latest)
		return
	}

	b.state.IsLoading = false
	b.state.Err = err
	if err == nil {
		b.state.Page = domain.ResultPage{
			Items: append([]domain.TextSegment(nil), page.Items...),
			Total: page.Total,
		}
	}
	b.mu.Unlock()

	if err != nil {
		logger.Warn("search #%d failed: %v", token, err)
		b.reporter.Report(query, err)
	} else {
		logger.Debug("applied response #%d: %d of %d", token, page.Len(), page.Total)
	}
	b.notify()
}

func (b *Browser) notify() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

// logReporter is used when no reporter is supplied.
type logReporter struct{}

func (logReporter) Report(query domain.SearchQuery, err error) {
	logger.Warn("search %s failed: %v", query, err)
}
