package domain

import "fmt"

const (
	// DefaultWindowSize is the number of results requested for a new query.
	DefaultWindowSize = 20

	// LoadMoreStep is how much the window grows on each load-more action.
	LoadMoreStep = 50
)

// SearchQuery is an immutable committed query.
// A new value supersedes the previous one; it is never mutated.
type SearchQuery struct {
	// Text is the committed search string. Empty means the unfiltered head of the corpus.
	Text string `json:"text"`

	// WindowSize is the number of results requested.
	WindowSize int `json:"window_size"`
}

// DefaultQuery returns the query issued when the browser is mounted.
func DefaultQuery() SearchQuery {
	return SearchQuery{Text: "", WindowSize: DefaultWindowSize}
}

// NewQuery returns a query for text with the default window size.
func NewQuery(text string) SearchQuery {
	return SearchQuery{Text: text, WindowSize: DefaultWindowSize}
}

// Next returns the query that loads one more step of results for the same text.
func (q SearchQuery) Next() SearchQuery {
	return SearchQuery{Text: q.Text, WindowSize: q.WindowSize + LoadMoreStep}
}

// Validate checks that the query can be sent.
func (q SearchQuery) Validate() error {
	if q.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidInput, q.WindowSize)
	}
	return nil
}

// String returns a compact description for logs.
func (q SearchQuery) String() string {
	return fmt.Sprintf("q=%q limit=%d", q.Text, q.WindowSize)
}

// SearchRequestToken identifies the order in which requests were issued.
// Tokens are allocated strictly increasing and never reused.
type SearchRequestToken uint64

// ResultPage is the result of one search request.
type ResultPage struct {
	// Items holds the returned segments in endpoint order.
	Items []TextSegment `json:"results"`

	// Total is the size of the full match set, independent of the window size.
	Total int `json:"total"`
}

// Len returns the number of items on the page.
func (p ResultPage) Len() int {
	return len(p.Items)
}

// HasMore reports whether the endpoint holds more matches than were returned.
func (p ResultPage) HasMore() bool {
	return len(p.Items) < p.Total
}

// Validate checks the page invariants against the requested limit.
func (p ResultPage) Validate(limit int) error {
	if p.Total < 0 {
		return fmt.Errorf("%w: negative total %d", ErrMalformedResponse, p.Total)
	}
	if len(p.Items) > p.Total {
		return fmt.Errorf("%w: %d items exceed total %d", ErrMalformedResponse, len(p.Items), p.Total)
	}
	if limit > 0 && len(p.Items) > limit {
		return fmt.Errorf("%w: %d items exceed limit %d", ErrMalformedResponse, len(p.Items), limit)
	}
	return nil
}

// ViewState is what the browser currently shows.
// It is owned by the browser; callers always receive a copy.
type ViewState struct {
	// Query is the most recently dispatched query.
	Query SearchQuery

	// Page is the last page applied for the latest request.
	Page ResultPage

	// IsLoading is true while the latest request is in flight.
	IsLoading bool

	// Err is the failure of the latest request, nil once it succeeds.
	// Page still holds the results from before the failure.
	Err error
}

// CanLoadMore reports whether a load-more action would issue a request.
func (s ViewState) CanLoadMore() bool {
	return !s.IsLoading && s.Page.HasMore()
}

// Clone returns a copy that shares no slices with s.
func (s ViewState) Clone() ViewState {
	out := s
	if s.Page.Items != nil {
		out.Page.Items = make([]TextSegment, len(s.Page.Items))
		copy(out.Page.Items, s.Page.Items)
	}
	return out
}
