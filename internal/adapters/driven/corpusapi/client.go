package corpusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.CorpusSearcher = (*Client)(nil)

// Default configuration values.
const (
	DefaultUserAgent = "corpus-cli"

	searchPath = "/corpus/search"

	// maxBodySize caps how much of a response is read.
	maxBodySize = 32 << 20

	// maxErrorBody caps how much of an error body ends up in StatusError.
	maxErrorBody = 512
)

// Config holds configuration for the corpus API client.
type Config struct {
	// Endpoint is the API base URL, e.g. http://localhost:8000 (required).
	Endpoint string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// RateLimit is the sustained requests per second. Zero disables limiting.
	RateLimit float64

	// RateBurst is the limiter burst size (default: 1).
	RateBurst int

	// UserAgent is sent with every request (default: corpus-cli).
	UserAgent string

	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// ConfigFromSettings builds a client configuration from user settings.
func ConfigFromSettings(s domain.Settings) Config {
	return Config{
		Endpoint:  s.Endpoint,
		Timeout:   s.RequestTimeout,
		RateLimit: s.RateLimit,
		RateBurst: s.RateBurst,
	}
}

// Client searches the corpus over HTTP.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *RateLimiter
}

// searchResponse is the /corpus/search response envelope.
// Pointers distinguish a missing field from an empty one.
type searchResponse struct {
	Results *[]segmentJSON `json:"results"`
	Total   *int           `json:"total"`
}

// segmentJSON is one search result as sent by the endpoint.
type segmentJSON struct {
	ID                string     `json:"id"`
	Content           string     `json:"content"`
	SourceFile        string     `json:"source_file"`
	ChapterTitle      string     `json:"chapter_title"`
	SceneIndex        int        `json:"scene_index"`
	ParagraphIndex    int        `json:"paragraph_index"`
	LocationName      *string    `json:"location_name"`
	PrimaryCharacters stringList `json:"primary_characters"`
	Tags              stringList `json:"tags"`
}

// stringList accepts either a JSON array of strings or a single
// comma-separated string.
type stringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *stringList) UnmarshalJSON(data []byte) error {
	var raw []string

	switch {
	case string(data) == "null":
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.Split(s, ",")
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	for i := range raw {
		raw[i] = strings.TrimSpace(raw[i])
	}
	*l = domain.UniqueStrings(raw)
	return nil
}

// NewClient creates a new corpus API client.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("%w: corpus api: endpoint is required", domain.ErrInvalidInput)
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: corpus api: invalid endpoint %q", domain.ErrInvalidInput, cfg.Endpoint)
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		client:    httpClient,
		baseURL:   endpoint,
		userAgent: cfg.UserAgent,
	}
	if cfg.RateLimit > 0 {
		c.limiter = NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}
	return c, nil
}

// Search fetches up to limit segments matching text.
// Empty text lists the head of the corpus.
func (c *Client) Search(ctx context.Context, text string, limit int) (domain.ResultPage, error) {
	if limit <= 0 {
		return domain.ResultPage{}, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidInput, limit)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.ResultPage{}, err
		}
	}

	reqURL := c.searchURL(text, limit)
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return domain.ResultPage{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	logger.Debug("GET %s (request %s)", reqURL, requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.ResultPage{}, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.ResultPage{}, c.statusError(resp)
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&body); err != nil {
		return domain.ResultPage{}, fmt.Errorf("%w: decode response: %v", domain.ErrMalformedResponse, err)
	}
	if body.Total == nil {
		return domain.ResultPage{}, fmt.Errorf("%w: missing total", domain.ErrMalformedResponse)
	}
	if body.Results == nil {
		return domain.ResultPage{}, fmt.Errorf("%w: missing results", domain.ErrMalformedResponse)
	}

	page := domain.ResultPage{
		Items: make([]domain.TextSegment, 0, len(*body.Results)),
		Total: *body.Total,
	}
	for i := range *body.Results {
		page.Items = append(page.Items, (*body.Results)[i].toDomain())
	}
	if err := page.Validate(limit); err != nil {
		return domain.ResultPage{}, err
	}

	logger.Debug("request %s: %d of %d", requestID, page.Len(), page.Total)
	return page, nil
}

// searchURL builds the request URL. The q parameter is omitted for empty text.
func (c *Client) searchURL(text string, limit int) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if text != "" {
		params.Set("q", text)
	}
	return c.baseURL + searchPath + "?" + params.Encode()
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	statusErr := &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		statusErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		if c.limiter != nil {
			c.limiter.Backoff(statusErr.RetryAfter)
		}
		logger.Warn("corpus api rate limited, retry after %s", statusErr.RetryAfter)
	}
	return statusErr
}

// parseRetryAfter reads a Retry-After header in seconds or HTTP-date form.
// It returns zero when the header is absent or unparseable.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

func (s *segmentJSON) toDomain() domain.TextSegment {
	seg := domain.TextSegment{
		ID:                s.ID,
		Content:           s.Content,
		SourceFile:        s.SourceFile,
		ChapterTitle:      s.ChapterTitle,
		SceneIndex:        s.SceneIndex,
		ParagraphIndex:    s.ParagraphIndex,
		PrimaryCharacters: []string(s.PrimaryCharacters),
		Tags:              []string(s.Tags),
	}
	if s.LocationName != nil {
		if loc := strings.TrimSpace(*s.LocationName); loc != "" {
			seg.LocationName = &loc
		}
	}
	return seg
}
