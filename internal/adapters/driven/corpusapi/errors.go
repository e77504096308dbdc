package corpusapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("corpus api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("corpus api: status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps the status onto the domain errors.
func (e *StatusError) Unwrap() []error {
	if e.StatusCode == http.StatusTooManyRequests {
		return []error{domain.ErrRateLimited, domain.ErrTransport}
	}
	return []error{domain.ErrTransport}
}
