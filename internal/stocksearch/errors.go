package stocksearch

import (
	"fmt"

	"github.com/xkilldash9x/stocklens-cli/internal/rsc"
)

const (
	// statusSnippetLimit bounds the body excerpt kept on an HTTP error.
	statusSnippetLimit = 1000
	// previewLimit bounds the raw body preview kept when the payload marker
	// is missing, enough to eyeball a format change or a login redirect.
	previewLimit = 3000
)

// TransportError reports a connection-level failure (DNS, TCP, TLS) before
// any response was received. Never retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response. The body is preserved truncated for
// diagnostics.
type StatusError struct {
	Status      int
	BodySnippet string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Status)
}

// PayloadNotFoundError reports that the response arrived intact but carried
// no recognizable payload, typically an expired session or an upstream format
// change. Preview holds the leading chunk of the raw body for inspection.
type PayloadNotFoundError struct {
	Preview string
}

func (e *PayloadNotFoundError) Error() string {
	return "no search payload in response body"
}

// Unwrap ties the error to the decoder's sentinel so callers can use
// errors.Is(err, rsc.ErrPayloadNotFound).
func (e *PayloadNotFoundError) Unwrap() error { return rsc.ErrPayloadNotFound }

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
