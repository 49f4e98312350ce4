package stocksearch

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"
)

// Transport executes exactly one GET per Send over HTTP/2. The endpoint's
// protection layer treats HTTP/1.1 as a bot signal, so the protocol is forced
// rather than negotiated. A Transport is scoped to one invocation; Close
// releases its connections on every exit path.
type Transport struct {
	http *resty.Client
	log  *zap.Logger
}

// TransportOption customizes a Transport at construction time.
type TransportOption func(*Transport)

// WithRoundTripper swaps the underlying round tripper. Tests use this to
// point the client at an httptest server's TLS setup.
func WithRoundTripper(rt http.RoundTripper) TransportOption {
	return func(t *Transport) {
		t.http.SetTransport(rt)
	}
}

// NewTransport builds an invocation-scoped transport. The limiter paces
// sequential multi-page fetches; pass nil to send unthrottled.
func NewTransport(timeout time.Duration, limiter *rate.Limiter, log *zap.Logger, opts ...TransportOption) *Transport {
	httpClient := resty.New()
	httpClient.SetTimeout(timeout)
	httpClient.SetTransport(&http2.Transport{})

	if limiter != nil {
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	t := &Transport{http: httpClient, log: log}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send executes the described request and returns the response status and
// body. Connection or TLS failure yields a *TransportError; a non-2xx status
// yields a *StatusError with a truncated body snippet.
func (t *Transport) Send(ctx context.Context, d Descriptor) (int, string, error) {
	req := t.http.R().
		SetContext(ctx).
		SetHeaders(d.Headers)
	for name, value := range d.Cookies {
		req.SetCookie(&http.Cookie{Name: name, Value: value})
	}

	res, err := req.Get(d.URL)
	if err != nil {
		t.log.Debug("request failed before a response arrived", zap.Error(err))
		return 0, "", &TransportError{Err: err}
	}

	body := string(res.Body())
	t.log.Debug("response received",
		zap.Int("status", res.StatusCode()),
		zap.Int("body_bytes", len(body)),
		zap.Duration("elapsed", res.Time()),
	)

	if !res.IsSuccess() {
		return res.StatusCode(), "", &StatusError{
			Status:      res.StatusCode(),
			BodySnippet: truncate(body, statusSnippetLimit),
		}
	}
	return res.StatusCode(), body, nil
}

// Close releases the transport's connections.
func (t *Transport) Close() {
	t.http.GetClient().CloseIdleConnections()
}
