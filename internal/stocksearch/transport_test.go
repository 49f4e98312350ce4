package stocksearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// newH2TestServer starts a TLS httptest server speaking HTTP/2 and returns it
// with a transport option pointing the client at the server's certificates.
func newH2TestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, TransportOption) {
	t.Helper()
	srv := httptest.NewUnstartedServer(handler)
	srv.EnableHTTP2 = true
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv, WithRoundTripper(srv.Client().Transport)
}

func testDescriptor(url string) Descriptor {
	return Descriptor{
		URL:     url,
		Headers: map[string]string{"user-agent": "test-agent", "rsc": "1"},
		Cookies: map[string]string{"session": "opaque-token"},
	}
}

func TestTransport_SendOverHTTP2(t *testing.T) {
	var gotProto, gotUA, gotCookie string
	srv, opt := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotProto = r.Proto
		gotUA = r.Header.Get("user-agent")
		if c, err := r.Cookie("session"); err == nil {
			gotCookie = c.Value
		}
		w.Write([]byte("stream body"))
	})

	tr := NewTransport(5*time.Second, nil, zap.NewNop(), opt)
	defer tr.Close()

	status, body, err := tr.Send(context.Background(), testDescriptor(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "stream body", body)
	assert.Equal(t, "HTTP/2.0", gotProto, "the endpoint blocks HTTP/1.1 as a bot signal")
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "opaque-token", gotCookie)
}

func TestTransport_NonSuccessStatus(t *testing.T) {
	srv, opt := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(strings.Repeat("blocked ", 200))) // > 1000 bytes
	})

	tr := NewTransport(5*time.Second, nil, zap.NewNop(), opt)
	defer tr.Close()

	_, _, err := tr.Send(context.Background(), testDescriptor(srv.URL))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
	assert.Len(t, statusErr.BodySnippet, statusSnippetLimit, "error body is preserved truncated")
}

func TestTransport_ConnectionFailure(t *testing.T) {
	srv, opt := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	url := srv.URL
	srv.Close()

	tr := NewTransport(2*time.Second, nil, zap.NewNop(), opt)
	defer tr.Close()

	_, _, err := tr.Send(context.Background(), testDescriptor(url))

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.NotNil(t, transportErr.Unwrap())
}

func TestTransport_LimiterHonorsContext(t *testing.T) {
	srv, opt := newH2TestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	// Zero-rate limiter: the wait can never be satisfied, so cancellation
	// must surface as a transport error instead of hanging.
	limiter := rate.NewLimiter(0, 0)
	tr := NewTransport(5*time.Second, limiter, zap.NewNop(), opt)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := tr.Send(ctx, testDescriptor(srv.URL))
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}
