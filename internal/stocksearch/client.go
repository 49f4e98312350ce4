package stocksearch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xkilldash9x/stocklens-cli/internal/config"
	"github.com/xkilldash9x/stocklens-cli/internal/normalize"
	"github.com/xkilldash9x/stocklens-cli/internal/rsc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client runs search invocations. It holds no mutable per-invocation state;
// each Search builds, sends, decodes, and normalizes independently. Only the
// rate limiter is shared, so sequential page fetches stay paced.
type Client struct {
	profile       Profile
	timeout       time.Duration
	limiter       *rate.Limiter
	log           *zap.Logger
	transportOpts []TransportOption
}

// Result is the structured outcome of a successful invocation.
type Result struct {
	Query    Query
	SearchID string
	Records  []normalize.ImageRecord
	Usage    normalize.UsageInfo
	// FirstRaw is the first image object exactly as decoded, complete field
	// set included, for schema discovery in raw mode. Nil when no images.
	FirstRaw map[string]any
	// PayloadKeys lists the payload's top-level field names.
	PayloadKeys []string
}

// New builds a client from configuration. Transport options are forwarded to
// every invocation's transport; tests use them to redirect the wire.
func New(cfg *config.Config, log *zap.Logger, opts ...TransportOption) *Client {
	return &Client{
		profile:       NewProfile(cfg),
		timeout:       cfg.Search.Timeout,
		limiter:       rate.NewLimiter(rate.Limit(cfg.Search.RateLimit), cfg.Search.RateBurst),
		log:           log,
		transportOpts: opts,
	}
}

// Search performs one complete invocation: build, send, decode, normalize.
// There are no retries; any failure ends the invocation immediately. Errors
// are typed (*TransportError, *StatusError, *PayloadNotFoundError,
// *rsc.DecodeError) so callers can branch on the outcome instead of parsing
// printed text.
func (c *Client) Search(ctx context.Context, q Query) (*Result, error) {
	searchID := uuid.New().String()
	log := c.log.With(
		zap.String("searchID", searchID),
		zap.String("query", q.Text),
		zap.Int("page", q.Page),
		zap.Bool("ai_only", q.AIOnly),
	)

	desc := Build(q, c.profile)
	log.Debug("request built", zap.String("url", desc.URL))

	transport := NewTransport(c.timeout, c.limiter, log, c.transportOpts...)
	defer transport.Close()

	status, body, err := transport.Send(ctx, desc)
	if err != nil {
		return nil, err
	}
	log.Info("search response received", zap.Int("status", status))

	payload, err := rsc.Decode(body)
	if err != nil {
		if errors.Is(err, rsc.ErrPayloadNotFound) {
			// Not fatal by itself: the session may have expired or the
			// upstream stream format may have changed. Hand back a preview
			// so the caller can inspect what actually came over the wire.
			log.Warn("payload marker absent from response body")
			return nil, &PayloadNotFoundError{Preview: truncate(body, previewLimit)}
		}
		return nil, err
	}

	records, usage := normalize.Records(payload)
	log.Info("search decoded",
		zap.Int("results", len(records)),
		zap.String("plan", usage.Plan),
	)

	result := &Result{
		Query:       q,
		SearchID:    searchID,
		Records:     records,
		Usage:       usage,
		PayloadKeys: payload.Keys,
	}
	if len(payload.Images) > 0 {
		result.FirstRaw = payload.Images[0]
	}
	return result, nil
}
