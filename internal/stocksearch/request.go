// Package stocksearch drives a single search invocation against the stock
// tracking site's internal endpoint: build the fingerprinted request, send it
// over HTTP/2, carve the payload out of the streaming body, and normalize the
// result records.
package stocksearch

import (
	"net/url"
	"strconv"

	"github.com/xkilldash9x/stocklens-cli/internal/config"
)

// Query is the immutable input of one search invocation.
type Query struct {
	Text   string
	Page   int
	AIOnly bool
}

// Descriptor is a fully specified outbound request: final URL, the exact
// header set, and the opaque session cookies.
type Descriptor struct {
	URL     string
	Headers map[string]string
	Cookies map[string]string
}

// Profile bundles everything request construction needs besides the query
// itself. It is assembled once per invocation from external configuration so
// tests can substitute synthetic values.
type Profile struct {
	BaseURL     string
	RSCTag      string
	Fingerprint config.FingerprintConfig
	Cookies     map[string]string
}

// NewProfile derives a request profile from configuration.
func NewProfile(cfg *config.Config) Profile {
	return Profile{
		BaseURL:     cfg.Search.BaseURL,
		RSCTag:      cfg.Search.RSCTag,
		Fingerprint: cfg.Fingerprint,
		Cookies:     cfg.Session.Cookies,
	}
}

// Build assembles the request descriptor for q. It is pure and deterministic:
// the same query and profile always produce the same descriptor.
//
// Parameter order mirrors the site's own links: the AI filter only when
// requested, the page only past page 1 (page 1 is the implicit default), and
// the _rsc streaming marker always last.
func Build(q Query, p Profile) Descriptor {
	u := p.BaseURL + "?q=" + url.QueryEscape(q.Text)
	if q.AIOnly {
		u += "&generative_ai=only"
	}
	if q.Page > 1 {
		u += "&page=" + strconv.Itoa(q.Page)
	}
	u += "&_rsc=" + p.RSCTag

	// The edge protection discriminates on this exact header set; it has to
	// match the captured browser request verbatim.
	headers := map[string]string{
		"accept":                 "*/*",
		"accept-language":        p.Fingerprint.AcceptLanguage,
		"cache-control":          "no-cache",
		"pragma":                 "no-cache",
		"referer":                p.Fingerprint.Referer,
		"rsc":                    "1",
		"next-router-state-tree": p.Fingerprint.RouterStateTree,
		"next-url":               p.Fingerprint.NextURL,
		"sec-ch-ua":              p.Fingerprint.SecChUA,
		"sec-ch-ua-mobile":       "?0",
		"sec-ch-ua-platform":     p.Fingerprint.SecChUAPlatform,
		"sec-fetch-dest":         "empty",
		"sec-fetch-mode":         "cors",
		"sec-fetch-site":         "same-origin",
		"user-agent":             p.Fingerprint.UserAgent,
	}

	cookies := make(map[string]string, len(p.Cookies))
	for name, value := range p.Cookies {
		cookies[name] = value
	}

	return Descriptor{URL: u, Headers: headers, Cookies: cookies}
}
