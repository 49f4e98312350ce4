package stocksearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/stocklens-cli/internal/config"
)

func testProfile() Profile {
	return Profile{
		BaseURL: "https://example.test/search",
		RSCTag:  "abc12",
		Fingerprint: config.FingerprintConfig{
			UserAgent:       "test-agent",
			AcceptLanguage:  "en-GB,en;q=0.9",
			SecChUA:         `"Testium";v="1"`,
			SecChUAPlatform: `"Linux"`,
			Referer:         "https://example.test/search",
			NextURL:         "/search",
			RouterStateTree: "%5Btree%5D",
		},
		Cookies: map[string]string{"session": "opaque-token"},
	}
}

func TestBuild_URLShape(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{
			name: "page one is implicit",
			q:    Query{Text: "nature", Page: 1},
			want: "https://example.test/search?q=nature&_rsc=abc12",
		},
		{
			name: "page parameter only past page one",
			q:    Query{Text: "nature", Page: 3},
			want: "https://example.test/search?q=nature&page=3&_rsc=abc12",
		},
		{
			name: "ai filter before page",
			q:    Query{Text: "nature", Page: 2, AIOnly: true},
			want: "https://example.test/search?q=nature&generative_ai=only&page=2&_rsc=abc12",
		},
		{
			name: "query is url encoded",
			q:    Query{Text: "mountain lake & sky", Page: 1},
			want: "https://example.test/search?q=mountain+lake+%26+sky&_rsc=abc12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Build(tt.q, testProfile())
			assert.Equal(t, tt.want, d.URL)
		})
	}
}

func TestBuild_FingerprintHeaders(t *testing.T) {
	d := Build(Query{Text: "nature", Page: 1}, testProfile())

	assert.Equal(t, "test-agent", d.Headers["user-agent"])
	assert.Equal(t, "en-GB,en;q=0.9", d.Headers["accept-language"])
	assert.Equal(t, "1", d.Headers["rsc"])
	assert.Equal(t, "%5Btree%5D", d.Headers["next-router-state-tree"])
	assert.Equal(t, "/search", d.Headers["next-url"])
	assert.Equal(t, "*/*", d.Headers["accept"])
	assert.Equal(t, "same-origin", d.Headers["sec-fetch-site"])
	assert.Equal(t, `"Testium";v="1"`, d.Headers["sec-ch-ua"])
}

func TestBuild_Deterministic(t *testing.T) {
	q := Query{Text: "cats", Page: 2, AIOnly: true}
	first := Build(q, testProfile())
	second := Build(q, testProfile())
	assert.Equal(t, first, second)
}

func TestBuild_CookiesAreCopiedNotShared(t *testing.T) {
	profile := testProfile()
	d := Build(Query{Text: "nature", Page: 1}, profile)

	require.Equal(t, "opaque-token", d.Cookies["session"])
	d.Cookies["session"] = "mutated"
	assert.Equal(t, "opaque-token", profile.Cookies["session"])
}

func TestNewProfile_FromConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Session.Cookies = map[string]string{"auth": "x"}

	p := NewProfile(cfg)
	assert.Equal(t, cfg.Search.BaseURL, p.BaseURL)
	assert.Equal(t, cfg.Search.RSCTag, p.RSCTag)
	assert.Equal(t, cfg.Fingerprint.UserAgent, p.Fingerprint.UserAgent)
	assert.Equal(t, "x", p.Cookies["auth"])
}
