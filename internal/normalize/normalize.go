// Package normalize turns the loosely typed payload records into a defined
// result shape. Every field is read independently with its own default, so a
// missing or oddly typed field never drops a record or aborts a batch.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/xkilldash9x/stocklens-cli/internal/rsc"
)

const (
	// Unknown is the sentinel for absent string fields.
	Unknown = "N/A"
	// UnknownCount is the sentinel for absent usage counters.
	UnknownCount = "?"
	// KeywordDisplayLimit bounds the keyword prefix shown by presenters; the
	// true count is retained separately on the record.
	KeywordDisplayLimit = 20
)

// dateLayout renders creation dates as "05 Jan 2024".
const dateLayout = "02 Jan 2006"

// ImageRecord is one normalized search result. Fields the server omitted
// carry their documented defaults; a record with nothing recoverable is still
// a valid record.
type ImageRecord struct {
	ID           string
	Title        string
	IsAI         bool
	Downloads    string
	Premium      string
	Creator      string
	CreatorID    string
	MediaType    string
	Category     string
	ContentType  string
	Dimensions   string
	CreationDate string // formatted, or verbatim when unparseable; empty when absent
	Keywords     []string
	KeywordCount int
	ThumbnailURL string
}

// UsageInfo is the account usage metadata attached to a search response.
type UsageInfo struct {
	Plan          string
	SearchesUsed  string
	SearchesLimit string
}

// Records converts a decoded payload into its result records and usage info.
// Server ordering is preserved exactly; results are never re-sorted.
func Records(p *rsc.Payload) ([]ImageRecord, UsageInfo) {
	records := make([]ImageRecord, 0, len(p.Images))
	for _, img := range p.Images {
		records = append(records, Record(img))
	}
	return records, Usage(p.UsageData)
}

// Record normalizes a single loosely typed image object.
func Record(img map[string]any) ImageRecord {
	keywords := Keywords(img["keywords"])
	return ImageRecord{
		ID:           stringField(img, "id", Unknown),
		Title:        stringField(img, "title", Unknown),
		IsAI:         boolField(img, "isAI"),
		Downloads:    stringField(img, "downloads", Unknown),
		Premium:      stringField(img, "premium", Unknown),
		Creator:      stringField(img, "creator", Unknown),
		CreatorID:    stringField(img, "creatorId", ""),
		MediaType:    stringField(img, "mediaType", Unknown),
		Category:     stringField(img, "category", Unknown),
		ContentType:  stringField(img, "contentType", Unknown),
		Dimensions:   stringField(img, "dimensions", Unknown),
		CreationDate: FormatDate(stringField(img, "creationDate", "")),
		Keywords:     keywords,
		KeywordCount: len(keywords),
		ThumbnailURL: stringField(img, "thumbnailUrl", Unknown),
	}
}

// Usage normalizes the usage metadata; each field defaults independently.
func Usage(m map[string]any) UsageInfo {
	return UsageInfo{
		Plan:          stringField(m, "plan", Unknown),
		SearchesUsed:  stringField(m, "searchesUsed", UnknownCount),
		SearchesLimit: stringField(m, "searchesLimit", UnknownCount),
	}
}

// Keywords accepts either a comma-delimited string or an already ordered
// sequence and returns trimmed, non-empty entries in their original order.
func Keywords(v any) []string {
	var parts []string
	switch kw := v.(type) {
	case string:
		parts = strings.Split(kw, ",")
	case []any:
		for _, el := range kw {
			parts = append(parts, coerceString(el))
		}
	case []string:
		parts = kw
	default:
		return nil
	}

	var out []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// FormatDate renders an ISO-8601 timestamp (trailing Z accepted as UTC) as
// "02 Jan 2006". Anything unparseable is returned unchanged rather than
// failing; an empty input stays empty.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return s
}

// stringField reads m[key] as a display string, coercing the JSON scalar
// types the endpoint is known to flip between. Missing or unusable values
// yield the field's own default.
func stringField(m map[string]any, key, fallback string) string {
	if m == nil {
		return fallback
	}
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	if s := coerceString(v); s != "" {
		return s
	}
	return fallback
}

func boolField(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
