// Package reporting renders normalized search results for a human. It is a
// thin layer over the structured outcome; nothing here feeds back into the
// search pipeline.
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/xkilldash9x/stocklens-cli/internal/normalize"
	"github.com/xkilldash9x/stocklens-cli/internal/stocksearch"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Presenter writes textual reports to a single output.
type Presenter struct {
	w io.Writer
}

// New creates a Presenter writing to w.
func New(w io.Writer) *Presenter {
	return &Presenter{w: w}
}

// Searching announces the invocation before the request goes out.
func (p *Presenter) Searching(query string, page int) {
	fmt.Fprintf(p.w, "Searching for: %s (Page %d)...\n", query, page)
}

// Report renders the result set. In raw mode it first dumps the complete
// field set of the first record, exactly as decoded, for schema discovery.
func (p *Presenter) Report(res *stocksearch.Result, rawMode bool) {
	fmt.Fprintf(p.w, "Page %d — Found %d results (Plan: %s, Searches: %s/%s)\n\n",
		res.Query.Page, len(res.Records),
		res.Usage.Plan, res.Usage.SearchesUsed, res.Usage.SearchesLimit)

	if rawMode && res.FirstRaw != nil {
		p.rawDump(res)
	}

	for idx, rec := range res.Records {
		p.record(idx+1, rec)
	}
}

// Preview is the fallback when no payload was found in the response: show
// the leading chunk of the raw body so a format change or login redirect is
// visible at a glance.
func (p *Presenter) Preview(preview string) {
	fmt.Fprintln(p.w, "Could not find image data in the response. The stream format might have changed.")
	fmt.Fprintln(p.w, "\nResponse Preview:")
	fmt.Fprintln(p.w, preview)
}

func (p *Presenter) rawDump(res *stocksearch.Result) {
	divider := strings.Repeat("=", 60)
	fmt.Fprintln(p.w, divider)
	fmt.Fprintln(p.w, "RAW JSON - First Image (all available fields):")
	fmt.Fprintln(p.w, divider)

	pretty, err := json.MarshalIndent(res.FirstRaw, "", "  ")
	if err != nil {
		fmt.Fprintf(p.w, "<failed to render: %v>\n", err)
	} else {
		fmt.Fprintln(p.w, string(pretty))
	}
	fmt.Fprintln(p.w, divider)
	fmt.Fprintf(p.w, "\nTop-level data keys: %s\n\n", strings.Join(res.PayloadKeys, ", "))
}

func (p *Presenter) record(position int, rec normalize.ImageRecord) {
	title := rec.Title
	if rec.IsAI {
		title += " [AI-Generated]"
	}

	creator := rec.Creator
	if rec.CreatorID != "" {
		creator = fmt.Sprintf("%s (ID: %s)", rec.Creator, rec.CreatorID)
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("#%d %s", position, title)
	t.AppendRows([]table.Row{
		{"Stock ID", rec.ID},
		{"Downloads", rec.Downloads},
		{"Premium", rec.Premium},
		{"Creator", creator},
		{"Type", fmt.Sprintf("%s (%s)", rec.MediaType, rec.ContentType)},
		{"Category", rec.Category},
		{"Dimensions", rec.Dimensions},
	})
	if rec.CreationDate != "" {
		t.AppendRow(table.Row{"Upload Date", rec.CreationDate})
	}
	if rec.KeywordCount > 0 {
		shown := rec.Keywords
		if len(shown) > normalize.KeywordDisplayLimit {
			shown = shown[:normalize.KeywordDisplayLimit]
		}
		t.AppendRow(table.Row{"Keywords", strings.Join(shown, ", ")})
		t.AppendRow(table.Row{"KW Count", rec.KeywordCount})
	}
	t.AppendRows([]table.Row{
		{"Thumbnail", rec.ThumbnailURL},
		{"Stock URL", "https://stock.adobe.com/" + rec.ID},
	})
	t.Render()
	fmt.Fprintln(p.w)
}
