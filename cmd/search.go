package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xkilldash9x/stocklens-cli/internal/observability"
	"github.com/xkilldash9x/stocklens-cli/internal/reporting"
	"github.com/xkilldash9x/stocklens-cli/internal/stocksearch"
	"go.uber.org/zap"
)

const defaultQuery = "nature"

// newSearchCmd creates and configures the `search` command.
func newSearchCmd() *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Runs a stock search and prints the decoded result set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			query := defaultQuery
			if len(args) > 0 {
				query = args[0]
			}
			page, _ := cmd.Flags().GetInt("page")
			pages, _ := cmd.Flags().GetInt("pages")
			aiOnly, _ := cmd.Flags().GetBool("ai-only")
			rawMode, _ := cmd.Flags().GetBool("raw")

			if page < 1 {
				return fmt.Errorf("--page must be >= 1, got %d", page)
			}
			if pages < 1 {
				return fmt.Errorf("--pages must be >= 1, got %d", pages)
			}
			if len(cfg.Session.Cookies) == 0 {
				logger.Warn("no session cookies configured; the endpoint will likely serve a login redirect")
			}
			if cmd.Flags().Changed("timeout") {
				timeout, _ := cmd.Flags().GetDuration("timeout")
				cfg.Search.Timeout = timeout
			}

			client := stocksearch.New(cfg, logger)
			presenter := reporting.New(cmd.OutOrStdout())

			// Multi-page retrieval is plain sequential invocations; each page
			// stands alone and a failure ends the run at that page.
			for i := 0; i < pages; i++ {
				q := stocksearch.Query{Text: query, Page: page + i, AIOnly: aiOnly}
				presenter.Searching(q.Text, q.Page)

				res, err := client.Search(ctx, q)
				if err != nil {
					return presentFailure(presenter, logger, err)
				}
				presenter.Report(res, rawMode)
			}
			return nil
		},
	}

	searchCmd.Flags().IntP("page", "p", 1, "Result page to fetch (page 1 is the site default)")
	searchCmd.Flags().Int("pages", 1, "Number of sequential pages to fetch starting at --page")
	searchCmd.Flags().Bool("ai-only", false, "Restrict results to AI-generated content")
	searchCmd.Flags().Bool("raw", false, "Dump the first record's complete field set for schema discovery")
	searchCmd.Flags().Duration("timeout", 0, "Overall request deadline (overrides config/env)")

	return searchCmd
}

// presentFailure turns a typed search error into diagnostics. The error is
// returned unchanged so the process still exits non-zero; a caller scripting
// around the CLI can tell a failed invocation from an empty result.
func presentFailure(presenter *reporting.Presenter, logger *zap.Logger, err error) error {
	var notFound *stocksearch.PayloadNotFoundError
	var status *stocksearch.StatusError
	var transport *stocksearch.TransportError

	switch {
	case errors.As(err, &notFound):
		presenter.Preview(notFound.Preview)
	case errors.As(err, &status):
		logger.Error("endpoint rejected the request",
			zap.Int("status", status.Status),
			zap.String("body_snippet", status.BodySnippet),
		)
	case errors.As(err, &transport):
		logger.Error("connection failed", zap.Error(transport.Err))
	default:
		logger.Error("search failed", zap.Error(err))
	}
	return err
}
