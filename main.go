package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/stocklens-cli/cmd"
	"github.com/xkilldash9x/stocklens-cli/internal/observability"
)

func main() {
	// Ctrl+C abandons the in-flight invocation; there is no mid-flight
	// cancellation below the request deadline, so the context is the only
	// escape hatch.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
