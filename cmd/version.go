package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the application version.
// Intended to be set at build time using ldflags:
// go build -ldflags "-X github.com/xkilldash9x/stocklens-cli/cmd.Version=1.0.0"
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the stocklens-cli version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "stocklens-cli", Version)
		},
	}
}
