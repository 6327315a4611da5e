package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/tsukinoko-kun/unmap/logger"
	"github.com/tsukinoko-kun/unmap/meta"
)

var rootCmd = &cobra.Command{
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	Use:               "unmap",
	Short:             "Recover original source trees from JavaScript source maps",
	Version:           meta.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Verbose = flagVerbose
	},
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var flagVerbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
}
