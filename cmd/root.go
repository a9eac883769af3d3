// Package cmd defines the paperhound command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paperhound",
		Short: "Resolve DOIs to open access PDFs and bibliographic metadata.",
		Long: `paperhound races a set of open access indexes, preprint servers, and
repositories to find a downloadable PDF for a DOI, and merges
bibliographic metadata from whichever sources answer in time.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
