package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "evemarkets",
		Short: "EVE Markets CLI - Order book ingestion and arbitrage scanning",
		Long: `EVE Markets CLI maintains a local cache of regional market order books
and scans it for cross-station arbitrage opportunities.

Examples:
  evemarkets ingest --regions 10000002,10000043
  evemarkets ingest --workers 8
  evemarkets arbitrage --source 60003760
  evemarkets arbitrage --source 60003760 --dest 60008494 --min-margin 0.1
  evemarkets stations search jita`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (defaults to config.yaml in the search path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewIngestCommand())
	rootCmd.AddCommand(NewArbitrageCommand())
	rootCmd.AddCommand(NewStationsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
