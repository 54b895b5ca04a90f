package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	daemonAddr string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wikitally",
		Short: "Wikitally CLI - Interact with the wikitally daemon",
		Long: `Wikitally CLI tracks outstanding costs of buildings, technologies,
areas and trade posts, and compares them against your synced resource balances.
The CLI communicates with the daemon over its websocket gateway.

Examples:
  wikitally building list
  wikitally building set-qty statue_gardens_ba 4
  wikitally tradepost level giza lvl2
  wikitally totals --compare
  wikitally preset load campaign.json
  wikitally watch buildings`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&daemonAddr, "addr", getDefaultAddress(),
		"Daemon gateway address (host:port)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewBuildingCommand())
	rootCmd.AddCommand(NewTechnoCommand())
	rootCmd.AddCommand(NewTradePostCommand())
	rootCmd.AddCommand(NewAreaCommand())
	rootCmd.AddCommand(NewTotalsCommand())
	rootCmd.AddCommand(NewPresetCommand())
	rootCmd.AddCommand(NewResourcesCommand())
	rootCmd.AddCommand(NewSelectionsCommand())
	rootCmd.AddCommand(NewWatchCommand())

	return rootCmd
}

// getDefaultAddress returns the default gateway address
func getDefaultAddress() string {
	if addr := os.Getenv("WIKITALLY_ADDR"); addr != "" {
		return addr
	}
	return "localhost:7474"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
