package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
)

// NewTotalsCommand creates the totals command
func NewTotalsCommand() *cobra.Command {
	var compare bool

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Compute aggregate outstanding costs",
		Long: `Compute aggregate outstanding costs across all visible entities.

With --compare, each total is shown next to the difference against the last
synced resource balances: negative means you are short, positive means you
have a surplus.

Examples:
  wikitally totals
  wikitally totals --compare`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			var result relay.TotalsResult
			err = client.Request(ctx, relay.OpComputeTotals,
				&relay.ComputeTotalsPayload{CompareMode: compare}, &result)
			if err != nil {
				return fmt.Errorf("failed to compute totals: %w", err)
			}

			if len(result.Main) == 0 && len(result.Goods) == 0 {
				fmt.Println("Nothing tracked.")
				return nil
			}

			printTotalsSection("CURRENCIES", result.Main, diffMap(result.Differences, true), result.IsCompareMode)
			printTotalsSection("GOODS", result.Goods, diffMap(result.Differences, false), result.IsCompareMode)
			return nil
		},
	}

	cmd.Flags().BoolVar(&compare, "compare", false, "Show differences against synced resources")

	return cmd
}

func diffMap(diffs *relay.TotalsMaps, main bool) map[string]float64 {
	if diffs == nil {
		return nil
	}
	if main {
		return diffs.Main
	}
	return diffs.Goods
}

func printTotalsSection(title string, totals, diffs map[string]float64, compare bool) {
	if len(totals) == 0 {
		return
	}

	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if compare {
		fmt.Fprintln(w, "  RESOURCE\tNEEDED\tDIFFERENCE")
		for _, key := range keys {
			fmt.Fprintf(w, "  %s\t%s\t%+.0f\n", key, formatAmount(totals[key]), diffs[key])
		}
	} else {
		fmt.Fprintln(w, "  RESOURCE\tNEEDED")
		for _, key := range keys {
			fmt.Fprintf(w, "  %s\t%s\n", key, formatAmount(totals[key]))
		}
	}
	w.Flush()
	fmt.Println()
}
