package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
)

// NewResourcesCommand creates the resources command with subcommands
func NewResourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Sync and inspect resource balances",
		Long: `Sync the snapshot of live resource balances used by compare mode.

Examples:
  wikitally resources sync balances.json
  wikitally resources show`,
	}

	cmd.AddCommand(newResourcesSyncCommand())
	cmd.AddCommand(newResourcesShowCommand())

	return cmd
}

func newResourcesSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <file>",
		Short: "Replace the resource snapshot from a JSON file",
		Long: `Replace the whole resource snapshot with the rows in the file.
The file holds an array of {"id": ..., "amount": ..., "type": ...} rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read snapshot file: %w", err)
			}

			var rows []relay.SnapshotRow
			if err := json.Unmarshal(data, &rows); err != nil {
				return fmt.Errorf("failed to parse snapshot file: %w", err)
			}

			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			var result relay.CountResult
			err = client.Request(ctx, relay.OpReplaceSnapshot,
				&relay.ReplaceSnapshotPayload{Rows: rows}, &result)
			if err != nil {
				return fmt.Errorf("failed to sync resources: %w", err)
			}

			fmt.Printf("Resource snapshot replaced: %d balances.\n", result.Count)
			return nil
		},
	}
}

func newResourcesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current resource snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			var result relay.SnapshotResult
			if err := client.Request(ctx, relay.OpGetSnapshot, nil, &result); err != nil {
				return fmt.Errorf("failed to fetch snapshot: %w", err)
			}

			if len(result.Rows) == 0 {
				fmt.Println("No resource snapshot synced.")
				return nil
			}

			sort.Slice(result.Rows, func(i, j int) bool { return result.Rows[i].ID < result.Rows[j].ID })

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tAMOUNT")
			fmt.Fprintln(w, "--\t----\t------")
			for _, row := range result.Rows {
				fmt.Fprintf(w, "%s\t%s\t%s\n", row.ID, row.Type, formatAmount(row.Amount))
			}
			w.Flush()
			return nil
		},
	}
}
