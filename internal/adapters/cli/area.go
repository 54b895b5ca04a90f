package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/gamedata"
)

// NewAreaCommand creates the area command with subcommands
func NewAreaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "area",
		Short: "Manage tracked expedition areas",
		Long: `Manage expedition areas. Areas are opt-in: toggling one on seeds
it from the built-in area table, toggling it again stops tracking it.

Examples:
  wikitally area list
  wikitally area toggle nile_delta
  wikitally area known`,
	}

	cmd.AddCommand(newAreaListCommand())
	cmd.AddCommand(newAreaToggleCommand())
	cmd.AddCommand(newAreaKnownCommand())

	return cmd
}

func newAreaListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked areas",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			records, err := listKind(ctx, client, entity.KindAreas)
			if err != nil {
				return fmt.Errorf("failed to list areas: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("No areas tracked.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVISIBILITY\tCOSTS")
			fmt.Fprintln(w, "--\t----------\t-----")
			for _, record := range records {
				a := record.(*entity.Area)
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, formatHidden(a.Hidden), formatCosts(a.Costs))
			}
			w.Flush()
			return nil
		},
	}
}

func newAreaToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Start or stop tracking an area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			var result relay.ToggleAreaResult
			err = client.Request(ctx, relay.OpToggleArea,
				&relay.ToggleAreaPayload{ID: args[0]}, &result)
			if err != nil {
				return fmt.Errorf("failed to toggle area: %w", err)
			}

			if result.Tracked {
				fmt.Printf("Area %s is now tracked.\n", args[0])
			} else {
				fmt.Printf("Area %s is no longer tracked.\n", args[0])
			}
			return nil
		},
	}
}

func newAreaKnownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "known",
		Short: "List areas available to track",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCOSTS")
			fmt.Fprintln(w, "--\t-----")
			for _, id := range gamedata.AreaIDs() {
				costs, _ := gamedata.Area(id)
				fmt.Fprintf(w, "%s\t%s\n", id, formatCosts(costs))
			}
			w.Flush()
			return nil
		},
	}
}
