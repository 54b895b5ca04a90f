package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// NewTechnoCommand creates the techno command with subcommands
func NewTechnoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "techno",
		Short: "Manage tracked technologies",
		Long: `Manage the technologies whose research costs are tracked.

Examples:
  wikitally techno list
  wikitally techno add ba_pottery --costs '{"research_points":12}'
  wikitally techno hide ba_pottery
  wikitally techno remove ba_pottery`,
	}

	cmd.AddCommand(newTechnoListCommand())
	cmd.AddCommand(newTechnoAddCommand())
	cmd.AddCommand(newTechnoHideCommand())
	cmd.AddCommand(newTechnoRemoveCommand())

	return cmd
}

func newTechnoListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked technologies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			records, err := listKind(ctx, client, entity.KindTechnos)
			if err != nil {
				return fmt.Errorf("failed to list technos: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("No technologies tracked.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVISIBILITY\tCOSTS")
			fmt.Fprintln(w, "--\t----------\t-----")
			for _, record := range records {
				t := record.(*entity.Techno)
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, formatHidden(t.Hidden), formatCosts(t.Costs))
			}
			w.Flush()
			return nil
		},
	}
}

func newTechnoAddCommand() *cobra.Command {
	var costsJSON string

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Track a technology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var costs cost.List
			if err := json.Unmarshal([]byte(costsJSON), &costs); err != nil {
				return fmt.Errorf("invalid --costs: %w", err)
			}

			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			payload, err := relay.EncodePutEntity(&entity.Techno{ID: args[0], Costs: costs})
			if err != nil {
				return fmt.Errorf("failed to encode techno: %w", err)
			}
			if err := client.Request(ctx, relay.OpPutEntity, payload, nil); err != nil {
				return fmt.Errorf("failed to add techno: %w", err)
			}

			fmt.Printf("Techno %s tracked.\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&costsJSON, "costs", "{}", "Cost list (wiki JSON shape)")

	return cmd
}

func newTechnoHideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <id>",
		Short: "Toggle a technology's visibility in totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleHidden(entity.KindTechnos, args[0])
		},
	}
}

func newTechnoRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Stop tracking a technology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteEntity(entity.KindTechnos, args[0])
		},
	}
}
