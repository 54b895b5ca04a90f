package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// NewBuildingCommand creates the building command with subcommands
func NewBuildingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "building",
		Short: "Manage tracked buildings",
		Long: `Manage the buildings whose outstanding costs are tracked.

Examples:
  wikitally building list
  wikitally building add statue_gardens_ba --qty 2 --max 8 --costs '{"coins":100,"goods":[{"type":"wool","amount":5}]}'
  wikitally building set-qty statue_gardens_ba 4
  wikitally building hide statue_gardens_ba
  wikitally building remove statue_gardens_ba`,
	}

	cmd.AddCommand(newBuildingListCommand())
	cmd.AddCommand(newBuildingAddCommand())
	cmd.AddCommand(newBuildingSetQtyCommand())
	cmd.AddCommand(newBuildingHideCommand())
	cmd.AddCommand(newBuildingRemoveCommand())

	return cmd
}

func newBuildingListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked buildings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			records, err := listKind(ctx, client, entity.KindBuildings)
			if err != nil {
				return fmt.Errorf("failed to list buildings: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("No buildings tracked.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tQTY\tMAX\tVISIBILITY\tCOSTS")
			fmt.Fprintln(w, "--\t---\t---\t----------\t-----")
			for _, record := range records {
				b := record.(*entity.Building)
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
					b.ID, b.Quantity, b.MaxQty, formatHidden(b.Hidden), formatCosts(b.Costs))
			}
			w.Flush()
			return nil
		},
	}
}

func newBuildingAddCommand() *cobra.Command {
	var quantity, maxQty int
	var costsJSON string

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Track a building",
		Long: `Track a building by id, with its per-unit cost list in the wiki
JSON shape: scalar currencies as top-level keys, workshop goods under "goods".

Example:
  wikitally building add statue_gardens_ba --qty 2 --max 8 \
    --costs '{"coins":100,"goods":[{"type":"wool","amount":5}]}'`,
		Args: cobra.ExactArgs(1),
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

			payload, err := relay.EncodePutEntity(&entity.Building{
				ID:       args[0],
				Costs:    costs,
				Quantity: entity.ClampQuantity(quantity, maxQty),
				MaxQty:   maxQty,
			})
			if err != nil {
				return fmt.Errorf("failed to encode building: %w", err)
			}
			if err := client.Request(ctx, relay.OpPutEntity, payload, nil); err != nil {
				return fmt.Errorf("failed to add building: %w", err)
			}

			fmt.Printf("Building %s tracked.\n", args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&quantity, "qty", 1, "Number of copies to build")
	cmd.Flags().IntVar(&maxQty, "max", 1, "Maximum buildable copies")
	cmd.Flags().StringVar(&costsJSON, "costs", "{}", "Per-unit cost list (wiki JSON shape)")

	return cmd
}

func newBuildingSetQtyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty <id> <quantity>",
		Short: "Set the quantity of a tracked building",
		Long: `Set how many copies of a building are planned. Values outside
[1, max] are clamped, not rejected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be an integer: %w", err)
			}

			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			var result relay.SetQuantityResult
			err = client.Request(ctx, relay.OpSetQuantity,
				&relay.SetQuantityPayload{ID: args[0], Quantity: quantity}, &result)
			if err != nil {
				return fmt.Errorf("failed to set quantity: %w", err)
			}

			fmt.Printf("Building %s quantity is now %d.\n", args[0], result.Quantity)
			return nil
		},
	}
}

func newBuildingHideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <id>",
		Short: "Toggle a building's visibility in totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleHidden(entity.KindBuildings, args[0])
		},
	}
}

func newBuildingRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Stop tracking a building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteEntity(entity.KindBuildings, args[0])
		},
	}
}

// toggleHidden flips the hidden flag of one entity and reports the new state.
func toggleHidden(kind entity.Kind, id string) error {
	ctx := context.Background()
	client, err := dialDaemon(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	var result relay.ToggleHiddenResult
	err = client.Request(ctx, relay.OpToggleHidden,
		&relay.ToggleHiddenPayload{Kind: kind, ID: id}, &result)
	if err != nil {
		return fmt.Errorf("failed to toggle visibility: %w", err)
	}

	fmt.Printf("%s %s is now %s.\n", kind, id, formatHidden(result.Hidden))
	return nil
}

// deleteEntity removes one entity from its collection.
func deleteEntity(kind entity.Kind, id string) error {
	ctx := context.Background()
	client, err := dialDaemon(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.Request(ctx, relay.OpDeleteEntity,
		&relay.DeleteEntityPayload{Kind: kind, ID: id}, nil)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", id, err)
	}

	fmt.Printf("%s %s removed.\n", kind, id)
	return nil
}
