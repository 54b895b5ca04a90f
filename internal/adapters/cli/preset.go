package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
)

// NewPresetCommand creates the preset command
func NewPresetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Load entity presets in bulk",
	}

	cmd.AddCommand(newPresetLoadCommand())

	return cmd
}

func newPresetLoadCommand() *cobra.Command {
	var wholesale bool

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load a building/techno preset from a JSON file",
		Long: `Load a preset file adding buildings and technologies in bulk.
Watchers receive a single coalesced update per collection once the whole
preset is committed.

The file holds {"buildings": [...], "technos": [...]} where each building
carries id, costs, quantity and maxQty, and each techno carries id and costs.

With --wholesale the current buildings and technos are cleared first.

Examples:
  wikitally preset load campaign.json
  wikitally preset load campaign.json --wholesale`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read preset file: %w", err)
			}

			var payload relay.LoadPresetPayload
			if err := json.Unmarshal(data, &payload); err != nil {
				return fmt.Errorf("failed to parse preset file: %w", err)
			}
			payload.Wholesale = wholesale

			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			var result relay.LoadPresetResult
			if err := client.Request(ctx, relay.OpLoadPreset, &payload, &result); err != nil {
				return fmt.Errorf("failed to load preset: %w", err)
			}

			fmt.Printf("Preset loaded: %d buildings, %d technos.\n",
				result.BuildingsAdded, result.TechnosAdded)
			return nil
		},
	}

	cmd.Flags().BoolVar(&wholesale, "wholesale", false, "Clear existing buildings and technos first")

	return cmd
}
