package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// NewTradePostCommand creates the tradepost command with subcommands
func NewTradePostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tradepost",
		Short: "Manage tracked trade posts",
		Long: `Manage trade post level selections. Toggling a level on a post
recomputes its aggregate cost from the selected tiers; toggling the last
level off stops tracking the post.

Examples:
  wikitally tradepost list
  wikitally tradepost level giza unlock
  wikitally tradepost level giza lvl3
  wikitally tradepost hide giza`,
	}

	cmd.AddCommand(newTradePostListCommand())
	cmd.AddCommand(newTradePostLevelCommand())
	cmd.AddCommand(newTradePostHideCommand())

	return cmd
}

func newTradePostListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked trade posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			records, err := listKind(ctx, client, entity.KindTradePosts)
			if err != nil {
				return fmt.Errorf("failed to list trade posts: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("No trade posts tracked.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLEVELS\tVISIBILITY\tCOSTS")
			fmt.Fprintln(w, "--\t------\t----------\t-----")
			for _, record := range records {
				tp := record.(*entity.TradePost)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					tp.ID, formatLevels(tp.Levels), formatHidden(tp.Hidden), formatCosts(tp.Costs))
			}
			w.Flush()
			return nil
		},
	}
}

func newTradePostLevelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "level <id> <level>",
		Short: "Toggle a trade post level",
		Long: `Toggle one level of a trade post on or off. Levels are
unlock, lvl2, lvl3, lvl4 and lvl5.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := entity.ParseTradePostLevel(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			var result relay.ToggleLevelResult
			err = client.Request(ctx, relay.OpToggleLevel,
				&relay.ToggleLevelPayload{ID: args[0], Level: level}, &result)
			if err != nil {
				return fmt.Errorf("failed to toggle level: %w", err)
			}

			if len(result.Levels) == 0 {
				fmt.Printf("Trade post %s no longer tracked.\n", args[0])
				return nil
			}
			fmt.Printf("Trade post %s levels: %s\n", args[0], formatLevels(result.Levels))
			return nil
		},
	}
}

func newTradePostHideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <id>",
		Short: "Toggle a trade post's visibility in totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleHidden(entity.KindTradePosts, args[0])
		},
	}
}

func formatLevels(levels map[entity.TradePostLevel]bool) string {
	var active []string
	for _, level := range entity.TradePostLevels() {
		if levels[level] {
			active = append(active, string(level))
		}
	}
	if len(active) == 0 {
		return "-"
	}
	return strings.Join(active, ",")
}
