package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
)

// NewSelectionsCommand creates the selections command with subcommands
func NewSelectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selections",
		Short: "Manage per-era workshop selections",
		Long: `Manage which workshop good fills each priority slot per era.
Compare mode resolves slot-keyed goods totals through these selections.

Examples:
  wikitally selections show
  wikitally selections set BA --primary wool --secondary alabaster`,
	}

	cmd.AddCommand(newSelectionsShowCommand())
	cmd.AddCommand(newSelectionsSetCommand())

	return cmd
}

func newSelectionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show workshop selections per era",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			var result relay.SelectionsResult
			if err := client.Request(ctx, relay.OpGetSelections, nil, &result); err != nil {
				return fmt.Errorf("failed to fetch selections: %w", err)
			}

			if len(result.Selections) == 0 {
				fmt.Println("No workshop selections set.")
				return nil
			}

			eras := make([]string, 0, len(result.Selections))
			for era := range result.Selections {
				eras = append(eras, string(era))
			}
			sort.Strings(eras)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ERA\tPRIMARY\tSECONDARY\tTERTIARY")
			fmt.Fprintln(w, "---\t-------\t---------\t--------")
			for _, era := range eras {
				row := result.Selections[goods.Era(era)]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					era, orDash(row.Primary), orDash(row.Secondary), orDash(row.Tertiary))
			}
			w.Flush()
			return nil
		},
	}
}

func newSelectionsSetCommand() *cobra.Command {
	var primary, secondary, tertiary string

	cmd := &cobra.Command{
		Use:   "set <era>",
		Short: "Set the workshop selection for one era",
		Long: `Set which workshop goods fill the priority slots of one era.
Eras are SA, BA, ME, CG, ER, RE, BE, AF, FA and IE.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			era, err := goods.ParseEra(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			err = client.Request(ctx, relay.OpSetSelection, &relay.SetSelectionPayload{
				Era:       era,
				Primary:   primary,
				Secondary: secondary,
				Tertiary:  tertiary,
			}, nil)
			if err != nil {
				return fmt.Errorf("failed to set selection: %w", err)
			}

			fmt.Printf("Selection for %s updated.\n", era)
			return nil
		},
	}

	cmd.Flags().StringVar(&primary, "primary", "", "Primary workshop good")
	cmd.Flags().StringVar(&secondary, "secondary", "", "Secondary workshop good")
	cmd.Flags().StringVar(&tertiary, "tertiary", "", "Tertiary workshop good")

	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
