package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <kind>",
		Short: "Stream collection updates from the daemon",
		Long: `Stream full-collection updates for one entity kind until
interrupted. Kinds are buildings, technos, areas and trade_posts.

Example:
  wikitally watch buildings`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entity.ParseKind(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			client, err := dialDaemon(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			unsubscribe := client.Watch(kind, func(records []entity.Record) {
				fmt.Printf("[%s] %s: %d entities\n",
					time.Now().Format("15:04:05"), kind, len(records))
				for _, record := range records {
					fmt.Printf("  %s (%s)\n", record.EntityID(), formatHidden(record.IsHidden()))
				}
			})
			defer unsubscribe()

			fmt.Printf("Watching %s, press Ctrl+C to stop.\n", kind)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			return nil
		},
	}
}
