package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// dialDaemon connects to the daemon gateway using the --addr flag.
func dialDaemon(ctx context.Context) (*relay.GatewayClient, error) {
	client, err := relay.Dial(ctx, daemonAddr)
	if err != nil {
		return nil, fmt.Errorf("daemon not reachable at %s (is it running?): %w", daemonAddr, err)
	}
	return client, nil
}

// listKind fetches one full collection from the daemon.
func listKind(ctx context.Context, client relay.Client, kind entity.Kind) ([]entity.Record, error) {
	var raw json.RawMessage
	err := client.Request(ctx, relay.OpListEntities, &relay.ListEntitiesPayload{Kind: kind}, &raw)
	if err != nil {
		return nil, err
	}
	records, err := relay.DecodeRecords(kind, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return records, nil
}

// formatCosts renders a cost list as "coins=300 wool=15" with scalar parts
// first and goods last, matching the codec ordering.
func formatCosts(costs cost.List) string {
	var scalars, goodsParts []string
	for _, c := range costs {
		switch c.Kind() {
		case cost.KindScalar:
			scalars = append(scalars, fmt.Sprintf("%s=%s", c.Name(), formatAmount(c.Amount())))
		case cost.KindGoods:
			for _, g := range c.Goods() {
				goodsParts = append(goodsParts, fmt.Sprintf("%s=%s", g.Type, formatAmount(g.Amount)))
			}
		}
	}
	sort.Strings(scalars)
	sort.Strings(goodsParts)
	parts := append(scalars, goodsParts...)
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%d", int64(amount))
	}
	return fmt.Sprintf("%.2f", amount)
}

func formatHidden(hidden bool) string {
	if hidden {
		return "hidden"
	}
	return "shown"
}
