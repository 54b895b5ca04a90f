// Package gamedata holds the static wiki tables the read-mostly entities are
// seeded from. The scraper refreshes entity costs; these tables only change
// with game updates.
package gamedata

import (
	"sort"

	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
)

// AreaCosts maps an area id to the resources required to complete it.
var AreaCosts = map[string]cost.List{
	"nile_delta": {
		cost.Scalar("coins", 1200),
		cost.Scalar("food", 800),
	},
	"lower_nubia": {
		cost.Scalar("coins", 2500),
		cost.Scalar("deben", 150),
	},
	"faiyum_oasis": {
		cost.Scalar("coins", 4000),
		cost.Scalar("food", 2600),
		cost.Scalar("deben", 320),
	},
	"valley_of_kings": {
		cost.Scalar("coins", 7500),
		cost.Scalar("deben", 600),
		cost.Goods(cost.GoodAmount{Type: "wool_BA", Amount: 12}),
	},
	"yellow_river": {
		cost.Scalar("coins", 9000),
		cost.Scalar("wu_zhu", 450),
	},
	"great_plain": {
		cost.Scalar("coins", 12000),
		cost.Scalar("food", 8000),
		cost.Scalar("wu_zhu", 700),
		cost.Goods(cost.GoodAmount{Type: "olive_oil_ME", Amount: 20}),
	},
}

// Area looks up one area's costs.
func Area(id string) (cost.List, bool) {
	costs, ok := AreaCosts[id]
	return costs, ok
}

// AreaIDs returns the known area ids in stable order.
func AreaIDs() []string {
	ids := make([]string, 0, len(AreaCosts))
	for id := range AreaCosts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
