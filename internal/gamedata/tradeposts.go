package gamedata

import (
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// TradePostTiers maps a trade post id to the cost of each of its five
// reward tiers. A trade post record's Costs is always the sum over exactly
// the tiers the user marked.
var TradePostTiers = map[string]map[entity.TradePostLevel]cost.List{
	"giza": {
		entity.LevelUnlock: {cost.Scalar("deben", 100)},
		entity.LevelLvl2:   {cost.Scalar("deben", 250)},
		entity.LevelLvl3:   {cost.Scalar("deben", 500), cost.Scalar("coins", 1000)},
		entity.LevelLvl4:   {cost.Scalar("deben", 900), cost.Scalar("coins", 2500)},
		entity.LevelLvl5:   {cost.Scalar("deben", 1500), cost.Scalar("coins", 6000)},
	},
	"thebes": {
		entity.LevelUnlock: {cost.Scalar("deben", 180)},
		entity.LevelLvl2:   {cost.Scalar("deben", 400)},
		entity.LevelLvl3:   {cost.Scalar("deben", 750), cost.Scalar("food", 1500)},
		entity.LevelLvl4:   {cost.Scalar("deben", 1200), cost.Scalar("food", 3200)},
		entity.LevelLvl5:   {cost.Scalar("deben", 2000), cost.Scalar("food", 7000)},
	},
	"luoyang": {
		entity.LevelUnlock: {cost.Scalar("wu_zhu", 120)},
		entity.LevelLvl2:   {cost.Scalar("wu_zhu", 300)},
		entity.LevelLvl3:   {cost.Scalar("wu_zhu", 650), cost.Scalar("coins", 1800)},
		entity.LevelLvl4:   {cost.Scalar("wu_zhu", 1100), cost.Scalar("coins", 4200)},
		entity.LevelLvl5:   {cost.Scalar("wu_zhu", 1800), cost.Scalar("coins", 9500)},
	},
	"birka": {
		entity.LevelUnlock: {cost.Scalar("pennies", 90)},
		entity.LevelLvl2:   {cost.Scalar("pennies", 220)},
		entity.LevelLvl3:   {cost.Scalar("pennies", 480), cost.Scalar("food", 1100)},
		entity.LevelLvl4:   {cost.Scalar("pennies", 850), cost.Scalar("food", 2700)},
		entity.LevelLvl5:   {cost.Scalar("pennies", 1400), cost.Scalar("food", 5800)},
	},
}

// TradePost looks up the tier table of one trade post.
func TradePost(id string) (map[entity.TradePostLevel]cost.List, bool) {
	tiers, ok := TradePostTiers[id]
	return tiers, ok
}
