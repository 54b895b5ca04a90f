package entity

import (
	"fmt"
	"time"

	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
)

// TradePostLevel is one of the five reward tiers of a trade post.
type TradePostLevel string

const (
	LevelUnlock TradePostLevel = "unlock"
	LevelLvl2   TradePostLevel = "lvl2"
	LevelLvl3   TradePostLevel = "lvl3"
	LevelLvl4   TradePostLevel = "lvl4"
	LevelLvl5   TradePostLevel = "lvl5"
)

// TradePostLevels returns the five tiers in ascending order.
func TradePostLevels() []TradePostLevel {
	return []TradePostLevel{LevelUnlock, LevelLvl2, LevelLvl3, LevelLvl4, LevelLvl5}
}

// ParseTradePostLevel converts a wire/CLI string into a level.
func ParseTradePostLevel(s string) (TradePostLevel, error) {
	switch TradePostLevel(s) {
	case LevelUnlock, LevelLvl2, LevelLvl3, LevelLvl4, LevelLvl5:
		return TradePostLevel(s), nil
	default:
		return "", fmt.Errorf("unknown trade post level: %q", s)
	}
}

// TradePost tracks which reward tiers of a static trade post the user has
// marked as needed. Costs is always the sum over exactly the levels marked
// true; ToggleLevel updates both fields together.
type TradePost struct {
	ID        string
	Levels    map[TradePostLevel]bool
	Costs     cost.List
	Hidden    bool
	UpdatedAt time.Time
}

func (tp *TradePost) EntityID() string  { return tp.ID }
func (tp *TradePost) EntityKind() Kind  { return KindTradePosts }
func (tp *TradePost) IsHidden() bool    { return tp.Hidden }
func (tp *TradePost) Touch(t time.Time) { tp.UpdatedAt = t }

func (tp *TradePost) AggregateCosts() cost.List {
	return tp.Costs
}

// ToggleLevel flips one tier and recomputes Costs from the static tier
// table in the same step, keeping the two fields consistent.
func (tp *TradePost) ToggleLevel(level TradePostLevel, tiers map[TradePostLevel]cost.List) {
	if tp.Levels == nil {
		tp.Levels = make(map[TradePostLevel]bool, 5)
	}
	tp.Levels[level] = !tp.Levels[level]
	tp.Costs = SumLevels(tp.Levels, tiers)
}

// SumLevels folds the tier costs of every level marked true.
func SumLevels(levels map[TradePostLevel]bool, tiers map[TradePostLevel]cost.List) cost.List {
	var total cost.List
	for _, level := range TradePostLevels() {
		if levels[level] {
			total = total.Merge(tiers[level])
		}
	}
	return total
}
