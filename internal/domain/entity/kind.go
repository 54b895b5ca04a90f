package entity

import "fmt"

// Kind identifies one of the four tracked collections.
type Kind string

const (
	KindBuildings  Kind = "buildings"
	KindTechnos    Kind = "technos"
	KindAreas      Kind = "areas"
	KindTradePosts Kind = "trade_posts"
)

// AllKinds returns every collection kind in a stable order.
func AllKinds() []Kind {
	return []Kind{KindBuildings, KindTechnos, KindAreas, KindTradePosts}
}

// ParseKind converts a wire/CLI string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBuildings, KindTechnos, KindAreas, KindTradePosts:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown entity kind: %q", s)
	}
}
