package relay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// Wire shapes for entity records. Costs travel in the wiki JSON shape that
// cost.List encodes.

type wireBuilding struct {
	ID        string    `json:"id"`
	Costs     cost.List `json:"costs"`
	Quantity  int       `json:"quantity"`
	MaxQty    int       `json:"maxQty"`
	Hidden    bool      `json:"hidden"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type wireTechno struct {
	ID        string    `json:"id"`
	Costs     cost.List `json:"costs"`
	Hidden    bool      `json:"hidden"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type wireArea struct {
	ID        string    `json:"id"`
	Costs     cost.List `json:"costs"`
	Hidden    bool      `json:"hidden"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type wireTradePost struct {
	ID        string                         `json:"id"`
	Levels    map[entity.TradePostLevel]bool `json:"levels"`
	Costs     cost.List                      `json:"costs"`
	Hidden    bool                           `json:"hidden"`
	UpdatedAt time.Time                      `json:"updatedAt"`
}

// EncodeRecords converts a full collection into its wire form.
func EncodeRecords(kind entity.Kind, records []entity.Record) (json.RawMessage, error) {
	out := make([]interface{}, 0, len(records))
	for _, record := range records {
		wire, err := encodeRecord(record)
		if err != nil {
			return nil, err
		}
		out = append(out, wire)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s collection: %w", kind, err)
	}
	return data, nil
}

func encodeRecord(record entity.Record) (interface{}, error) {
	switch rec := record.(type) {
	case *entity.Building:
		return wireBuilding{
			ID: rec.ID, Costs: rec.Costs, Quantity: rec.Quantity,
			MaxQty: rec.MaxQty, Hidden: rec.Hidden, UpdatedAt: rec.UpdatedAt,
		}, nil
	case *entity.Techno:
		return wireTechno{ID: rec.ID, Costs: rec.Costs, Hidden: rec.Hidden, UpdatedAt: rec.UpdatedAt}, nil
	case *entity.Area:
		return wireArea{ID: rec.ID, Costs: rec.Costs, Hidden: rec.Hidden, UpdatedAt: rec.UpdatedAt}, nil
	case *entity.TradePost:
		return wireTradePost{
			ID: rec.ID, Levels: rec.Levels, Costs: rec.Costs,
			Hidden: rec.Hidden, UpdatedAt: rec.UpdatedAt,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported record type %T", record)
	}
}

// DecodeRecords converts a wire collection back into domain records.
func DecodeRecords(kind entity.Kind, data json.RawMessage) ([]entity.Record, error) {
	switch kind {
	case entity.KindBuildings:
		var wires []wireBuilding
		if err := json.Unmarshal(data, &wires); err != nil {
			return nil, fmt.Errorf("failed to decode buildings: %w", err)
		}
		records := make([]entity.Record, 0, len(wires))
		for _, w := range wires {
			records = append(records, &entity.Building{
				ID: w.ID, Costs: w.Costs, Quantity: w.Quantity,
				MaxQty: w.MaxQty, Hidden: w.Hidden, UpdatedAt: w.UpdatedAt,
			})
		}
		return records, nil

	case entity.KindTechnos:
		var wires []wireTechno
		if err := json.Unmarshal(data, &wires); err != nil {
			return nil, fmt.Errorf("failed to decode technos: %w", err)
		}
		records := make([]entity.Record, 0, len(wires))
		for _, w := range wires {
			records = append(records, &entity.Techno{ID: w.ID, Costs: w.Costs, Hidden: w.Hidden, UpdatedAt: w.UpdatedAt})
		}
		return records, nil

	case entity.KindAreas:
		var wires []wireArea
		if err := json.Unmarshal(data, &wires); err != nil {
			return nil, fmt.Errorf("failed to decode areas: %w", err)
		}
		records := make([]entity.Record, 0, len(wires))
		for _, w := range wires {
			records = append(records, &entity.Area{ID: w.ID, Costs: w.Costs, Hidden: w.Hidden, UpdatedAt: w.UpdatedAt})
		}
		return records, nil

	case entity.KindTradePosts:
		var wires []wireTradePost
		if err := json.Unmarshal(data, &wires); err != nil {
			return nil, fmt.Errorf("failed to decode trade posts: %w", err)
		}
		records := make([]entity.Record, 0, len(wires))
		for _, w := range wires {
			records = append(records, &entity.TradePost{
				ID: w.ID, Levels: w.Levels, Costs: w.Costs,
				Hidden: w.Hidden, UpdatedAt: w.UpdatedAt,
			})
		}
		return records, nil

	default:
		return nil, fmt.Errorf("unknown entity kind: %q", kind)
	}
}
