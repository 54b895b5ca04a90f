package relay

import (
	"encoding/json"

	"github.com/mcharbonnier/wikitally-go/internal/application/preset"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
)

// Operation names accepted by the owner loop.
const (
	OpListEntities    = "entities.list"
	OpGetEntity       = "entities.get"
	OpPutEntity       = "entities.put"
	OpDeleteEntity    = "entities.delete"
	OpToggleHidden    = "entities.toggleHidden"
	OpSetQuantity     = "buildings.setQuantity"
	OpToggleLevel     = "tradePosts.toggleLevel"
	OpToggleArea      = "areas.toggle"
	OpLoadPreset      = "preset.load"
	OpComputeTotals   = "totals.compute"
	OpReplaceSnapshot = "resources.sync"
	OpGetSnapshot     = "resources.get"
	OpSetSelection    = "selections.set"
	OpGetSelections   = "selections.get"
)

// Envelope is a typed request from a reader context. ID correlates the
// response; it is a uuid minted by the client.
type Envelope struct {
	ID      string          `json:"id"`
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ResponseFrame answers one envelope.
type ResponseFrame struct {
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// BroadcastFrame pushes the full updated collection of a kind to every
// reader after a committed mutation. Last write wins, full resync.
type BroadcastFrame struct {
	Broadcast entity.Kind     `json:"broadcast"`
	Entities  json.RawMessage `json:"entities"`
}

// frame is the union read off a reader connection: exactly one of the
// response fields or Broadcast is set.
type frame struct {
	ID        string          `json:"id,omitempty"`
	Success   *bool           `json:"success,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Broadcast entity.Kind     `json:"broadcast,omitempty"`
	Entities  json.RawMessage `json:"entities,omitempty"`
}

// Request payloads.

type ListEntitiesPayload struct {
	Kind entity.Kind `json:"kind"`
}

type GetEntityPayload struct {
	Kind entity.Kind `json:"kind"`
	ID   string      `json:"id"`
}

type PutEntityPayload struct {
	Kind   entity.Kind     `json:"kind"`
	Entity json.RawMessage `json:"entity"`
}

type DeleteEntityPayload struct {
	Kind entity.Kind `json:"kind"`
	ID   string      `json:"id"`
}

type ToggleHiddenPayload struct {
	Kind entity.Kind `json:"kind"`
	ID   string      `json:"id"`
}

type SetQuantityPayload struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type ToggleLevelPayload struct {
	ID    string                `json:"id"`
	Level entity.TradePostLevel `json:"level"`
}

type ToggleAreaPayload struct {
	ID string `json:"id"`
}

type LoadPresetPayload struct {
	Buildings []preset.BuildingInput `json:"buildings"`
	Technos   []preset.TechnoInput   `json:"technos"`
	Wholesale bool                   `json:"wholesale"`
}

type ComputeTotalsPayload struct {
	CompareMode bool `json:"compareMode"`
}

type SnapshotRow struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

type ReplaceSnapshotPayload struct {
	Rows []SnapshotRow `json:"rows"`
}

type SetSelectionPayload struct {
	Era       goods.Era `json:"era"`
	Primary   string    `json:"primary"`
	Secondary string    `json:"secondary"`
	Tertiary  string    `json:"tertiary"`
}

// Response payloads that are not plain collections.

type SetQuantityResult struct {
	Quantity int `json:"quantity"`
}

type ToggleHiddenResult struct {
	Hidden bool `json:"hidden"`
}

type ToggleLevelResult struct {
	Levels map[entity.TradePostLevel]bool `json:"levels,omitempty"`
}

type ToggleAreaResult struct {
	Tracked bool `json:"tracked"`
}

type LoadPresetResult struct {
	BuildingsAdded int `json:"buildingsAdded"`
	TechnosAdded   int `json:"technosAdded"`
}

type DeleteEntityResult struct {
	Deleted bool `json:"deleted"`
}

type CountResult struct {
	Count int `json:"count"`
}

type SnapshotResult struct {
	Rows []SnapshotRow `json:"rows"`
}

type SelectionsResult struct {
	Selections map[goods.Era]SelectionRow `json:"selections"`
}

type SelectionRow struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Tertiary  string `json:"tertiary"`
}

// TotalsResult mirrors calculator.ComparedTotals on the wire.
type TotalsResult struct {
	Main          map[string]float64 `json:"main"`
	Goods         map[string]float64 `json:"goods"`
	IsCompareMode bool               `json:"isCompareMode"`
	Differences   *TotalsMaps        `json:"differences,omitempty"`
}

type TotalsMaps struct {
	Main  map[string]float64 `json:"main"`
	Goods map[string]float64 `json:"goods"`
}

// PutEntityPayload helpers: the entity travels in the same wire shape the
// broadcasts use.

func EncodePutEntity(record entity.Record) (*PutEntityPayload, error) {
	wire, err := encodeRecord(record)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	return &PutEntityPayload{Kind: record.EntityKind(), Entity: data}, nil
}

func decodePutEntity(p *PutEntityPayload) (entity.Record, error) {
	wrapped := json.RawMessage("[" + string(p.Entity) + "]")
	records, err := DecodeRecords(p.Kind, wrapped)
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, errMalformedEntity
	}
	return records[0], nil
}

var errMalformedEntity = jsonError("malformed entity payload")

type jsonError string

func (e jsonError) Error() string { return string(e) }
