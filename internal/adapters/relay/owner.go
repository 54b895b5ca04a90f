package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mcharbonnier/wikitally-go/internal/application/calculator"
	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/preset"
	storecmd "github.com/mcharbonnier/wikitally-go/internal/application/store/commands"
	"github.com/mcharbonnier/wikitally-go/internal/application/store/queries"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
)

// Command is one queued request into the owner loop.
type Command struct {
	Op      string
	Payload json.RawMessage
	Reply   chan Result
}

// Result is the owner's answer to one command.
type Result struct {
	Success bool
	Data    json.RawMessage
	Error   string
}

// Owner serializes every mutating operation of the system: requests from
// all reader contexts funnel through one command channel drained by a
// single goroutine, which fixes the global commit order. Committed changes
// fan back out through the hub as full-collection broadcasts.
type Owner struct {
	mediator   common.Mediator
	controller *watch.Controller
	commands   chan Command
	hub        *Hub
	log        *logrus.Entry
}

// NewOwner wires the owner loop onto the mediator and the watch controller.
// Broadcasts follow the controller's downstream, so a suspended bulk load
// reaches readers as one coalesced frame per kind.
func NewOwner(mediator common.Mediator, controller *watch.Controller, log *logrus.Entry) *Owner {
	o := &Owner{
		mediator:   mediator,
		controller: controller,
		commands:   make(chan Command, 64),
		hub:        NewHub(),
		log:        log,
	}
	for _, kind := range entity.AllKinds() {
		k := kind
		controller.Watch(k, func(records []entity.Record) {
			o.broadcast(k, records)
		})
	}
	return o
}

// Hub exposes the broadcast fan-out for the gateway.
func (o *Owner) Hub() *Hub {
	return o.hub
}

// Run drains the command channel until the context is cancelled. Requests
// submitted by one context are processed in arrival order, so a context
// that writes then reads observes its own write.
func (o *Owner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-o.commands:
			cmd.Reply <- o.dispatch(ctx, cmd.Op, cmd.Payload)
		}
	}
}

// Submit queues one operation and waits for its result.
func (o *Owner) Submit(ctx context.Context, op string, payload json.RawMessage) (Result, error) {
	reply := make(chan Result, 1)
	select {
	case o.commands <- Command{Op: op, Payload: payload, Reply: reply}:
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %v", common.ErrOwnerUnreachable, ctx.Err())
	}

	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %v", common.ErrOwnerUnreachable, ctx.Err())
	}
}

func (o *Owner) broadcast(kind entity.Kind, records []entity.Record) {
	entities, err := EncodeRecords(kind, records)
	if err != nil {
		o.log.WithError(err).WithField("kind", kind).Error("failed to encode broadcast")
		return
	}
	msg, err := json.Marshal(BroadcastFrame{Broadcast: kind, Entities: entities})
	if err != nil {
		o.log.WithError(err).WithField("kind", kind).Error("failed to encode broadcast frame")
		return
	}
	o.hub.Broadcast(msg)
}

func (o *Owner) dispatch(ctx context.Context, op string, payload json.RawMessage) Result {
	ctx = common.WithLogger(ctx, o.log.WithField("op", op))
	data, err := o.handle(ctx, op, payload)
	if err != nil {
		o.log.WithError(err).WithField("op", op).Debug("operation failed")
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true, Data: data}
}

func (o *Owner) handle(ctx context.Context, op string, payload json.RawMessage) (json.RawMessage, error) {
	switch op {
	case OpListEntities:
		var p ListEntitiesPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		resp, err := send[*queries.ListEntitiesResponse](ctx, o.mediator, &queries.ListEntitiesQuery{Kind: p.Kind})
		if err != nil {
			return nil, err
		}
		return EncodeRecords(p.Kind, resp.Records)

	case OpGetEntity:
		var p GetEntityPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		resp, err := send[*queries.GetEntityResponse](ctx, o.mediator, &queries.GetEntityQuery{Kind: p.Kind, ID: p.ID})
		if err != nil {
			return nil, err
		}
		wire, err := encodeRecord(resp.Record)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wire)

	case OpPutEntity:
		var p PutEntityPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		record, err := decodePutEntity(&p)
		if err != nil {
			return nil, err
		}
		resp, err := send[*storecmd.PutEntityResponse](ctx, o.mediator, &storecmd.PutEntityCommand{Kind: p.Kind, Record: record})
		if err != nil {
			return nil, err
		}
		wire, err := encodeRecord(resp.Record)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wire)

	case OpDeleteEntity:
		var p DeleteEntityPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		resp, err := send[*storecmd.DeleteEntityResponse](ctx, o.mediator, &storecmd.DeleteEntityCommand{Kind: p.Kind, ID: p.ID})
		if err != nil {
			return nil, err
		}
		return json.Marshal(DeleteEntityResult{Deleted: resp.Deleted})

	case OpToggleHidden:
		var p ToggleHiddenPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		resp, err := send[*storecmd.ToggleHiddenResponse](ctx, o.mediator, &storecmd.ToggleHiddenCommand{Kind: p.Kind, ID: p.ID})
		if err != nil {
			return nil, err
		}
		return json.Marshal(ToggleHiddenResult{Hidden: resp.Hidden})

	case OpSetQuantity:
		var p SetQuantityPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		resp, err := send[*storecmd.SetQuantityResponse](ctx, o.mediator, &storecmd.SetQuantityCommand{ID: p.ID, Quantity: p.Quantity})
		if err != nil {
			return nil, err
		}
		return json.Marshal(SetQuantityResult{Quantity: resp.Quantity})

	case OpToggleLevel:
		var p ToggleLevelPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		resp, err := send[*storecmd.ToggleLevelResponse](ctx, o.mediator, &storecmd.ToggleLevelCommand{ID: p.ID, Level: p.Level})
		if err != nil {
			return nil, err
		}
		return json.Marshal(ToggleLevelResult{Levels: resp.Levels})

	case OpToggleArea:
		var p ToggleAreaPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		resp, err := send[*storecmd.ToggleAreaResponse](ctx, o.mediator, &storecmd.ToggleAreaCommand{ID: p.ID})
		if err != nil {
			return nil, err
		}
		return json.Marshal(ToggleAreaResult{Tracked: resp.Tracked})

	case OpLoadPreset:
		var p LoadPresetPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		resp, err := send[*preset.LoadPresetResponse](ctx, o.mediator, &preset.LoadPresetCommand{
			Buildings: p.Buildings,
			Technos:   p.Technos,
			Wholesale: p.Wholesale,
		})
		if err != nil {
			return nil, err
		}
		return json.Marshal(LoadPresetResult{BuildingsAdded: resp.BuildingsAdded, TechnosAdded: resp.TechnosAdded})

	case OpComputeTotals:
		var p ComputeTotalsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		resp, err := send[*calculator.ComputeTotalsResponse](ctx, o.mediator, &calculator.ComputeTotalsQuery{CompareMode: p.CompareMode})
		if err != nil {
			return nil, err
		}
		result := TotalsResult{
			Main:          resp.Totals.Main,
			Goods:         resp.Totals.Goods,
			IsCompareMode: resp.Totals.IsCompareMode,
		}
		if resp.Totals.Differences != nil {
			result.Differences = &TotalsMaps{
				Main:  resp.Totals.Differences.Main,
				Goods: resp.Totals.Differences.Goods,
			}
		}
		return json.Marshal(result)

	case OpReplaceSnapshot:
		var p ReplaceSnapshotPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		rows := make([]entity.ResourceSnapshot, 0, len(p.Rows))
		for _, row := range p.Rows {
			rows = append(rows, entity.ResourceSnapshot{ID: row.ID, Amount: row.Amount, Type: row.Type})
		}
		resp, err := send[*storecmd.ReplaceSnapshotResponse](ctx, o.mediator, &storecmd.ReplaceSnapshotCommand{Rows: rows})
		if err != nil {
			return nil, err
		}
		return json.Marshal(CountResult{Count: resp.Count})

	case OpGetSnapshot:
		resp, err := send[*queries.GetSnapshotResponse](ctx, o.mediator, &queries.GetSnapshotQuery{})
		if err != nil {
			return nil, err
		}
		rows := make([]SnapshotRow, 0, len(resp.Rows))
		for _, row := range resp.Rows {
			rows = append(rows, SnapshotRow{ID: row.ID, Amount: row.Amount, Type: row.Type})
		}
		return json.Marshal(SnapshotResult{Rows: rows})

	case OpSetSelection:
		var p SetSelectionPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		_, err := send[*storecmd.SetSelectionResponse](ctx, o.mediator, &storecmd.SetSelectionCommand{
			Era: p.Era,
			Selection: goods.Selection{
				Primary:   p.Primary,
				Secondary: p.Secondary,
				Tertiary:  p.Tertiary,
			},
		})
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct{}{})

	case OpGetSelections:
		resp, err := send[*queries.GetSelectionsResponse](ctx, o.mediator, &queries.GetSelectionsQuery{})
		if err != nil {
			return nil, err
		}
		selections := make(map[goods.Era]SelectionRow, len(resp.Selections))
		for era, sel := range resp.Selections {
			selections[era] = SelectionRow{Primary: sel.Primary, Secondary: sel.Secondary, Tertiary: sel.Tertiary}
		}
		return json.Marshal(SelectionsResult{Selections: selections})

	default:
		return nil, fmt.Errorf("unknown operation: %q", op)
	}
}

// send dispatches through the mediator and asserts the response type.
func send[T common.Response](ctx context.Context, m common.Mediator, request common.Request) (T, error) {
	var zero T
	resp, err := m.Send(ctx, request)
	if err != nil {
		return zero, err
	}
	typed, ok := resp.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected response type %T", resp)
	}
	return typed, nil
}
