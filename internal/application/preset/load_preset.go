package preset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	storecmd "github.com/mcharbonnier/wikitally-go/internal/application/store/commands"
	"github.com/mcharbonnier/wikitally-go/internal/application/store/queries"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/cost"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// BuildingInput is one building row of a preset, as supplied by the wiki
// scraper. Quantity is clamped downstream, not validated here.
type BuildingInput struct {
	ID       string    `json:"id" validate:"required"`
	Costs    cost.List `json:"costs" validate:"required"`
	Quantity int       `json:"quantity"`
	MaxQty   int       `json:"maxQty" validate:"min=1"`
}

// TechnoInput is one technology row of a preset.
type TechnoInput struct {
	ID    string    `json:"id" validate:"required"`
	Costs cost.List `json:"costs" validate:"required"`
}

// LoadPresetCommand loads a bundled set of buildings and technologies as one
// user action. Wholesale clears both collections first; otherwise
// technologies replace by era (every stored techno of an era present in the
// preset is dropped before the preset rows land) and buildings merge by id.
type LoadPresetCommand struct {
	Buildings []BuildingInput `validate:"dive"`
	Technos   []TechnoInput   `validate:"dive"`
	Wholesale bool
}

// LoadPresetResponse reports per-collection counts. On partial failure the
// counts tell which half committed.
type LoadPresetResponse struct {
	BuildingsAdded int
	TechnosAdded   int
}

// LoadPresetHandler coalesces the whole preset into one downstream
// notification per kind: suspend, bulk writes, force refresh, resume. The
// resume and the refreshes run on every exit path, so an error mid-load can
// neither freeze consumers nor leave them showing pre-preset state for the
// half that committed.
type LoadPresetHandler struct {
	mediator   common.Mediator
	controller *watch.Controller
	validate   *validator.Validate
}

// NewLoadPresetHandler creates a new LoadPresetHandler.
func NewLoadPresetHandler(mediator common.Mediator, controller *watch.Controller) *LoadPresetHandler {
	return &LoadPresetHandler{
		mediator:   mediator,
		controller: controller,
		validate:   validator.New(),
	}
}

// Handle executes the LoadPreset command.
func (h *LoadPresetHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*LoadPresetCommand)
	if !ok {
		return nil, fmt.Errorf("%w: expected *LoadPresetCommand", common.ErrInvalidRequestType)
	}
	if err := h.validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("invalid preset: %w", err)
	}

	resp := &LoadPresetResponse{}
	err := h.controller.Suspended(ctx, func(ctx context.Context) error {
		defer func() {
			// Consumers must converge on whatever committed, even when one
			// half of the preset failed.
			_ = h.controller.ForceRefresh(ctx, entity.KindBuildings)
			_ = h.controller.ForceRefresh(ctx, entity.KindTechnos)
		}()

		if cmd.Wholesale {
			if err := h.clear(ctx, entity.KindBuildings); err != nil {
				return err
			}
			if err := h.clear(ctx, entity.KindTechnos); err != nil {
				return err
			}
		}

		if err := h.loadBuildings(ctx, cmd.Buildings); err != nil {
			return err
		}
		resp.BuildingsAdded = len(cmd.Buildings)

		if err := h.loadTechnos(ctx, cmd.Technos, cmd.Wholesale); err != nil {
			// Buildings are already durable; the pair is not atomic. Report
			// the partial application instead of guessing a rollback.
			return fmt.Errorf("%w: buildings committed, technos failed: %v", common.ErrPartialPreset, err)
		}
		resp.TechnosAdded = len(cmd.Technos)
		return nil
	})
	if err != nil {
		return resp, err
	}
	return resp, nil
}

func (h *LoadPresetHandler) clear(ctx context.Context, kind entity.Kind) error {
	if _, err := h.mediator.Send(ctx, &storecmd.ClearCollectionCommand{Kind: kind}); err != nil {
		return fmt.Errorf("failed to clear %s: %w", kind, err)
	}
	return nil
}

func (h *LoadPresetHandler) loadBuildings(ctx context.Context, inputs []BuildingInput) error {
	if len(inputs) == 0 {
		return nil
	}
	records := make([]entity.Record, 0, len(inputs))
	for _, in := range inputs {
		records = append(records, &entity.Building{
			ID:       in.ID,
			Costs:    in.Costs,
			Quantity: entity.ClampQuantity(in.Quantity, in.MaxQty),
			MaxQty:   in.MaxQty,
		})
	}
	_, err := h.mediator.Send(ctx, &storecmd.BulkPutCommand{Kind: entity.KindBuildings, Records: records})
	return err
}

func (h *LoadPresetHandler) loadTechnos(ctx context.Context, inputs []TechnoInput, wholesale bool) error {
	if len(inputs) == 0 {
		return nil
	}

	if !wholesale {
		if err := h.dropTechnoEras(ctx, inputs); err != nil {
			return err
		}
	}

	records := make([]entity.Record, 0, len(inputs))
	for _, in := range inputs {
		records = append(records, &entity.Techno{ID: in.ID, Costs: in.Costs})
	}
	_, err := h.mediator.Send(ctx, &storecmd.BulkPutCommand{Kind: entity.KindTechnos, Records: records})
	return err
}

// dropTechnoEras removes every stored techno belonging to an era the preset
// covers, so a preset is the full truth for its eras.
func (h *LoadPresetHandler) dropTechnoEras(ctx context.Context, inputs []TechnoInput) error {
	eras := make(map[string]bool)
	for _, in := range inputs {
		eras[technoEra(in.ID)] = true
	}

	resp, err := h.mediator.Send(ctx, &queries.ListEntitiesQuery{Kind: entity.KindTechnos})
	if err != nil {
		return fmt.Errorf("failed to list technos: %w", err)
	}
	list, ok := resp.(*queries.ListEntitiesResponse)
	if !ok {
		return errors.New("unexpected response listing technos")
	}

	var stale []string
	for _, record := range list.Records {
		if eras[technoEra(record.EntityID())] {
			stale = append(stale, record.EntityID())
		}
	}
	if len(stale) == 0 {
		return nil
	}

	_, err = h.mediator.Send(ctx, &storecmd.BulkDeleteCommand{Kind: entity.KindTechnos, IDs: stale})
	return err
}

// technoEra extracts the era code prefix of a techno id such as "BA_04".
func technoEra(id string) string {
	if i := strings.Index(id, "_"); i > 0 {
		return id[:i]
	}
	return id
}
