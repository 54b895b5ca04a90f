package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// LocalClient runs requests through an in-process owner loop. Used by the
// daemon's own consumers and by tests; semantics match GatewayClient.
type LocalClient struct {
	owner      *Owner
	controller *watch.Controller
}

func NewLocalClient(owner *Owner, controller *watch.Controller) *LocalClient {
	return &LocalClient{owner: owner, controller: controller}
}

func (c *LocalClient) Request(ctx context.Context, op string, payload interface{}, result interface{}) error {
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", op, err)
		}
		raw = encoded
	}

	res, err := c.owner.Submit(ctx, op, raw)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("%s failed: %s", op, res.Error)
	}
	if result != nil && len(res.Data) > 0 {
		if err := json.Unmarshal(res.Data, result); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", op, err)
		}
	}
	return nil
}

func (c *LocalClient) Watch(kind entity.Kind, callback func(records []entity.Record)) func() {
	return c.controller.Watch(kind, callback)
}

func (c *LocalClient) Close() error { return nil }
