package commands

import (
	"context"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	sharedApplication "github.com/felixgeelhaar/priora/internal/shared/application"
)

type scope uint8

const (
	scopeTasks scope = 1 << iota
	scopeFeedback
	scopeWeights
)

// commit saves the touched parts of the workspace, then publishes pending events.
// Publishing failures are logged by the dispatcher and do not fail the command.
func commit(ctx context.Context, ws *services.Workspace, dispatcher *sharedApplication.EventDispatcher, s scope) error {
	if s&scopeTasks != 0 {
		if err := ws.SaveTasks(ctx); err != nil {
			return err
		}
	}
	if s&scopeFeedback != 0 {
		if err := ws.SaveFeedback(ctx); err != nil {
			return err
		}
	}
	if s&scopeWeights != 0 {
		if err := ws.SaveWeights(ctx); err != nil {
			return err
		}
	}

	_ = dispatcher.Dispatch(ctx, ws.DrainEvents())
	return nil
}
