package ctxstack

import (
	"context"
	"slices"

	"github.com/goliatone/go-ctxstack/pkg/activity"
)

// DebugValue is handed to debug hooks after every materialization. Values
// is a copy the hook may keep or modify.
type DebugValue[T any] struct {
	StackID   string
	StackName string
	Depth     int
	Values    []T
}

func (s *Stack[T]) observe(ctx context.Context, node *Node[T], values []T) {
	if s.cfg.debugHook != nil {
		s.cfg.debugHook(DebugValue[T]{
			StackID:   s.id,
			StackName: s.Name(),
			Depth:     node.Depth(),
			Values:    slices.Clone(values),
		})
	}
	if s.emitter.Enabled() {
		err := s.emitter.Materialized(ctx, node.Depth(), toAnySlice(values))
		s.hookFailed(ctx, activity.VerbStackMaterialized, err)
	}
}
