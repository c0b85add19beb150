package activity

import (
	"context"
	"log/slog"
)

// SlogHook writes every event to logger at debug level.
func SlogHook(logger *slog.Logger) ActivityHook {
	return HookFunc(func(ctx context.Context, event Event) error {
		if logger == nil {
			return nil
		}
		logger.LogAttrs(ctx, slog.LevelDebug, event.Verb,
			slog.String("stack_id", event.StackID),
			slog.String("stack", event.StackName),
			slog.Int("depth", event.Depth),
			slog.Any("values", event.Values),
			slog.String("channel", event.Channel),
		)
		return nil
	})
}
