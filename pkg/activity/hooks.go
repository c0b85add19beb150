// Package activity reports stack events (scopes extended, positions
// materialized) to pluggable hooks for debug tooling and audit sinks.
package activity

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"
)

// Event describes one stack occurrence. Values are carried as []any so hooks
// do not depend on the stack payload type.
type Event struct {
	Verb       string
	StackID    string
	StackName  string
	Depth      int
	Values     []any
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

func (e Event) routable() bool {
	return e.Verb != "" && e.StackID != ""
}

// ActivityHook receives normalized stack events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans out events to zero or more hooks.
type Hooks []ActivityHook

// Enabled reports whether there are any hooks to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify delivers event to every hook in order. A failing hook does not stop
// the rest; failures come back joined. Events without a verb or stack id are
// dropped.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	event = NormalizeEvent(event)
	if len(h) == 0 || !event.routable() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	for _, hook := range h {
		if hook != nil {
			err = errors.Join(err, hook.Notify(ctx, event))
		}
	}
	return err
}

// Clone returns a detached copy without nil hooks, or nil when none remain.
func (h Hooks) Clone() Hooks {
	out := slices.DeleteFunc(slices.Clone(h), func(hook ActivityHook) bool {
		return hook == nil
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeEvent trims identifiers, detaches metadata and values from the
// caller, clamps depth, and stamps a missing time.
func NormalizeEvent(event Event) Event {
	for _, field := range []*string{
		&event.Verb, &event.StackID, &event.StackName,
		&event.ActorID, &event.UserID, &event.TenantID, &event.Channel,
	} {
		*field = strings.TrimSpace(*field)
	}
	event.Metadata = cloneMetadata(event.Metadata)
	if len(event.Values) == 0 {
		event.Values = nil
	} else {
		event.Values = slices.Clone(event.Values)
	}
	event.Depth = max(event.Depth, 0)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return event
}

func cloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
