package activity

import (
	"context"
	"strings"
	"time"
)

// DefaultChannel is applied to events that do not name one.
const DefaultChannel = "ctxstack"

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithChannel overrides DefaultChannel.
func WithChannel(channel string) EmitterOption {
	return func(e *Emitter) {
		if channel = strings.TrimSpace(channel); channel != "" {
			e.channel = channel
		}
	}
}

// WithClock sets the time source used to stamp events.
func WithClock(now func() time.Time) EmitterOption {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// Emitter reports events for one stack.
type Emitter struct {
	source  Source
	hooks   Hooks
	channel string
	now     func() time.Time
}

// NewEmitter binds hooks to source. Nil hooks are dropped.
func NewEmitter(source Source, hooks Hooks, opts ...EmitterOption) *Emitter {
	e := &Emitter{
		source:  source,
		hooks:   hooks.Clone(),
		channel: DefaultChannel,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Enabled reports whether any hook would receive events.
func (e *Emitter) Enabled() bool {
	return e != nil && e.hooks.Enabled()
}

// Extended reports a scope that published a node at depth.
func (e *Emitter) Extended(ctx context.Context, depth int, values []any) error {
	return e.Emit(ctx, NewStackEvent(VerbStackExtended, e.source, depth, values))
}

// Materialized reports a read of the values at depth.
func (e *Emitter) Materialized(ctx context.Context, depth int, values []any) error {
	return e.Emit(ctx, NewStackEvent(VerbStackMaterialized, e.source, depth, values))
}

// Emit forwards event to the hooks. The emitter's channel and the actor on
// ctx only fill fields the event leaves empty.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if event.StackID == "" {
		event.StackID, event.StackName = e.source.StackID, e.source.StackName
	}
	if actor, ok := ActorFrom(ctx); ok {
		event = actor.apply(event)
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	return e.hooks.Notify(ctx, event)
}
