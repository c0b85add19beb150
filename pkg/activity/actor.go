package activity

import "context"

type actorKey struct{}

// Actor identifies who caused a stack event.
type Actor struct {
	ActorID  string
	UserID   string
	TenantID string
}

// WithActor attaches actor to ctx so events emitted below it carry the ids.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor attached to ctx, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

func (a Actor) apply(event Event) Event {
	if event.ActorID == "" {
		event.ActorID = a.ActorID
	}
	if event.UserID == "" {
		event.UserID = a.UserID
	}
	if event.TenantID == "" {
		event.TenantID = a.TenantID
	}
	return event
}
