package ctxstack

import "context"

type channelKey struct {
	name string
}

// Channel publishes a value to everything derived from a context and reads
// the nearest published value back. Inner publications shadow outer ones and
// sibling contexts never see each other's values.
type Channel[V any] struct {
	key      *channelKey
	fallback V
}

// NewChannel creates a channel with its own private key. Lookup returns
// fallback wherever nothing has been published yet.
func NewChannel[V any](name string, fallback V) *Channel[V] {
	return &Channel[V]{
		key:      &channelKey{name: name},
		fallback: fallback,
	}
}

// Publish returns a child of ctx in which v is the nearest value.
func (c *Channel[V]) Publish(ctx context.Context, v V) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, c.key, v)
}

// Published returns the nearest value and whether one was published.
func (c *Channel[V]) Published(ctx context.Context) (V, bool) {
	if ctx == nil {
		return c.fallback, false
	}
	v, ok := ctx.Value(c.key).(V)
	if !ok {
		return c.fallback, false
	}
	return v, true
}

// Lookup returns the nearest published value or the fallback.
func (c *Channel[V]) Lookup(ctx context.Context) V {
	v, _ := c.Published(ctx)
	return v
}

// Name returns the label given at construction.
func (c *Channel[V]) Name() string {
	return c.key.name
}
