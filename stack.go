// Package ctxstack accumulates values along the ancestor chain of a
// tree-shaped composition and reads them back ordered from the outermost
// scope to the current one.
//
// A Stack publishes immutable parent-linked nodes through context.Context:
// Extend runs a subtree with one more value appended, and Materialize returns
// the values visible at a context, root-most first:
//
//	headings := ctxstack.New[int]()
//	_ = headings.Extend(ctx, 1, func(ctx context.Context) error {
//		return headings.Extend(ctx, 4, func(ctx context.Context) error {
//			fmt.Println(headings.Materialize(ctx)) // [1 4]
//			return nil
//		})
//	})
//
// Every call to New creates an independent channel, so unrelated stacks never
// observe each other's values even when nested in the same contexts.
package ctxstack

import (
	"context"
	"log/slog"
	"sync"

	"github.com/goliatone/go-ctxstack/pkg/activity"
	"github.com/google/uuid"
)

// Stack is one independent stack kind for payload type T.
type Stack[T any] struct {
	id      string
	cfg     config[T]
	channel *Channel[*Node[T]]
	emitter *activity.Emitter

	evalMu sync.Mutex
}

// New creates a stack with its own scoping channel.
func New[T any](opts ...Option[T]) *Stack[T] {
	cfg := applyOptions(opts)
	id := uuid.NewString()
	name := cfg.name
	if name == "" {
		name = id
	}
	return &Stack[T]{
		id:      id,
		cfg:     cfg,
		channel: NewChannel[*Node[T]](name, nil),
		emitter: activity.NewEmitter(activity.Source{StackID: id, StackName: name}, cfg.activityHooks),
	}
}

// ID returns the unique identifier assigned at construction.
func (s *Stack[T]) ID() string {
	return s.id
}

// Name returns the configured name, falling back to the id.
func (s *Stack[T]) Name() string {
	return s.channel.Name()
}

// Current returns the nearest node published at ctx, or nil when no scope
// encloses it.
func (s *Stack[T]) Current(ctx context.Context) *Node[T] {
	return s.channel.Lookup(ctx)
}

// With returns a child of ctx where value is appended to the stack.
func (s *Stack[T]) With(ctx context.Context, value T) context.Context {
	return s.publish(ctx, newNode(s.Current(ctx), value))
}

// Extend runs subtree with value appended to the stack and returns whatever
// subtree returns. Contexts outside subtree are unaffected.
func (s *Stack[T]) Extend(ctx context.Context, value T, subtree func(context.Context) error) error {
	inner := s.With(ctx, value)
	if subtree == nil {
		return nil
	}
	return subtree(inner)
}

// Materialize returns the values visible at ctx, outermost scope first. The
// result is cached on the nearest node: repeated reads return the same slice,
// which callers must not modify.
func (s *Stack[T]) Materialize(ctx context.Context) []T {
	node := s.Current(ctx)
	values := node.Values()
	s.observe(ctx, node, values)
	return values
}

// Depth reports how many scopes enclose ctx.
func (s *Stack[T]) Depth(ctx context.Context) int {
	return s.Current(ctx).Depth()
}

// Top returns the innermost value and whether any scope encloses ctx.
func (s *Stack[T]) Top(ctx context.Context) (T, bool) {
	node := s.Current(ctx)
	if node == nil {
		var zero T
		return zero, false
	}
	return node.Value(), true
}

// Boundary creates a re-entrant scope boundary bound to this stack.
func (s *Stack[T]) Boundary() *Boundary[T] {
	return &Boundary[T]{stack: s}
}

// Cursor starts an explicit traversal rooted at ctx's current node.
func (s *Stack[T]) Cursor(ctx context.Context) *Cursor[T] {
	return &Cursor[T]{stack: s, current: s.Current(ctx)}
}

func (s *Stack[T]) publish(ctx context.Context, node *Node[T]) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	s.cfg.logger.LogAttrs(ctx, slog.LevelDebug, "ctxstack: extended",
		slog.String("stack", s.Name()),
		slog.Int("depth", node.Depth()),
	)
	if s.emitter.Enabled() {
		err := s.emitter.Extended(ctx, node.Depth(), toAnySlice(node.Values()))
		s.hookFailed(ctx, activity.VerbStackExtended, err)
	}
	return s.channel.Publish(ctx, node)
}

// hookFailed logs err; activity hooks never fail the stack operation.
func (s *Stack[T]) hookFailed(ctx context.Context, verb string, err error) {
	if err == nil {
		return
	}
	s.cfg.logger.LogAttrs(ctx, slog.LevelWarn, "ctxstack: activity hook failed",
		slog.String("stack", s.Name()),
		slog.String("verb", verb),
		slog.Any("err", err),
	)
}

func toAnySlice[T any](values []T) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}
