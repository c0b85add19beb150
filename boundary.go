package ctxstack

import (
	"context"
	"reflect"
	"sync"
)

// Boundary is a scope that is entered repeatedly at the same tree position,
// for example a component that re-renders. It keeps the node it built last
// time and reuses it while both the parent node and the value are unchanged,
// so materializations below it keep returning the same cached slice.
type Boundary[T any] struct {
	stack *Stack[T]

	mu     sync.Mutex
	parent *Node[T]
	node   *Node[T]
}

// Enter returns a child of ctx publishing this boundary's node for value.
func (b *Boundary[T]) Enter(ctx context.Context, value T) context.Context {
	parent := b.stack.Current(ctx)

	b.mu.Lock()
	if b.node != nil && b.parent == parent && b.stack.cfg.equal(b.node.value, value) {
		node := b.node
		b.mu.Unlock()
		return b.stack.channel.Publish(ctx, node)
	}
	node := newNode(parent, value)
	b.parent = parent
	b.node = node
	b.mu.Unlock()

	return b.stack.publish(ctx, node)
}

// Render enters the boundary and runs subtree below it.
func (b *Boundary[T]) Render(ctx context.Context, value T, subtree func(context.Context) error) error {
	inner := b.Enter(ctx, value)
	if subtree == nil {
		return nil
	}
	return subtree(inner)
}

// Node returns the node built by the most recent Enter, or nil.
func (b *Boundary[T]) Node() *Node[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.node
}

// defaultEqual compares with == when the dynamic values are comparable.
// Slices, maps, and funcs never compare equal, so a boundary holding them
// always rebuilds its node.
func defaultEqual[T any](a, b T) bool {
	va := reflect.ValueOf(any(a))
	vb := reflect.ValueOf(any(b))
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}
