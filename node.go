package ctxstack

import (
	"iter"
	"slices"
	"sync"
)

// Node is one immutable link in a stack chain. It pairs the value contributed
// at a tree position with the node published by the nearest enclosing scope.
// A nil *Node represents the absent root and is safe to call methods on.
type Node[T any] struct {
	value  T
	parent *Node[T]
	depth  int

	once   sync.Once
	values []T
}

func newNode[T any](parent *Node[T], value T) *Node[T] {
	return &Node[T]{
		value:  value,
		parent: parent,
		depth:  parent.Depth() + 1,
	}
}

// Value returns the payload stored on the node. The zero value is returned
// for a nil node.
func (n *Node[T]) Value() T {
	if n == nil {
		var zero T
		return zero
	}
	return n.value
}

// Parent returns the enclosing node, or nil at the outermost scope.
func (n *Node[T]) Parent() *Node[T] {
	if n == nil {
		return nil
	}
	return n.parent
}

// Depth reports how many nodes the chain holds, counting n itself.
func (n *Node[T]) Depth() int {
	if n == nil {
		return 0
	}
	return n.depth
}

// Values returns the chain ordered from the outermost scope to n. The slice
// is computed once per node and shared by every caller, so it must be treated
// as read-only. Its capacity is clipped, appending to it allocates.
func (n *Node[T]) Values() []T {
	if n == nil {
		return []T{}
	}
	n.once.Do(func() {
		out := make([]T, n.depth)
		i := n.depth - 1
		for p := n; p != nil; p = p.parent {
			out[i] = p.value
			i--
		}
		n.values = slices.Clip(out)
	})
	return n.values
}

// All iterates the chain root-first yielding the zero-based position of each
// value.
func (n *Node[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, value := range n.Values() {
			if !yield(i, value) {
				return
			}
		}
	}
}
