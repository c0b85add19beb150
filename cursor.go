package ctxstack

import "context"

// Cursor tracks the current node during a hand-written tree walk. Push before
// descending into a child, Pop after returning. A Cursor is not safe for
// concurrent use.
type Cursor[T any] struct {
	stack   *Stack[T]
	current *Node[T]
	saved   []*Node[T]
}

// Push appends value below the current node and makes it current.
func (c *Cursor[T]) Push(value T) *Node[T] {
	c.saved = append(c.saved, c.current)
	c.current = newNode(c.current, value)
	return c.current
}

// Pop restores the node that was current before the last Push and returns
// the popped value. It reports false when nothing was pushed.
func (c *Cursor[T]) Pop() (T, bool) {
	if len(c.saved) == 0 {
		var zero T
		return zero, false
	}
	popped := c.current
	last := len(c.saved) - 1
	c.current = c.saved[last]
	c.saved[last] = nil
	c.saved = c.saved[:last]
	return popped.Value(), true
}

// Enter pushes value, runs fn, and restores the previous node even if fn
// panics.
func (c *Cursor[T]) Enter(value T, fn func() error) error {
	c.Push(value)
	defer c.Pop()
	if fn == nil {
		return nil
	}
	return fn()
}

// Current returns the current node, nil at the root.
func (c *Cursor[T]) Current() *Node[T] {
	return c.current
}

// Depth reports the depth of the current node.
func (c *Cursor[T]) Depth() int {
	return c.current.Depth()
}

// Materialize returns the values of the current node, outermost first.
func (c *Cursor[T]) Materialize() []T {
	return c.current.Values()
}

// Context publishes the current node on ctx so context-based readers of the
// same stack see the cursor's position.
func (c *Cursor[T]) Context(ctx context.Context) context.Context {
	if c.stack == nil {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return c.stack.channel.Publish(ctx, c.current)
}
