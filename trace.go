package ctxstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-ctxstack/internal/hydrate"
)

// ErrInvalidTrace reports a trace whose frames do not describe a chain.
var ErrInvalidTrace = errors.New("ctxstack: invalid trace")

// Trace is a serialisable snapshot of the stack visible at one position.
type Trace struct {
	StackID   string  `json:"stack_id"`
	StackName string  `json:"stack_name,omitempty"`
	Depth     int     `json:"depth"`
	Frames    []Frame `json:"frames"`
}

// Frame is one value in a trace. Depth starts at 1 for the outermost scope.
type Frame struct {
	Depth int `json:"depth"`
	Value any `json:"value"`
}

// Trace captures the stack visible at ctx without notifying debug hooks.
func (s *Stack[T]) Trace(ctx context.Context) Trace {
	node := s.Current(ctx)
	values := node.Values()
	frames := make([]Frame, len(values))
	for i, value := range values {
		frames[i] = Frame{Depth: i + 1, Value: value}
	}
	return Trace{
		StackID:   s.id,
		StackName: s.Name(),
		Depth:     node.Depth(),
		Frames:    frames,
	}
}

// Restore rebuilds the chain described by trace on top of whatever ctx
// already publishes and returns a context positioned at its innermost frame.
// Frame values that are not already a T are decoded through JSON unless
// WithRestoreDecoder says otherwise. Nothing is published when any frame
// fails.
func (s *Stack[T]) Restore(ctx context.Context, trace Trace) (context.Context, error) {
	if err := trace.validate(); err != nil {
		return nil, err
	}
	if len(trace.Frames) == 0 {
		if ctx == nil {
			ctx = context.Background()
		}
		return ctx, nil
	}

	decoder := hydrate.New[T](s.cfg.restore...)
	node := s.Current(ctx)
	for _, frame := range trace.Frames {
		value, err := decoder.Decode(hydrate.Frame{Stack: trace.StackName, Depth: frame.Depth}, frame.Value)
		if err != nil {
			return nil, fmt.Errorf("ctxstack: restore frame %d: %w", frame.Depth, err)
		}
		node = newNode(node, value)
	}
	return s.publish(ctx, node), nil
}

func (t Trace) validate() error {
	if t.Depth != len(t.Frames) {
		return fmt.Errorf("%w: depth %d with %d frames", ErrInvalidTrace, t.Depth, len(t.Frames))
	}
	for i, frame := range t.Frames {
		if frame.Depth != i+1 {
			return fmt.Errorf("%w: frame %d has depth %d", ErrInvalidTrace, i, frame.Depth)
		}
	}
	return nil
}

// Values returns the frame values outermost first.
func (t Trace) Values() []any {
	out := make([]any, len(t.Frames))
	for i, frame := range t.Frames {
		out[i] = frame.Value
	}
	return out
}

// ToJSON serialises the trace for logging or debugging tools.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
