package ctxstack

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrUnknownFunction is returned when a rule calls an unregistered name.
	ErrUnknownFunction = errors.New("ctxstack: unknown rule function")
	// ErrDuplicateFunction is returned when a name is registered twice.
	ErrDuplicateFunction = errors.New("ctxstack: rule function already registered")
)

// Function is a helper rules can call by name, for example to format a
// stack value or look something up for the current position.
type Function func(args ...any) (any, error)

// FunctionRegistry holds rule functions. Names are case-insensitive and
// exposed to rules in lower case.
type FunctionRegistry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{funcs: map[string]Function{}}
}

// Register adds fn under name.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := normalizeFunctionName(name)
	switch {
	case key == "":
		return fmt.Errorf("ctxstack: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("ctxstack: function %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.funcs[key]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateFunction, name)
	}
	if r.funcs == nil {
		r.funcs = map[string]Function{}
	}
	r.funcs[key] = fn
	return nil
}

// Clone returns an independent copy; later registrations on either side are
// not shared.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	funcs := maps.Clone(r.funcs)
	if funcs == nil {
		funcs = map[string]Function{}
	}
	return &FunctionRegistry{funcs: funcs}
}

// Call runs the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	fn, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return fn(args...)
}

// Names returns the registered names, sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.funcs))
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

func (r *FunctionRegistry) lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[normalizeFunctionName(name)]
	return fn, ok
}

func normalizeFunctionName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
