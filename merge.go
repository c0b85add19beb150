package ctxstack

import (
	"context"

	"github.com/goliatone/go-ctxstack/layering"
)

// Merge folds the values visible at ctx into one, with inner scopes
// overriding outer ones field by field. Useful when each scope contributes a
// partial override, such as nested theme or config fragments. The zero value
// is returned outside every scope.
func (s *Stack[T]) Merge(ctx context.Context) T {
	return layering.Merge(s.Current(ctx).Values()...)
}
