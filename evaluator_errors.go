package ctxstack

import (
	"errors"
	"fmt"
	"strings"
)

// Rule phases reported by EvaluationError.
const (
	PhaseCompile = "compile"
	PhaseRun     = "run"
)

// ErrEmptyExpression is returned for blank rule sources.
var ErrEmptyExpression = errors.New("expression must not be empty")

// EvaluationError reports a rule that failed to compile or run. Stack and
// Depth describe the position a run failed at; compile failures leave Depth
// at zero.
type EvaluationError struct {
	Engine string
	Phase  string
	Expr   string
	Stack  string
	Depth  int
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ctxstack: %s %s", e.Engine, e.Phase)
	if e.Expr != "" {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	if e.Stack != "" {
		fmt.Fprintf(&b, " on %s", e.Stack)
		if e.Phase == PhaseRun {
			fmt.Fprintf(&b, "@%d", e.Depth)
		}
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func compileError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	if existing, ok := asEvaluationError(err); ok {
		existing.fill(engine, PhaseCompile, expr, "")
		return err
	}
	return &EvaluationError{Engine: engine, Phase: PhaseCompile, Expr: expr, Err: err}
}

func runError(engine, expr string, rc RuleContext, err error) error {
	if err == nil {
		return nil
	}
	if existing, ok := asEvaluationError(err); ok {
		existing.fill(engine, PhaseRun, expr, rc.label())
		return err
	}
	return &EvaluationError{
		Engine: engine,
		Phase:  PhaseRun,
		Expr:   expr,
		Stack:  rc.label(),
		Depth:  len(rc.Stack),
		Err:    err,
	}
}

// withStack names the stack on an EvaluationError that was raised before a
// position was known, such as a compile failure.
func withStack(err error, stack string) error {
	if existing, ok := asEvaluationError(err); ok && existing.Stack == "" {
		existing.Stack = stack
	}
	return err
}

func asEvaluationError(err error) (*EvaluationError, bool) {
	var evalErr *EvaluationError
	ok := errors.As(err, &evalErr)
	return evalErr, ok
}

// fill sets only the fields that are still blank.
func (e *EvaluationError) fill(engine, phase, expr, stack string) {
	for _, f := range []struct {
		dst *string
		val string
	}{
		{&e.Engine, engine},
		{&e.Phase, phase},
		{&e.Expr, expr},
		{&e.Stack, stack},
	} {
		if *f.dst == "" {
			*f.dst = f.val
		}
	}
}
