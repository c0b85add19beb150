package ctxstack

import (
	"errors"
	"testing"
)

func TestRunErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	rc := RuleContext{Stack: []any{1, 4}, StackName: "headings"}
	err := runError("expr", "top && missing", rc, base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" || evalErr.Phase != PhaseRun {
		t.Fatalf("unexpected engine/phase: %+v", evalErr)
	}
	if evalErr.Expr != "top && missing" {
		t.Fatalf("expected expression metadata, got %q", evalErr.Expr)
	}
	if evalErr.Stack != "headings" || evalErr.Depth != 2 {
		t.Fatalf("expected position metadata, got %q@%d", evalErr.Stack, evalErr.Depth)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
	if got, want := err.Error(), `ctxstack: expr run "top && missing" on headings@2: boom`; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestCompileErrorFillsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{
		Engine: "expr",
		Err:    base,
	}

	err := compileError("cel", "rule", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "rule" || existing.Phase != PhaseCompile {
		t.Fatalf("blanks should be filled, got %+v", existing)
	}

	withStack(err, "breadcrumbs")
	if existing.Stack != "breadcrumbs" {
		t.Fatalf("stack should be filled, got %q", existing.Stack)
	}
	if got, want := err.Error(), `ctxstack: expr compile "rule" on breadcrumbs: compile failure`; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestErrorHelpersKeepNil(t *testing.T) {
	if compileError("expr", "x", nil) != nil || runError("expr", "x", RuleContext{}, nil) != nil {
		t.Fatalf("nil errors must stay nil")
	}
	if withStack(nil, "s") != nil {
		t.Fatalf("withStack(nil) must stay nil")
	}
	var nilErr *EvaluationError
	if nilErr.Error() != "<nil>" || nilErr.Unwrap() != nil {
		t.Fatalf("nil receiver should be safe")
	}
}

func TestEmptyExpressionIsCompileError(t *testing.T) {
	_, err := New[int]().Compile("  ")
	if !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Phase != PhaseCompile {
		t.Fatalf("expected compile-phase EvaluationError, got %v", err)
	}
}
