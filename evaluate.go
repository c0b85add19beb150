package ctxstack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNoEvaluator indicates no evaluator could be resolved.
	ErrNoEvaluator = errors.New("ctxstack: evaluator not configured")
	// ErrNotBoolean indicates Match ran a rule that did not yield a bool.
	ErrNotBoolean = errors.New("ctxstack: rule result is not a boolean")
)

// Evaluate runs expr against the stack visible at ctx. Rules see the
// materialized values as stack, plus depth, top, root, name, now, args and
// metadata.
func (s *Stack[T]) Evaluate(ctx context.Context, expr string) (any, error) {
	rule, err := s.Compile(expr)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

// Match evaluates expr and requires a boolean result.
func (s *Stack[T]) Match(ctx context.Context, expr string) (bool, error) {
	value, err := s.Evaluate(ctx, expr)
	if err != nil {
		return false, err
	}
	return asBool(expr, value)
}

// Compile prepares expr once for evaluation at many positions. Compile
// failures are logged through the evaluator logger like failed runs.
// WithRuleArgs and WithRuleMetadata bind values the rule reads as args and
// metadata.
func (s *Stack[T]) Compile(expr string, opts ...CompileOption) (*Rule[T], error) {
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)

	var compiled CompiledRule
	if strings.TrimSpace(expr) == "" {
		err = compileError(engine, expr, ErrEmptyExpression)
	} else {
		compiled, err = evaluator.Compile(expr, opts...)
		err = compileError(engine, expr, err)
	}
	if err != nil {
		err = withStack(err, s.Name())
		s.logEvaluation(engine, expr, RuleContext{StackName: s.Name()}, 0, err)
		return nil, err
	}
	return &Rule[T]{
		stack:    s,
		engine:   engine,
		compiled: compiled,
		expr:     expr,
		bound:    applyCompileOptions(opts),
	}, nil
}

// Rule is a compiled expression bound to a stack.
type Rule[T any] struct {
	stack    *Stack[T]
	engine   string
	compiled CompiledRule
	expr     string
	bound    compileConfig
}

// Expr returns the source expression.
func (r *Rule[T]) Expr() string {
	return r.expr
}

// Evaluate runs the rule against the stack visible at ctx.
func (r *Rule[T]) Evaluate(ctx context.Context) (any, error) {
	rc := r.stack.ruleContext(ctx, r.bound)
	start := time.Now()
	value, err := r.compiled.Evaluate(rc)
	err = runError(r.engine, r.expr, rc, err)
	r.stack.logEvaluation(r.engine, r.expr, rc, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Match runs the rule and requires a boolean result.
func (r *Rule[T]) Match(ctx context.Context) (bool, error) {
	value, err := r.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	return asBool(r.expr, value)
}

func (s *Stack[T]) ruleContext(ctx context.Context, bound compileConfig) RuleContext {
	return RuleContext{
		Stack:     toAnySlice(s.Current(ctx).Values()),
		StackName: s.Name(),
		Args:      bound.args,
		Metadata:  bound.metadata,
	}.withDefaults()
}

func (s *Stack[T]) logEvaluation(engine, expr string, rc RuleContext, d time.Duration, err error) {
	s.cfg.evalLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Stack:    rc.label(),
		Depth:    len(rc.Stack),
		Duration: d,
		Err:      err,
	})
}

// resolveEvaluator returns the configured evaluator, building the default
// expr evaluator on first use.
func (s *Stack[T]) resolveEvaluator() (Evaluator, error) {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	evaluator := NewExprEvaluator(
		ExprWithProgramCache(s.cfg.programCache),
		ExprWithFunctionRegistry(s.cfg.functions),
	)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = evaluator
	return evaluator, nil
}

func asBool(expr string, value any) (bool, error) {
	matched, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T", ErrNotBoolean, expr, value)
	}
	return matched, nil
}

func evaluatorEngineName(e Evaluator) string {
	if named, ok := e.(interface{ engine() string }); ok {
		return named.engine()
	}
	return "custom"
}
