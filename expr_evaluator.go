package ctxstack

import (
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// exprEnv is the typed environment expr rules compile against, so unknown
// identifiers fail at compile time.
type exprEnv struct {
	Stack    []any          `expr:"stack"`
	Depth    int            `expr:"depth"`
	Top      any            `expr:"top"`
	Root     any            `expr:"root"`
	Name     string         `expr:"name"`
	Now      time.Time      `expr:"now"`
	Args     map[string]any `expr:"args"`
	Metadata map[string]any `expr:"metadata"`

	Call func(name string, args ...any) (any, error) `expr:"call"`
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr. It is
// the default evaluator of every Stack.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	cfg := applyEngineOptions(opts)

	compileOpts := []exprlang.Option{exprlang.Env(exprEnv{})}
	for _, name := range cfg.registry.Names() {
		compileOpts = append(compileOpts, exprlang.Function(name, func(args ...any) (any, error) {
			return cfg.registry.Call(name, args...)
		}))
	}

	return &ruleEngine[*exprvm.Program]{
		name:  "expr",
		cache: cfg.cache,
		compile: func(expr string) (*exprvm.Program, error) {
			return exprlang.Compile(expr, compileOpts...)
		},
		run: func(program *exprvm.Program, rc RuleContext) (any, error) {
			return exprlang.Run(program, newExprEnv(rc, cfg.registry))
		},
	}
}

func newExprEnv(rc RuleContext, registry *FunctionRegistry) exprEnv {
	root, top := rc.ends()
	env := exprEnv{
		Stack:    rc.Stack,
		Depth:    len(rc.Stack),
		Top:      top,
		Root:     root,
		Name:     rc.StackName,
		Now:      rc.timestamp(),
		Args:     rc.Args,
		Metadata: rc.Metadata,
	}
	if registry != nil {
		env.Call = registry.Call
	}
	return env
}
