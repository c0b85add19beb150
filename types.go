package ctxstack

import (
	"maps"
	"time"
)

// RuleContext carries the inputs a rule sees when evaluated at a position.
type RuleContext struct {
	Stack     []any
	Now       *time.Time
	Args      map[string]any
	Metadata  map[string]any
	StackName string
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	if ctx.Stack == nil {
		ctx.Stack = []any{}
	}
	return ctx
}

func (ctx RuleContext) label() string {
	if ctx.StackName != "" {
		return ctx.StackName
	}
	return "unknown"
}

// ends returns the outermost and innermost values, nil when empty.
func (ctx RuleContext) ends() (root, top any) {
	if n := len(ctx.Stack); n > 0 {
		return ctx.Stack[0], ctx.Stack[n-1]
	}
	return nil, nil
}

// bindings are the variables every evaluator exposes: stack, depth, top,
// root, name, now, args, and metadata.
func (ctx RuleContext) bindings() map[string]any {
	root, top := ctx.ends()
	return map[string]any{
		"stack":    ctx.Stack,
		"depth":    len(ctx.Stack),
		"top":      top,
		"root":     root,
		"name":     ctx.StackName,
		"now":      ctx.timestamp(),
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
	}
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct {
	args     map[string]any
	metadata map[string]any
}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	f(cfg)
}

// WithRuleArgs binds args to a compiled rule. Rules read them as args.
func WithRuleArgs(args map[string]any) CompileOption {
	return compileOptionFunc(func(cfg *compileConfig) {
		cfg.args = maps.Clone(args)
	})
}

// WithRuleMetadata binds metadata to a compiled rule. Rules read it as
// metadata.
func WithRuleMetadata(metadata map[string]any) CompileOption {
	return compileOptionFunc(func(cfg *compileConfig) {
		cfg.metadata = maps.Clone(metadata)
	})
}

func applyCompileOptions(opts []CompileOption) compileConfig {
	var cfg compileConfig
	for _, opt := range opts {
		if opt != nil {
			opt.applyCompileOption(&cfg)
		}
	}
	return cfg
}
