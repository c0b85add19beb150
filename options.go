package ctxstack

import (
	"log/slog"

	"github.com/goliatone/go-ctxstack/internal/hydrate"
	"github.com/goliatone/go-ctxstack/internal/logging"
	"github.com/goliatone/go-ctxstack/pkg/activity"
)

// Option configures a Stack at construction.
type Option[T any] func(*config[T])

type config[T any] struct {
	name          string
	equal         func(a, b T) bool
	debugHook     func(DebugValue[T])
	logger        *slog.Logger
	activityHooks activity.Hooks
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	evalLogger    EvaluatorLogger
	restore       []hydrate.Option[T]
}

func applyOptions[T any](opts []Option[T]) config[T] {
	cfg := config[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.equal == nil {
		cfg.equal = defaultEqual[T]
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.evalLogger == nil {
		cfg.evalLogger = noopEvaluatorLogger{}
	}
	return cfg
}

// WithName labels the stack in logs, traces, and events.
func WithName[T any](name string) Option[T] {
	return func(cfg *config[T]) {
		cfg.name = name
	}
}

// WithEqual replaces the equality used by boundaries to decide whether a
// re-entered value changed.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(cfg *config[T]) {
		cfg.equal = equal
	}
}

// WithDebugHook registers fn to observe every materialized sequence.
func WithDebugHook[T any](fn func(DebugValue[T])) Option[T] {
	return func(cfg *config[T]) {
		cfg.debugHook = fn
	}
}

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(cfg *config[T]) {
		cfg.logger = logger
	}
}

// WithActivityHooks attaches activity hooks. Nil entries are dropped.
func WithActivityHooks[T any](hooks activity.Hooks) Option[T] {
	normalized := hooks.Clone()
	return func(cfg *config[T]) {
		cfg.activityHooks = normalized
	}
}

// WithEvaluator sets the rule evaluator. Defaults to the expr evaluator.
func WithEvaluator[T any](e Evaluator) Option[T] {
	return func(cfg *config[T]) {
		cfg.evaluator = e
	}
}

// WithProgramCache shares compiled rule programs across evaluations.
func WithProgramCache[T any](cache ProgramCache) Option[T] {
	return func(cfg *config[T]) {
		cfg.programCache = cache
	}
}

// WithFunctionRegistry exposes registry functions to rules. The registry is
// cloned.
func WithFunctionRegistry[T any](registry *FunctionRegistry) Option[T] {
	return func(cfg *config[T]) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers a single rule function.
func WithCustomFunction[T any](name string, fn Function) Option[T] {
	return func(cfg *config[T]) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithEvaluatorLogger records rule evaluations.
func WithEvaluatorLogger[T any](logger EvaluatorLogger) Option[T] {
	return func(cfg *config[T]) {
		cfg.evalLogger = logger
	}
}

// WithStrictRestore makes Restore reject frames whose objects carry fields T
// does not declare.
func WithStrictRestore[T any]() Option[T] {
	return func(cfg *config[T]) {
		cfg.restore = append(cfg.restore, hydrate.Strict[T]())
	}
}

// WithRestoreDecoder replaces the JSON conversion Restore applies to frame
// values that are not already a T.
func WithRestoreDecoder[T any](decode func(depth int, raw any) (T, error)) Option[T] {
	return func(cfg *config[T]) {
		if decode == nil {
			return
		}
		cfg.restore = append(cfg.restore, hydrate.Using(func(f hydrate.Frame, raw any) (T, error) {
			return decode(f.Depth, raw)
		}))
	}
}

// WithRestoreValidator checks every restored value before the chain is
// published.
func WithRestoreValidator[T any](validate func(depth int, value T) error) Option[T] {
	return func(cfg *config[T]) {
		if validate == nil {
			return
		}
		cfg.restore = append(cfg.restore, hydrate.Validate(func(f hydrate.Frame, value *T) error {
			return validate(f.Depth, *value)
		}))
	}
}
