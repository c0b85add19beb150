package ctxstack

// engineConfig is shared by the built-in evaluators.
type engineConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

func applyEngineOptions[O ~func(*engineConfig)](opts []O) engineConfig {
	var cfg engineConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg *engineConfig) setRegistry(registry *FunctionRegistry) {
	if registry != nil {
		cfg.registry = registry.Clone()
	}
}

// ExprEvaluatorOption configures the expr evaluator.
type ExprEvaluatorOption func(*engineConfig)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(cfg *engineConfig) { cfg.cache = cache }
}

// ExprWithFunctionRegistry exposes registry functions to expr rules by name.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(cfg *engineConfig) { cfg.setRegistry(registry) }
}

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*engineConfig)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(cfg *engineConfig) { cfg.cache = cache }
}

// CELWithFunctionRegistry exposes registry functions to CEL rules. Each
// function is callable by name with one argument, and call(name, [args])
// reaches any of them with several.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(cfg *engineConfig) { cfg.setRegistry(registry) }
}

// JSEvaluatorOption configures the goja evaluator. The options exist in every
// build so callers compile with or without the js_eval tag.
type JSEvaluatorOption func(*engineConfig)

// JSWithProgramCache shares compiled goja programs.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(cfg *engineConfig) { cfg.cache = cache }
}

// JSWithFunctionRegistry exposes registry functions as JS globals.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(cfg *engineConfig) { cfg.setRegistry(registry) }
}
