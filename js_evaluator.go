//go:build js_eval

package ctxstack

import (
	"strings"

	"github.com/dop251/goja"
)

// NewJSEvaluator constructs an Evaluator backed by goja. Each rule runs as
// the body of a function expression, so `top > 1` and `return top > 1` both
// work.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	cfg := applyEngineOptions(opts)
	return &ruleEngine[*goja.Program]{
		name:  "js",
		cache: cfg.cache,
		compile: func(expr string) (*goja.Program, error) {
			return goja.Compile("rule", jsRuleSource(expr), true)
		},
		run: func(program *goja.Program, rc RuleContext) (any, error) {
			return runJSRule(program, rc, cfg.registry)
		},
	}
}

// runJSRule uses a fresh runtime per evaluation; goja runtimes are not safe
// for concurrent use.
func runJSRule(program *goja.Program, rc RuleContext, registry *FunctionRegistry) (any, error) {
	vm := goja.New()
	for key, value := range rc.bindings() {
		if err := vm.Set(key, value); err != nil {
			return nil, err
		}
	}
	if registry != nil {
		if err := vm.Set("call", registry.Call); err != nil {
			return nil, err
		}
		for _, name := range registry.Names() {
			fn := func(args ...any) (any, error) { return registry.Call(name, args...) }
			if err := vm.Set(name, fn); err != nil {
				return nil, err
			}
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func jsRuleSource(expr string) string {
	if strings.HasPrefix(strings.TrimSpace(expr), "return ") {
		return "(function(){ " + expr + " })()"
	}
	return "(function(){ return (" + expr + "); })()"
}

func jsEvaluatorAvailable() bool {
	return true
}
