package ctxstack

import (
	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// NewCELEvaluator constructs an Evaluator backed by cel-go. The environment
// declares the stack bindings with their types, so rules are type-checked
// at compile time. Registered functions whose names CEL already declares,
// such as double or size, are left to the builtin and stay reachable through
// call(name, [args]).
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	cfg := applyEngineOptions(opts)
	env, envErr := newCELEnv(cfg.registry)

	return &ruleEngine[celgo.Program]{
		name:  "cel",
		cache: cfg.cache,
		compile: func(expr string) (celgo.Program, error) {
			if envErr != nil {
				return nil, envErr
			}
			ast, issues := env.Compile(expr)
			if issues != nil && issues.Err() != nil {
				return nil, issues.Err()
			}
			return env.Program(ast)
		},
		run: func(program celgo.Program, rc RuleContext) (any, error) {
			out, _, err := program.Eval(rc.bindings())
			if err != nil {
				return nil, err
			}
			return out.Value(), nil
		},
	}
}

func newCELEnv(registry *FunctionRegistry) (*celgo.Env, error) {
	env, err := celgo.NewEnv(celEnvOptions(registry)...)
	if err != nil || registry == nil {
		return env, err
	}
	for _, name := range registry.Names() {
		if env.HasFunction(name) {
			continue
		}
		extended, extendErr := env.Extend(celRegistryFunction(registry, name))
		if extendErr != nil {
			continue
		}
		env = extended
	}
	return env, nil
}

func celEnvOptions(registry *FunctionRegistry) []celgo.EnvOption {
	opts := []celgo.EnvOption{
		celgo.Variable("stack", celgo.ListType(celgo.DynType)),
		celgo.Variable("depth", celgo.IntType),
		celgo.Variable("top", celgo.DynType),
		celgo.Variable("root", celgo.DynType),
		celgo.Variable("name", celgo.StringType),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("metadata", celgo.MapType(celgo.StringType, celgo.DynType)),
	}
	if registry == nil {
		return opts
	}

	return append(opts, celgo.Function("call",
		celgo.Overload("call_string_list",
			[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
			celgo.DynType,
			celgo.BinaryBinding(func(name, args ref.Val) ref.Val {
				fn, ok := name.Value().(string)
				if !ok {
					return types.NewErr("call: function name must be a string")
				}
				list, ok := args.(traits.Lister)
				if !ok {
					return types.NewErr("call: arguments must be a list")
				}
				return celCall(registry, fn, celListValues(list)...)
			}),
		),
	))
}

// celRegistryFunction declares name as a unary dyn function.
func celRegistryFunction(registry *FunctionRegistry, name string) celgo.EnvOption {
	return celgo.Function(name,
		celgo.Overload(name+"_dyn",
			[]*celgo.Type{celgo.DynType},
			celgo.DynType,
			celgo.UnaryBinding(func(arg ref.Val) ref.Val {
				return celCall(registry, name, arg.Value())
			}),
		),
	)
}

func celListValues(list traits.Lister) []any {
	size, _ := list.Size().Value().(int64)
	values := make([]any, 0, size)
	for i := int64(0); i < size; i++ {
		values = append(values, list.Get(types.Int(i)).Value())
	}
	return values
}

func celCall(registry *FunctionRegistry, name string, args ...any) ref.Val {
	result, err := registry.Call(name, args...)
	if err != nil {
		return types.NewErr("%v", err)
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}
