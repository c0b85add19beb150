package ctxstack

import "strings"

// ruleEngine adapts one expression language to Evaluator. Programs of type P
// are compiled once per expression through the optional ProgramCache and run
// against a RuleContext.
type ruleEngine[P any] struct {
	name    string
	cache   ProgramCache
	compile func(expr string) (P, error)
	run     func(program P, rc RuleContext) (any, error)
}

func (e *ruleEngine[P]) engine() string {
	return e.name
}

func (e *ruleEngine[P]) Evaluate(rc RuleContext, expr string) (any, error) {
	program, err := e.program(expr)
	if err != nil {
		return nil, err
	}
	return e.exec(program, expr, rc)
}

func (e *ruleEngine[P]) Compile(expr string, _ ...CompileOption) (CompiledRule, error) {
	program, err := e.program(expr)
	if err != nil {
		return nil, err
	}
	return &compiledProgram[P]{engine: e, expr: expr, program: program}, nil
}

func (e *ruleEngine[P]) program(expr string) (P, error) {
	var zero P
	if strings.TrimSpace(expr) == "" {
		return zero, compileError(e.name, expr, ErrEmptyExpression)
	}
	key := cacheKey(e.name, expr)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(P); ok {
				return program, nil
			}
		}
	}
	program, err := e.compile(expr)
	if err != nil {
		return zero, compileError(e.name, expr, err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *ruleEngine[P]) exec(program P, expr string, rc RuleContext) (any, error) {
	rc = rc.withDefaults()
	out, err := e.run(program, rc)
	if err != nil {
		return nil, runError(e.name, expr, rc, err)
	}
	return out, nil
}

type compiledProgram[P any] struct {
	engine  *ruleEngine[P]
	expr    string
	program P
}

func (c *compiledProgram[P]) Evaluate(rc RuleContext) (any, error) {
	return c.engine.exec(c.program, c.expr, rc)
}
