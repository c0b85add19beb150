//go:build !js_eval

package ctxstack

// NewJSEvaluator returns nil unless built with the js_eval tag.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyEngineOptions(opts)
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
