package activity

const (
	// VerbStackExtended is emitted when a scope publishes a new node.
	VerbStackExtended = "stack.extended"
	// VerbStackMaterialized is emitted when a position reads its stack.
	VerbStackMaterialized = "stack.materialized"
)

// Source identifies the stack an event is about.
type Source struct {
	StackID   string
	StackName string
}

// NewStackEvent builds an event for source at depth. When values is not
// empty the innermost value is copied into metadata under "top".
func NewStackEvent(verb string, source Source, depth int, values []any) Event {
	event := Event{
		Verb:      verb,
		StackID:   source.StackID,
		StackName: source.StackName,
		Depth:     depth,
		Values:    values,
	}
	if n := len(values); n > 0 {
		event.Metadata = map[string]any{"top": values[n-1]}
	}
	return event
}
