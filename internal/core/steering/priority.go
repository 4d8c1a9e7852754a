package steering

// Priority evaluates its children in order and returns the first valid output; list order
// is the ranking. If no child is valid it returns the last evaluated output, or the zero
// (invalid) output when there was nothing to evaluate.
type Priority struct {
	baseBehavior
	behaviors []Behavior
}

var _ Composite = (*Priority)(nil)

func NewPriority(behaviors ...Behavior) *Priority {
	return &Priority{behaviors: append([]Behavior(nil), behaviors...)}
}

func (p *Priority) CalculateSteering(dt float64, agent Agent) Output {
	var out Output
	for _, b := range p.behaviors {
		if isNil(b) {
			continue
		}
		out = b.CalculateSteering(dt, agent)
		if out.IsValid {
			return out
		}
	}
	return out
}

// Children returns the child behaviors in priority order.
func (p *Priority) Children() []Behavior {
	return append([]Behavior(nil), p.behaviors...)
}
