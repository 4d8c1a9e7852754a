package steering

// WeightedBehavior pairs a child behavior with its blend weight. The behavior is not
// owned by the combinator; it must outlive every evaluation of it.
type WeightedBehavior struct {
	Behavior Behavior
	Weight   float64
}

// Blended sums the weighted outputs of its valid children. Weights are not normalized.
// Entries with a nil behavior or a weight that is not positive (NaN included) are skipped,
// as are invalid child outputs. If nothing contributes the result is invalid with zero
// velocities.
type Blended struct {
	baseBehavior
	entries []WeightedBehavior
}

var _ Composite = (*Blended)(nil)

func NewBlended(entries ...WeightedBehavior) *Blended {
	return &Blended{entries: append([]WeightedBehavior(nil), entries...)}
}

func (b *Blended) CalculateSteering(dt float64, agent Agent) Output {
	var out Output
	for _, e := range b.entries {
		if isNil(e.Behavior) || !(e.Weight > 0) {
			continue
		}
		single := e.Behavior.CalculateSteering(dt, agent)
		if !single.IsValid {
			continue
		}
		out.LinearVelocity = out.LinearVelocity.Add(single.LinearVelocity.Mul(e.Weight))
		out.AngularVelocity += single.AngularVelocity * e.Weight
		out.IsValid = true
	}

	if out.IsValid {
		if d := drawerFor(agent); d != nil {
			from := agent.Position()
			d.Arrow(from, from.Add(out.LinearVelocity.Mul(agent.MaxLinearSpeed()*dt)), ColorRed)
		}
	}
	return out
}

// Children returns the child behaviors in entry order.
func (b *Blended) Children() []Behavior {
	children := make([]Behavior, len(b.entries))
	for i, e := range b.entries {
		children[i] = e.Behavior
	}
	return children
}

// Entries returns a copy of the weighted entries.
func (b *Blended) Entries() []WeightedBehavior {
	return append([]WeightedBehavior(nil), b.entries...)
}

// Len returns the number of entries.
func (b *Blended) Len() int { return len(b.entries) }

// Weight returns a mutable handle to the weight of the first entry holding behavior.
// The handle stays valid for the lifetime of the combinator.
func (b *Blended) Weight(behavior Behavior) (*float64, bool) {
	if isNil(behavior) || !Identifiable(behavior) {
		return nil, false
	}
	for i := range b.entries {
		if b.entries[i].Behavior == behavior {
			return &b.entries[i].Weight, true
		}
	}
	return nil, false
}

// SetWeight sets the weight of the entry holding behavior.
func (b *Blended) SetWeight(behavior Behavior, weight float64) bool {
	w, ok := b.Weight(behavior)
	if ok {
		*w = weight
	}
	return ok
}

// WeightAt returns the weight of the i-th entry.
func (b *Blended) WeightAt(i int) (float64, bool) {
	if i < 0 || i >= len(b.entries) {
		return 0, false
	}
	return b.entries[i].Weight, true
}

// SetWeightAt sets the weight of the i-th entry.
func (b *Blended) SetWeightAt(i int, weight float64) bool {
	if i < 0 || i >= len(b.entries) {
		return false
	}
	b.entries[i].Weight = weight
	return true
}
