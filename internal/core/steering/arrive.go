package steering

const (
	DefaultSlowRadius   = 600.0
	DefaultTargetRadius = 100.0

	uncaptured = -1.0
)

// ArrivalBand is the distance regime Arrive selected on its last evaluation.
type ArrivalBand int

const (
	BandNone ArrivalBand = iota
	BandFull
	BandSlowing
	BandStopped
)

func (b ArrivalBand) String() string {
	switch b {
	case BandFull:
		return "Full"
	case BandSlowing:
		return "Slowing"
	case BandStopped:
		return "Stopped"
	default:
		return "None"
	}
}

// Arrive seeks the target and decelerates by lowering the agent's speed cap: full speed
// outside SlowRadius, a linear ramp down to zero at TargetRadius, stopped inside it.
//
// The agent's original cap is captured on the first evaluation and stays bound to that
// agent until released. If TargetRadius >= SlowRadius the behavior always stops.
type Arrive struct {
	baseBehavior
	SlowRadius   float64
	TargetRadius float64

	originalMaxSpeed float64
	captured         bool
	bound            Agent
	band             ArrivalBand
}

var _ Releaser = (*Arrive)(nil)

func NewArrive() *Arrive {
	return &Arrive{SlowRadius: DefaultSlowRadius, TargetRadius: DefaultTargetRadius}
}

// OriginalMaxSpeed returns the captured speed cap, or a negative value before capture.
func (a *Arrive) OriginalMaxSpeed() float64 {
	if !a.captured {
		return uncaptured
	}
	return a.originalMaxSpeed
}

// BoundAgent returns the agent this behavior is bound to, if any.
func (a *Arrive) BoundAgent() Agent { return a.bound }

// Band returns the band chosen on the last evaluation.
func (a *Arrive) Band() ArrivalBand { return a.band }

func (a *Arrive) CalculateSteering(_ float64, agent Agent) Output {
	if agent == nil {
		return Output{}
	}
	if a.bound != nil && a.bound != agent {
		return Output{}
	}
	if a.bound == nil {
		a.bound = agent
	}
	if !a.captured {
		a.originalMaxSpeed = agent.MaxLinearSpeed()
		a.captured = true
	}

	pos := agent.Position()
	toTarget := a.target.Position.Sub(pos)
	distance := toTarget.Len()

	switch {
	case a.TargetRadius >= a.SlowRadius, distance < a.TargetRadius:
		a.band = BandStopped
		agent.SetMaxLinearSpeed(0)
	case distance > a.SlowRadius:
		a.band = BandFull
		agent.SetMaxLinearSpeed(a.originalMaxSpeed)
	default:
		a.band = BandSlowing
		agent.SetMaxLinearSpeed(a.originalMaxSpeed * (distance - a.TargetRadius) / (a.SlowRadius - a.TargetRadius))
	}

	if d := drawerFor(agent); d != nil {
		d.Circle(a.target.Position, a.SlowRadius, ColorYellow)
		d.Circle(a.target.Position, a.TargetRadius, ColorRed)
		d.Line(pos, a.target.Position, ColorCyan)
	}
	return Output{LinearVelocity: toTarget, IsValid: true}
}

// Bind attaches the behavior to agent ahead of its first evaluation and returns a guard
// whose Release restores the agent's original speed cap. Binding again to the same agent
// returns a fresh guard over the same binding.
func (a *Arrive) Bind(agent Agent) (*Binding, error) {
	if agent == nil {
		return nil, ErrNilAgent
	}
	if a.bound != nil && a.bound != agent {
		return nil, ErrAlreadyBound
	}
	a.bound = agent
	return &Binding{arrive: a, agent: agent}, nil
}

// Release restores the bound agent's original speed cap if it was captured, then detaches
// the behavior. It restores at most once per capture.
func (a *Arrive) Release() bool {
	restored := false
	if a.bound != nil && a.captured {
		a.bound.SetMaxLinearSpeed(a.originalMaxSpeed)
		restored = true
	}
	a.bound = nil
	a.captured = false
	a.originalMaxSpeed = 0
	a.band = BandNone
	return restored
}

// Binding is the scoped attachment of an Arrive behavior to one agent.
//
//	b, err := arrive.Bind(agent)
//	if err != nil { ... }
//	defer b.Release()
type Binding struct {
	arrive   *Arrive
	agent    Agent
	released bool
}

// Agent returns the agent the binding was created for.
func (b *Binding) Agent() Agent { return b.agent }

// Release restores the agent's speed cap. Only the first call has any effect, and nothing
// happens if the behavior has since been bound elsewhere.
func (b *Binding) Release() bool {
	if b == nil || b.released {
		return false
	}
	b.released = true
	if b.arrive.bound != b.agent {
		return false
	}
	return b.arrive.Release()
}

