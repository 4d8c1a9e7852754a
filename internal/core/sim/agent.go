package sim

import (
	"github.com/zeusync/steering/internal/core/steering"
	"github.com/zeusync/steering/internal/core/systems/physics"
)

var (
	_ steering.Agent       = (*Agent)(nil)
	_ steering.DebugSource = (*Agent)(nil)
)

// AgentSpec describes an agent to spawn.
type AgentSpec struct {
	Name        string
	Position    steering.Vec2
	Orientation float64
	MaxSpeed    float64
	MaxSpin     float64
	AutoOrient  bool
	Debug       bool
	Drawer      steering.DebugDrawer
	Behavior    steering.Behavior
	Feeds       []Feed
}

// Agent is a body driven by one behavior tree. Its state is only mutated by the World
// that owns it, so read it between Step calls.
type Agent struct {
	id       string
	name     string
	body     physics.Body
	behavior steering.Behavior
	feeds    []Feed
	debug    bool
	drawer   steering.DebugDrawer
	last     steering.Output
	removed  bool
}

func newAgent(id string, spec AgentSpec) *Agent {
	return &Agent{
		id:   id,
		name: spec.Name,
		body: physics.Body{
			Pos:        spec.Position,
			Rotation:   physics.NormalizeDegrees(spec.Orientation),
			MaxSpeed:   spec.MaxSpeed,
			MaxSpin:    spec.MaxSpin,
			AutoOrient: spec.AutoOrient,
		},
		behavior: spec.Behavior,
		feeds:    append([]Feed(nil), spec.Feeds...),
		debug:    spec.Debug,
		drawer:   spec.Drawer,
	}
}

func (a *Agent) ID() string   { return a.id }
func (a *Agent) Name() string { return a.name }

func (a *Agent) Position() steering.Vec2       { return a.body.Position() }
func (a *Agent) Orientation() float64          { return a.body.Orientation() }
func (a *Agent) LinearVelocity() steering.Vec2 { return a.body.LinearVelocity() }
func (a *Agent) AngularVelocity() float64      { return a.body.AngularVelocity() }

func (a *Agent) MaxLinearSpeed() float64           { return a.body.MaxSpeed }
func (a *Agent) SetMaxLinearSpeed(speed float64)   { a.body.MaxSpeed = speed }
func (a *Agent) DebugEnabled() bool                { return a.debug && a.drawer != nil }
func (a *Agent) DebugDrawer() steering.DebugDrawer { return a.drawer }

// SetDebug toggles debug rendering. It has no effect without a drawer.
func (a *Agent) SetDebug(enabled bool) { a.debug = enabled }

func (a *Agent) Behavior() steering.Behavior { return a.behavior }

// LastOutput returns the output of the most recent step.
func (a *Agent) LastOutput() steering.Output { return a.last }

// refreshTargets copies every feed's current target into its behavior.
func (a *Agent) refreshTargets() {
	for _, f := range a.feeds {
		if f.Behavior == nil || f.Source == nil {
			continue
		}
		if t, ok := f.Source.Target(); ok {
			f.Behavior.SetTarget(t)
		}
	}
}

// step evaluates the behavior and moves the body. An invalid output stops the agent.
func (a *Agent) step(dt float64) steering.Output {
	var out steering.Output
	if a.behavior != nil {
		out = a.behavior.CalculateSteering(dt, a)
	}
	a.last = out
	if !out.IsValid {
		a.body.Halt()
		return out
	}
	a.body.Integrate(out.LinearVelocity, out.AngularVelocity, dt)
	return out
}

// wrap keeps the agent inside a square of the given size centered on the origin.
func (a *Agent) wrap(size float64) {
	if size <= 0 {
		return
	}
	half := size / 2
	for i := range a.body.Pos {
		switch {
		case a.body.Pos[i] > half:
			a.body.Pos[i] -= size
		case a.body.Pos[i] < -half:
			a.body.Pos[i] += size
		}
	}
}
