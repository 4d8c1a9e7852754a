package steering

import "github.com/zeusync/steering/internal/core/systems/physics"

// Seek steers straight at the target. The magnitude is unbounded; the host clamps it.
type Seek struct{ baseBehavior }

func NewSeek() *Seek { return &Seek{} }

func (s *Seek) CalculateSteering(_ float64, agent Agent) Output {
	pos := agent.Position()
	out := Output{LinearVelocity: s.target.Position.Sub(pos), IsValid: true}
	if d := drawerFor(agent); d != nil {
		d.Line(pos, s.target.Position, ColorGreen)
	}
	return out
}

// Flee steers straight away from the target.
type Flee struct{ baseBehavior }

func NewFlee() *Flee { return &Flee{} }

func (f *Flee) CalculateSteering(_ float64, agent Agent) Output {
	pos := agent.Position()
	out := Output{LinearVelocity: pos.Sub(f.target.Position), IsValid: true}
	if d := drawerFor(agent); d != nil {
		d.Line(pos, pos.Add(out.LinearVelocity), ColorRed)
	}
	return out
}

// Face turns the agent toward the target along the shortest rotation.
// Only the angular velocity is set; compose with a translating behavior to also move.
type Face struct{ baseBehavior }

func NewFace() *Face { return &Face{} }

func (f *Face) CalculateSteering(_ float64, agent Agent) Output {
	pos := agent.Position()
	diff := physics.NormalizeDegrees(physics.Bearing(pos, f.target.Position) - agent.Orientation())
	if d := drawerFor(agent); d != nil {
		dir := physics.SafeNormal(f.target.Position.Sub(pos))
		d.Line(pos, pos.Add(dir.Mul(100)), ColorMagenta)
	}
	return Output{AngularVelocity: diff, IsValid: true}
}
