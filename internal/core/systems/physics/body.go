package physics

import "math"

// Body is a point mass moving in the plane. It is the motion integrator a host applies
// steering commands to: desired velocities are clamped to the body's caps here, which is
// where speed-limiting behaviors actually take effect.
type Body struct {
	Pos        Vec2
	Rotation   float64 // degrees
	Velocity   Vec2
	Spin       float64 // degrees per second
	MaxSpeed   float64
	MaxSpin    float64 // 0 disables the angular cap
	AutoOrient bool
}

var _ Kinematic = (*Body)(nil)

func (b *Body) Position() Vec2           { return b.Pos }
func (b *Body) Orientation() float64     { return b.Rotation }
func (b *Body) LinearVelocity() Vec2     { return b.Velocity }
func (b *Body) AngularVelocity() float64 { return b.Spin }

// Integrate applies a desired linear and angular velocity for dt seconds.
func (b *Body) Integrate(linear Vec2, angular, dt float64) {
	if dt < 0 {
		dt = 0
	}
	b.Velocity = ClampLength(linear, b.MaxSpeed)
	if b.MaxSpin > 0 {
		angular = math.Max(-b.MaxSpin, math.Min(b.MaxSpin, angular))
	}
	b.Spin = angular

	b.Pos = b.Pos.Add(b.Velocity.Mul(dt))
	if b.AutoOrient && b.Velocity.Len() > epsilon {
		b.Rotation = RadToDeg(math.Atan2(b.Velocity[1], b.Velocity[0]))
		return
	}
	b.Rotation = NormalizeDegrees(b.Rotation + b.Spin*dt)
}

// Halt zeroes both velocities without moving the body.
func (b *Body) Halt() {
	b.Velocity = Vec2{}
	b.Spin = 0
}
