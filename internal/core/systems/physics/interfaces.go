package physics

import "github.com/go-gl/mathgl/mgl64"

// Lightweight 2D kinematics shared by steering behaviors and the host simulation.
// Vectors are mgl64 values so callers get Add/Sub/Mul/Len without wrappers.

// Vec2 represents a 2D vector (position, velocity or direction).
type Vec2 = mgl64.Vec2

// Kinematic exposes the observable motion state of anything that moves in the plane.
// Orientation is expressed in degrees, counter-clockwise from +X.
type Kinematic interface {
	Position() Vec2
	Orientation() float64
	LinearVelocity() Vec2
	AngularVelocity() float64
}

// Zero is the zero vector.
var Zero = Vec2{}
