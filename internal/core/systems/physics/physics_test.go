package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDegrees(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		90:   90,
		180:  180,
		-180: 180,
		190:  -170,
		-190: 170,
		540:  180,
		720:  0,
		-721: -1,
		359:  -1,
	}
	for in, want := range cases {
		assert.InDelta(t, want, NormalizeDegrees(in), 1e-9, "input %v", in)
	}
}

func TestHeadingAndBearing(t *testing.T) {
	h := Heading(90)
	assert.InDelta(t, 0, h.X(), 1e-9)
	assert.InDelta(t, 1, h.Y(), 1e-9)

	assert.InDelta(t, 45, Bearing(Vec2{0, 0}, Vec2{1, 1}), 1e-9)
	assert.InDelta(t, 180, math.Abs(Bearing(Vec2{0, 0}, Vec2{-5, 0})), 1e-9)
}

func TestSafeNormalAndClamp(t *testing.T) {
	assert.Equal(t, Vec2{}, SafeNormal(Vec2{}))
	n := SafeNormal(Vec2{3, 4})
	assert.InDelta(t, 1, n.Len(), 1e-9)

	assert.Equal(t, Vec2{3, 4}, ClampLength(Vec2{3, 4}, 10))
	c := ClampLength(Vec2{30, 40}, 5)
	assert.InDelta(t, 3, c.X(), 1e-9)
	assert.InDelta(t, 4, c.Y(), 1e-9)
	assert.Equal(t, Vec2{}, ClampLength(Vec2{3, 4}, 0))
	assert.InDelta(t, 5, Distance(Vec2{0, 0}, Vec2{3, 4}), 1e-9)
}

func TestBodyIntegrateClampsToMaxSpeed(t *testing.T) {
	b := &Body{MaxSpeed: 10}
	b.Integrate(Vec2{100, 0}, 0, 0.5)
	assert.InDelta(t, 10, b.LinearVelocity().Len(), 1e-9)
	assert.InDelta(t, 5, b.Position().X(), 1e-9)

	// zero cap stops the body
	b.MaxSpeed = 0
	b.Integrate(Vec2{100, 0}, 0, 1)
	assert.Equal(t, Vec2{}, b.LinearVelocity())
	assert.InDelta(t, 5, b.Position().X(), 1e-9)
}

func TestBodyOrientation(t *testing.T) {
	b := &Body{MaxSpeed: 10, MaxSpin: 90}
	b.Integrate(Vec2{}, 360, 1)
	assert.InDelta(t, 90, b.AngularVelocity(), 1e-9)
	assert.InDelta(t, 90, b.Orientation(), 1e-9)

	b.AutoOrient = true
	b.Integrate(Vec2{0, -5}, 0, 1)
	assert.InDelta(t, -90, b.Orientation(), 1e-9)

	b.Halt()
	assert.Equal(t, Vec2{}, b.LinearVelocity())
	assert.Zero(t, b.AngularVelocity())
}
