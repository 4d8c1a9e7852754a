package steering

import (
	"math/rand"
	"time"

	"github.com/zeusync/steering/internal/core/systems/physics"
)

const (
	DefaultWanderOffset    = 400.0
	DefaultWanderRadius    = 200.0
	DefaultMaxAngleChange  = 45.0
	wanderTargetMarkerSize = 15.0
)

// Rand is the random source Wander draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a deterministic source for seed.
func NewRand(seed int64) Rand { return rand.New(rand.NewSource(seed)) }

// Wander seeks a point on a circle projected ahead of the agent. Every evaluation nudges
// the angle on that circle by a random amount in [-MaxAngleChange, MaxAngleChange].
// The accumulated angle is never wrapped.
type Wander struct {
	Seek
	Offset         float64
	Radius         float64
	MaxAngleChange float64

	wanderAngle float64
	center      Vec2
	rng         Rand
}

// NewWander creates a wander behavior drawing from rng. A nil rng selects a time-seeded
// source.
func NewWander(rng Rand) *Wander {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Wander{
		Offset:         DefaultWanderOffset,
		Radius:         DefaultWanderRadius,
		MaxAngleChange: DefaultMaxAngleChange,
		rng:            rng,
	}
}

// WanderAngle returns the accumulated wander angle in degrees.
func (w *Wander) WanderAngle() float64 { return w.wanderAngle }

// CircleCenter returns the wander circle center computed on the last evaluation.
func (w *Wander) CircleCenter() Vec2 { return w.center }

// SetRand swaps the random source, e.g. to replay a fixed sequence.
func (w *Wander) SetRand(rng Rand) {
	if rng != nil {
		w.rng = rng
	}
}

func (w *Wander) CalculateSteering(dt float64, agent Agent) Output {
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	w.wanderAngle += (w.rng.Float64()*2 - 1) * w.MaxAngleChange

	heading := agent.Orientation()
	w.center = agent.Position().Add(physics.Heading(heading).Mul(w.Offset))
	point := w.center.Add(physics.Heading(heading + w.wanderAngle).Mul(w.Radius))
	w.SetTarget(TargetFromPoint(point))

	if d := drawerFor(agent); d != nil {
		d.Circle(w.center, w.Radius, ColorCyan)
		d.Marker(point, wanderTargetMarkerSize, ColorGreen)
	}
	return w.Seek.CalculateSteering(dt, agent)
}
