package sim

import (
	"github.com/zeusync/steering/internal/core/steering"
)

// TargetSource produces the target a behavior should steer against this tick.
// ok=false leaves the behavior's previous target in place.
type TargetSource interface {
	Target() (target steering.TargetData, ok bool)
}

// Feed routes a TargetSource into one behavior of an agent's tree.
type Feed struct {
	Behavior steering.Behavior
	Source   TargetSource
}

// FixedPoint is a stationary target, e.g. a clicked location.
type FixedPoint struct {
	Point steering.Vec2
}

func (p FixedPoint) Target() (steering.TargetData, bool) {
	return steering.TargetFromPoint(p.Point), true
}

// FollowAgent tracks another agent's full kinematic state. Once that agent is removed
// from its world the last snapshot is kept.
type FollowAgent struct {
	Agent *Agent
}

func (f FollowAgent) Target() (steering.TargetData, bool) {
	if f.Agent == nil || f.Agent.removed {
		return steering.TargetData{}, false
	}
	return steering.TargetFromKinematic(f.Agent), true
}
