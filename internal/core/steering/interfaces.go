package steering

import (
	"errors"
	"reflect"

	"github.com/zeusync/steering/internal/core/systems/physics"
)

// Vec2 is the vector type used for all positions and velocities.
type Vec2 = physics.Vec2

var (
	ErrAlreadyBound = errors.New("behavior is already bound to another agent")
	ErrNilAgent     = errors.New("agent is nil")
)

// TargetData is a snapshot of a steering target's kinematic state.
// It is copied into a behavior by SetTarget and read at evaluation time.
type TargetData struct {
	Position        Vec2
	Orientation     float64 // degrees
	LinearVelocity  Vec2
	AngularVelocity float64
}

// TargetFromPoint builds a stationary target at p.
func TargetFromPoint(p Vec2) TargetData { return TargetData{Position: p} }

// TargetFromKinematic snapshots anything that moves, e.g. another agent.
func TargetFromKinematic(k physics.Kinematic) TargetData {
	return TargetData{
		Position:        k.Position(),
		Orientation:     k.Orientation(),
		LinearVelocity:  k.LinearVelocity(),
		AngularVelocity: k.AngularVelocity(),
	}
}

// Output is the result of one behavior evaluation. The zero value is invalid; a
// behavior with a meaningful result sets IsValid explicitly.
type Output struct {
	LinearVelocity  Vec2
	AngularVelocity float64
	IsValid         bool
}

// Agent is the view of the acting agent a behavior evaluates against.
// Behaviors never move the agent; they may only read and adjust its speed cap.
type Agent interface {
	physics.Kinematic
	MaxLinearSpeed() float64
	SetMaxLinearSpeed(speed float64)
	DebugEnabled() bool
}

// Behavior computes a steering command for an agent.
//
// A behavior instance serves exactly one agent. Sharing an instance between agents is a
// precondition violation: stateful behaviors (Arrive, Wander) would mix per-agent state.
type Behavior interface {
	// CalculateSteering evaluates the behavior for one tick. Failure is reported only
	// through Output.IsValid; it never panics on malformed configuration.
	CalculateSteering(dt float64, agent Agent) Output
	// SetTarget replaces the stored target snapshot.
	SetTarget(target TargetData)
	// Target returns the stored target snapshot.
	Target() TargetData
}

// Composite is a behavior built from child behaviors.
type Composite interface {
	Behavior
	Children() []Behavior
}

// Releaser is implemented by behaviors holding agent-side state that must be restored
// when the behavior is detached from its agent.
type Releaser interface {
	// Release restores agent state and reports whether anything was restored.
	Release() bool
}

// baseBehavior implements target storage shared by every behavior.
type baseBehavior struct{ target TargetData }

func (b *baseBehavior) SetTarget(target TargetData) { b.target = target }
func (b *baseBehavior) Target() TargetData          { return b.target }

// Walk visits b and its descendants depth first. Each instance is visited once even if it
// appears under several parents. Nil entries are skipped. Behaviors without identity (see
// Identifiable) are visited every time they appear.
func Walk(b Behavior, fn func(Behavior)) {
	seen := make(map[Behavior]struct{})
	var visit func(Behavior)
	visit = func(n Behavior) {
		if isNil(n) {
			return
		}
		if Identifiable(n) {
			if _, ok := seen[n]; ok {
				return
			}
			seen[n] = struct{}{}
		}
		fn(n)
		if c, ok := n.(Composite); ok {
			for _, ch := range c.Children() {
				visit(ch)
			}
		}
	}
	visit(b)
}

// Release releases every Releaser in the tree rooted at b and returns how many of them
// restored agent state.
func Release(b Behavior) int {
	restored := 0
	Walk(b, func(n Behavior) {
		if r, ok := n.(Releaser); ok && r.Release() {
			restored++
		}
	})
	return restored
}

// Identifiable reports whether b can be compared and used as a map key. Value types
// holding slices, maps or funcs cannot; each copy of such a behavior is its own instance.
func Identifiable(b Behavior) bool {
	return b != nil && reflect.TypeOf(b).Comparable()
}

// isNil reports whether b is a nil interface or wraps a nil pointer.
func isNil(b Behavior) bool {
	if b == nil {
		return true
	}
	v := reflect.ValueOf(b)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
