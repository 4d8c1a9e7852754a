package steering

import "sync"

type testAgent struct {
	pos      Vec2
	rot      float64
	vel      Vec2
	spin     float64
	maxSpeed float64
	debug    bool
	drawer   DebugDrawer
}

func (a *testAgent) Position() Vec2               { return a.pos }
func (a *testAgent) Orientation() float64         { return a.rot }
func (a *testAgent) LinearVelocity() Vec2         { return a.vel }
func (a *testAgent) AngularVelocity() float64     { return a.spin }
func (a *testAgent) MaxLinearSpeed() float64      { return a.maxSpeed }
func (a *testAgent) SetMaxLinearSpeed(s float64)  { a.maxSpeed = s }
func (a *testAgent) DebugEnabled() bool           { return a.debug }
func (a *testAgent) DebugDrawer() DebugDrawer     { return a.drawer }

// stubBehavior returns a canned output and counts evaluations.
type stubBehavior struct {
	baseBehavior
	out   Output
	calls int
}

func (s *stubBehavior) CalculateSteering(float64, Agent) Output {
	s.calls++
	return s.out
}

func valid(x, y, angular float64) *stubBehavior {
	return &stubBehavior{out: Output{LinearVelocity: Vec2{x, y}, AngularVelocity: angular, IsValid: true}}
}

func invalid() *stubBehavior { return &stubBehavior{} }

// fixedRand replays a fixed sequence, wrapping around.
type fixedRand struct {
	values []float64
	i      int
}

func (f *fixedRand) Float64() float64 {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v
}

type shape struct {
	kind  string
	color Color
}

type recordingDrawer struct {
	mu     sync.Mutex
	shapes []shape
}

func (r *recordingDrawer) add(kind string, c Color) {
	r.mu.Lock()
	r.shapes = append(r.shapes, shape{kind: kind, color: c})
	r.mu.Unlock()
}

func (r *recordingDrawer) Line(_, _ Vec2, c Color)           { r.add("line", c) }
func (r *recordingDrawer) Circle(_ Vec2, _ float64, c Color) { r.add("circle", c) }
func (r *recordingDrawer) Marker(_ Vec2, _ float64, c Color) { r.add("marker", c) }
func (r *recordingDrawer) Arrow(_, _ Vec2, c Color)          { r.add("arrow", c) }
