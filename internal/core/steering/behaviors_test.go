package steering

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeekFleeAreOpposites(t *testing.T) {
	agent := &testAgent{pos: Vec2{3, -4}}
	target := TargetFromPoint(Vec2{-10, 25})

	seek, flee := NewSeek(), NewFlee()
	seek.SetTarget(target)
	flee.SetTarget(target)

	s := seek.CalculateSteering(0.016, agent)
	f := flee.CalculateSteering(0.016, agent)
	assert.True(t, s.IsValid)
	assert.True(t, f.IsValid)
	assert.Equal(t, Vec2{-13, 29}, s.LinearVelocity)
	assert.Equal(t, s.LinearVelocity.Mul(-1), f.LinearVelocity)
	assert.Zero(t, s.AngularVelocity)
}

func TestFace(t *testing.T) {
	face := NewFace()

	tests := []struct {
		name    string
		heading float64
		target  Vec2
		want    float64
	}{
		{"ahead", 0, Vec2{10, 0}, 0},
		{"left", 0, Vec2{0, 10}, 90},
		{"right", 0, Vec2{0, -10}, -90},
		{"across the seam", 170, Vec2{-10, -1.7632698070846}, 20},
		{"wrapped heading", 720, Vec2{0, 10}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face.SetTarget(TargetFromPoint(tt.target))
			out := face.CalculateSteering(0, &testAgent{rot: tt.heading})
			assert.True(t, out.IsValid)
			assert.InDelta(t, tt.want, out.AngularVelocity, 1e-6)
			assert.Equal(t, Vec2{}, out.LinearVelocity)
		})
	}

	t.Run("behind", func(t *testing.T) {
		face.SetTarget(TargetFromPoint(Vec2{-10, 0}))
		out := face.CalculateSteering(0, &testAgent{})
		assert.InDelta(t, 180, math.Abs(out.AngularVelocity), 1e-9)
	})

	t.Run("range", func(t *testing.T) {
		for heading := -1000.0; heading <= 1000; heading += 37 {
			face.SetTarget(TargetFromPoint(Vec2{math.Cos(heading), math.Sin(heading * 3)}))
			out := face.CalculateSteering(0, &testAgent{rot: heading})
			assert.Greater(t, out.AngularVelocity, -180.0)
			assert.LessOrEqual(t, out.AngularVelocity, 180.0)
		}
	})
}

func TestArriveBands(t *testing.T) {
	tests := []struct {
		distance float64
		speed    float64
		band     ArrivalBand
	}{
		{350, 250, BandSlowing},
		{50, 0, BandStopped},
		{700, 500, BandFull},
		{100, 0, BandSlowing},
		{600, 500, BandSlowing},
	}
	for _, tt := range tests {
		arrive := NewArrive()
		agent := &testAgent{maxSpeed: 500}
		arrive.SetTarget(TargetFromPoint(Vec2{tt.distance, 0}))

		out := arrive.CalculateSteering(0.016, agent)
		require.True(t, out.IsValid)
		assert.Equal(t, Vec2{tt.distance, 0}, out.LinearVelocity)
		assert.InDelta(t, tt.speed, agent.MaxLinearSpeed(), 1e-9, "distance %v", tt.distance)
		assert.Equal(t, tt.band, arrive.Band())
	}
}

func TestArriveKeepsOriginalSpeedAcrossTicks(t *testing.T) {
	arrive := NewArrive()
	agent := &testAgent{maxSpeed: 500}

	arrive.SetTarget(TargetFromPoint(Vec2{50, 0}))
	arrive.CalculateSteering(0, agent)
	assert.Zero(t, agent.MaxLinearSpeed())
	assert.Equal(t, 500.0, arrive.OriginalMaxSpeed())

	// leaving the slow radius restores the cached cap, not the current (zero) one
	arrive.SetTarget(TargetFromPoint(Vec2{700, 0}))
	arrive.CalculateSteering(0, agent)
	assert.Equal(t, 500.0, agent.MaxLinearSpeed())
}

func TestArriveRestoresOnceOnRelease(t *testing.T) {
	arrive := NewArrive()
	agent := &testAgent{maxSpeed: 500}

	binding, err := arrive.Bind(agent)
	require.NoError(t, err)
	assert.Same(t, agent, binding.Agent())

	arrive.SetTarget(TargetFromPoint(Vec2{350, 0}))
	arrive.CalculateSteering(0, agent)
	assert.InDelta(t, 250, agent.MaxLinearSpeed(), 1e-9)

	assert.True(t, binding.Release())
	assert.Equal(t, 500.0, agent.MaxLinearSpeed())
	assert.Nil(t, arrive.BoundAgent())

	agent.SetMaxLinearSpeed(42)
	assert.False(t, binding.Release())
	assert.False(t, arrive.Release())
	assert.Equal(t, 42.0, agent.MaxLinearSpeed())
}

func TestArriveNeverRestoresWithoutCapture(t *testing.T) {
	arrive := NewArrive()
	assert.False(t, arrive.Release())
	assert.Negative(t, arrive.OriginalMaxSpeed())

	agent := &testAgent{maxSpeed: 300}
	binding, err := arrive.Bind(agent)
	require.NoError(t, err)
	agent.SetMaxLinearSpeed(120)
	assert.False(t, binding.Release())
	assert.Equal(t, 120.0, agent.MaxLinearSpeed())

	var nilBinding *Binding
	assert.False(t, nilBinding.Release())
}

func TestArriveRejectsSecondAgent(t *testing.T) {
	arrive := NewArrive()
	first := &testAgent{maxSpeed: 500}
	second := &testAgent{maxSpeed: 200}
	arrive.SetTarget(TargetFromPoint(Vec2{350, 0}))

	require.True(t, arrive.CalculateSteering(0, first).IsValid)

	out := arrive.CalculateSteering(0, second)
	assert.False(t, out.IsValid)
	assert.Equal(t, 200.0, second.MaxLinearSpeed())

	_, err := arrive.Bind(second)
	assert.ErrorIs(t, err, ErrAlreadyBound)
	_, err = arrive.Bind(nil)
	assert.ErrorIs(t, err, ErrNilAgent)

	// a stale guard must not release a newer binding
	arrive.Release()
	stale, err := arrive.Bind(first)
	require.NoError(t, err)
	arrive.Release()
	_, err = arrive.Bind(second)
	require.NoError(t, err)
	arrive.CalculateSteering(0, second)
	assert.False(t, stale.Release())
	assert.Same(t, second, arrive.BoundAgent())
}

func TestArriveMisconfiguredRadiiStop(t *testing.T) {
	arrive := NewArrive()
	arrive.SlowRadius, arrive.TargetRadius = 100, 600
	agent := &testAgent{maxSpeed: 500}

	for _, d := range []float64{50, 350, 5000} {
		arrive.SetTarget(TargetFromPoint(Vec2{d, 0}))
		out := arrive.CalculateSteering(0, agent)
		assert.True(t, out.IsValid)
		assert.Zero(t, agent.MaxLinearSpeed())
		assert.Equal(t, BandStopped, arrive.Band())
	}
	assert.True(t, arrive.Release())
	assert.Equal(t, 500.0, agent.MaxLinearSpeed())
}

func TestPredictionTime(t *testing.T) {
	assert.Equal(t, 2.0, PredictionTime(1000, 0, 2))
	assert.Equal(t, 2.0, PredictionTime(0, 0, 2))
	assert.Equal(t, 2.0, PredictionTime(1000, 500, 2))
	assert.InDelta(t, 0.5, PredictionTime(1000, 2000, 2), 1e-12)
	assert.Zero(t, PredictionTime(0, 10, 2))
	assert.Zero(t, PredictionTime(1000, 0, 0))
}

func TestPursuitAndEvadePredict(t *testing.T) {
	target := TargetData{Position: Vec2{100, 0}, LinearVelocity: Vec2{0, 10}}

	t.Run("standing still predicts the full horizon", func(t *testing.T) {
		p := NewPursuit()
		p.SetTarget(target)
		out := p.CalculateSteering(0, &testAgent{})
		assert.True(t, out.IsValid)
		assert.Equal(t, p.MaxPredictionTime, p.LookAhead())
		assert.Equal(t, Vec2{100, 20}, p.Predicted())
		assert.Equal(t, Vec2{100, 20}, out.LinearVelocity)
	})

	t.Run("fast pursuer predicts less", func(t *testing.T) {
		p := NewPursuit()
		p.SetTarget(target)
		agent := &testAgent{vel: Vec2{200, 0}}
		out := p.CalculateSteering(0, agent)
		assert.InDelta(t, 0.5, p.LookAhead(), 1e-12)
		assert.InDelta(t, 100, out.LinearVelocity.X(), 1e-9)
		assert.InDelta(t, 5, out.LinearVelocity.Y(), 1e-9)
	})

	t.Run("evade flees the predicted point", func(t *testing.T) {
		p, e := NewPursuit(), NewEvade()
		p.SetTarget(target)
		e.SetTarget(target)
		agent := &testAgent{pos: Vec2{-20, 5}, vel: Vec2{1, 1}}
		po := p.CalculateSteering(0, agent)
		eo := e.CalculateSteering(0, agent)
		assert.True(t, eo.IsValid)
		assert.Equal(t, po.LinearVelocity.Mul(-1), eo.LinearVelocity)
		assert.Equal(t, p.Predicted(), e.Predicted())
	})
}

func TestWanderFollowsRandomSequence(t *testing.T) {
	w := NewWander(&fixedRand{values: []float64{0.75, 0.25, 1}})
	agent := &testAgent{}

	out := w.CalculateSteering(0.016, agent)
	require.True(t, out.IsValid)
	assert.InDelta(t, 22.5, w.WanderAngle(), 1e-9)
	assert.Equal(t, Vec2{400, 0}, w.CircleCenter())

	rad := 22.5 * math.Pi / 180
	assert.InDelta(t, 400+200*math.Cos(rad), out.LinearVelocity.X(), 1e-9)
	assert.InDelta(t, 200*math.Sin(rad), out.LinearVelocity.Y(), 1e-9)
	assert.Equal(t, out.LinearVelocity, w.Target().Position)

	w.CalculateSteering(0.016, agent)
	assert.InDelta(t, 0, w.WanderAngle(), 1e-9)

	// the angle accumulates without wrapping
	for i := 0; i < 20; i++ {
		w.SetRand(&fixedRand{values: []float64{1}})
		w.CalculateSteering(0.016, agent)
	}
	assert.InDelta(t, 900, w.WanderAngle(), 1e-9)
}

func TestWanderUsesAgentHeading(t *testing.T) {
	w := NewWander(&fixedRand{values: []float64{0.5}})
	agent := &testAgent{pos: Vec2{10, 10}, rot: 90}
	out := w.CalculateSteering(0, agent)
	assert.InDelta(t, 10, w.CircleCenter().X(), 1e-9)
	assert.InDelta(t, 410, w.CircleCenter().Y(), 1e-9)
	assert.InDelta(t, 0, out.LinearVelocity.X(), 1e-9)
	assert.InDelta(t, 600, out.LinearVelocity.Y(), 1e-9)
}

func TestWanderSeededSourcesReplay(t *testing.T) {
	a, b := NewWander(NewRand(7)), NewWander(NewRand(7))
	agent := &testAgent{}
	for i := 0; i < 50; i++ {
		oa := a.CalculateSteering(0.016, agent)
		ob := b.CalculateSteering(0.016, agent)
		require.Equal(t, oa, ob)
	}
	assert.Equal(t, a.WanderAngle(), b.WanderAngle())
	assert.NotNil(t, NewWander(nil).rng)
}

func TestDebugShapesOnlyWhenEnabled(t *testing.T) {
	drawer := &recordingDrawer{}
	agent := &testAgent{drawer: drawer, maxSpeed: 100}

	behaviors := []Behavior{NewSeek(), NewFlee(), NewFace(), NewArrive(), NewPursuit(), NewEvade(), NewWander(NewRand(1))}
	for _, b := range behaviors {
		b.SetTarget(TargetFromPoint(Vec2{300, 0}))
		b.CalculateSteering(0.016, agent)
	}
	assert.Empty(t, drawer.shapes)

	agent.debug = true
	seek := NewSeek()
	seek.CalculateSteering(0.016, agent)
	require.Len(t, drawer.shapes, 1)
	assert.Equal(t, shape{kind: "line", color: ColorGreen}, drawer.shapes[0])

	arrive := NewArrive()
	arrive.CalculateSteering(0.016, agent)
	assert.Len(t, drawer.shapes, 4)

	// debug enabled without a drawer is fine
	bare := &testAgent{debug: true}
	assert.True(t, NewPursuit().CalculateSteering(0, bare).IsValid)
}
