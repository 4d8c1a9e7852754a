package steering

import "github.com/zeusync/steering/internal/core/systems/physics"

const DefaultMaxPredictionTime = 2.0

// PredictionTime returns how far ahead to extrapolate a moving target. A pursuer too slow
// to close the distance within maxPrediction looks the full horizon ahead; a faster one
// looks only as far as it needs to reach the target's current position.
func PredictionTime(distance, speed, maxPrediction float64) float64 {
	if maxPrediction <= 0 {
		return 0
	}
	if speed <= distance/maxPrediction {
		return maxPrediction
	}
	return distance / speed
}

// predictor holds the look-ahead state shared by Pursuit and Evade.
type predictor struct {
	baseBehavior
	MaxPredictionTime float64

	predicted Vec2
	lookAhead float64
}

// Predicted returns the target position extrapolated on the last evaluation.
func (p *predictor) Predicted() Vec2 { return p.predicted }

// LookAhead returns the prediction time used on the last evaluation.
func (p *predictor) LookAhead() float64 { return p.lookAhead }

func (p *predictor) predict(agent Agent) Vec2 {
	distance := physics.Distance(agent.Position(), p.target.Position)
	speed := agent.LinearVelocity().Len()
	p.lookAhead = PredictionTime(distance, speed, p.MaxPredictionTime)
	p.predicted = p.target.Position.Add(p.target.LinearVelocity.Mul(p.lookAhead))
	return p.predicted
}

func (p *predictor) draw(agent Agent, color Color) {
	if d := drawerFor(agent); d != nil {
		d.Marker(p.predicted, 25, color)
		d.Line(p.target.Position, p.predicted, ColorWhite)
	}
}

// Pursuit seeks where the target will be, judged by the pursuer's own speed.
type Pursuit struct{ predictor }

func NewPursuit() *Pursuit {
	return &Pursuit{predictor{MaxPredictionTime: DefaultMaxPredictionTime}}
}

func (p *Pursuit) CalculateSteering(_ float64, agent Agent) Output {
	predicted := p.predict(agent)
	p.draw(agent, ColorCyan)
	return Output{LinearVelocity: predicted.Sub(agent.Position()), IsValid: true}
}

// Evade flees from where the target will be.
type Evade struct{ predictor }

func NewEvade() *Evade {
	return &Evade{predictor{MaxPredictionTime: DefaultMaxPredictionTime}}
}

func (e *Evade) CalculateSteering(_ float64, agent Agent) Output {
	predicted := e.predict(agent)
	e.draw(agent, ColorRed)
	return Output{LinearVelocity: agent.Position().Sub(predicted), IsValid: true}
}
