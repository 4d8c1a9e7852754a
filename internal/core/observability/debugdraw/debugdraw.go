// Package debugdraw provides steering.DebugDrawer implementations that do not need a
// renderer: one forwarding shapes to the structured logger and one recording them.
package debugdraw

import (
	"sync"

	"github.com/zeusync/steering/internal/core/observability/log"
	"github.com/zeusync/steering/internal/core/steering"
)

var (
	_ steering.DebugDrawer = (*Logger)(nil)
	_ steering.DebugDrawer = (*Recorder)(nil)
)

// Logger emits every shape as a debug-level log entry.
type Logger struct {
	log log.Log
}

func NewLogger(l log.Log) *Logger {
	return &Logger{log: l}
}

// With returns a drawer whose entries carry extra fields, e.g. the agent name.
func (d *Logger) With(fields ...log.Field) *Logger {
	return &Logger{log: d.log.With(fields...)}
}

func (d *Logger) Line(from, to steering.Vec2, color steering.Color) {
	d.emit("line", color, log.Float64s("from", from[0], from[1]), log.Float64s("to", to[0], to[1]))
}

func (d *Logger) Circle(center steering.Vec2, radius float64, color steering.Color) {
	d.emit("circle", color, log.Float64s("center", center[0], center[1]), log.Float64("radius", radius))
}

func (d *Logger) Marker(at steering.Vec2, size float64, color steering.Color) {
	d.emit("marker", color, log.Float64s("at", at[0], at[1]), log.Float64("size", size))
}

func (d *Logger) Arrow(from, to steering.Vec2, color steering.Color) {
	d.emit("arrow", color, log.Float64s("from", from[0], from[1]), log.Float64s("to", to[0], to[1]))
}

func (d *Logger) emit(kind string, color steering.Color, fields ...log.Field) {
	if !d.log.Enabled(log.LevelDebug) {
		return
	}
	d.log.Debug("debug draw", append(fields, log.String("shape", kind), log.String("color", string(color)))...)
}

// Kind identifies a recorded shape.
type Kind string

const (
	KindLine   Kind = "line"
	KindCircle Kind = "circle"
	KindMarker Kind = "marker"
	KindArrow  Kind = "arrow"
)

// Shape is one recorded draw call. Size holds the radius or marker size.
type Shape struct {
	Kind  Kind
	From  steering.Vec2
	To    steering.Vec2
	Size  float64
	Color steering.Color
}

// Recorder keeps shapes in memory until Reset, e.g. for an overlay that redraws per frame.
type Recorder struct {
	mu     sync.Mutex
	shapes []Shape
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Line(from, to steering.Vec2, color steering.Color) {
	r.add(Shape{Kind: KindLine, From: from, To: to, Color: color})
}

func (r *Recorder) Circle(center steering.Vec2, radius float64, color steering.Color) {
	r.add(Shape{Kind: KindCircle, From: center, Size: radius, Color: color})
}

func (r *Recorder) Marker(at steering.Vec2, size float64, color steering.Color) {
	r.add(Shape{Kind: KindMarker, From: at, Size: size, Color: color})
}

func (r *Recorder) Arrow(from, to steering.Vec2, color steering.Color) {
	r.add(Shape{Kind: KindArrow, From: from, To: to, Color: color})
}

func (r *Recorder) add(s Shape) {
	r.mu.Lock()
	r.shapes = append(r.shapes, s)
	r.mu.Unlock()
}

// Shapes returns a copy of the recorded shapes.
func (r *Recorder) Shapes() []Shape {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Shape(nil), r.shapes...)
}

// Reset drops all recorded shapes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.shapes = r.shapes[:0]
	r.mu.Unlock()
}
