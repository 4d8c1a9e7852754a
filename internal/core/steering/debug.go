package steering

// Color names a debug draw color. Renderers map these onto their own palette.
type Color string

const (
	ColorGreen   Color = "green"
	ColorRed     Color = "red"
	ColorYellow  Color = "yellow"
	ColorCyan    Color = "cyan"
	ColorMagenta Color = "magenta"
	ColorWhite   Color = "white"
)

// DebugDrawer receives the shapes behaviors emit while debug rendering is enabled.
// Implementations must be safe for concurrent use when agents are stepped in parallel.
type DebugDrawer interface {
	Line(from, to Vec2, color Color)
	Circle(center Vec2, radius float64, color Color)
	Marker(at Vec2, size float64, color Color)
	Arrow(from, to Vec2, color Color)
}

// DebugSource is implemented by agents that can accept debug shapes.
type DebugSource interface {
	DebugDrawer() DebugDrawer
}

// drawerFor returns the agent's drawer when debug rendering is on, otherwise nil.
func drawerFor(agent Agent) DebugDrawer {
	if !agent.DebugEnabled() {
		return nil
	}
	src, ok := agent.(DebugSource)
	if !ok {
		return nil
	}
	return src.DebugDrawer()
}
