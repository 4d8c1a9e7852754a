package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/steering/internal/core/events/bus"
	"github.com/zeusync/steering/internal/core/observability/log"
	"github.com/zeusync/steering/internal/core/steering"
)

var (
	ErrBehaviorShared = errors.New("behavior instance is already used by another agent")
	ErrAgentNotFound  = errors.New("agent not found")
	ErrInvalidStep    = errors.New("step duration must be positive")
)

// Event types published by the World.
const (
	EventAgentSpawned = "agent.spawned"
	EventAgentRemoved = "agent.removed"
	EventAgentSteered = "agent.steered"
)

const eventSource = "world"

// AgentEvent is the payload of spawn and remove events.
type AgentEvent struct {
	ID       string
	Name     string
	Restored int // Arrive bindings that restored the agent's speed on removal
}

// SteeredEvent is the payload of agent.steered, published once per agent per tick.
type SteeredEvent struct {
	Tick        uint64
	ID          string
	Name        string
	Output      steering.Output
	Position    steering.Vec2
	Velocity    steering.Vec2
	Orientation float64
}

// Options tune a World.
type Options struct {
	// Workers caps concurrent agent evaluation. 0 means one goroutine per agent.
	Workers int
	// TrimSize wraps agents into a square of this size centered on the origin. 0 disables it.
	TrimSize float64
}

// World owns a set of agents and advances them in fixed steps.
type World struct {
	mu     sync.RWMutex
	agents map[string]*Agent
	order  []string
	owners map[steering.Behavior]string

	opts Options
	tick uint64
	bus  bus.EventBus
	log  log.Log
}

// NewWorld creates an empty world. A nil bus gets a private one.
func NewWorld(l log.Log, b bus.EventBus, opts Options) *World {
	if l == nil {
		l = log.NewNop()
	}
	if b == nil {
		b = bus.New()
	}
	return &World{
		agents: make(map[string]*Agent),
		owners: make(map[steering.Behavior]string),
		opts:   opts,
		bus:    b,
		log:    l.Named("world"),
	}
}

func (w *World) Bus() bus.EventBus { return w.bus }

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tick
}

// SetTrimSize changes the wrap-around area between steps.
func (w *World) SetTrimSize(size float64) {
	w.mu.Lock()
	w.opts.TrimSize = size
	w.mu.Unlock()
}

// Spawn adds an agent. Its behavior tree must not share instances with any other agent.
func (w *World) Spawn(spec AgentSpec) (*Agent, error) {
	w.mu.Lock()
	if err := w.checkOwnership(spec.Behavior, ""); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if err := w.checkFeeds(spec.Feeds, ""); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	a := newAgent(uuid.NewString(), spec)
	w.agents[a.id] = a
	w.order = append(w.order, a.id)
	w.claim(a)
	w.mu.Unlock()

	w.log.Info("agent spawned", log.String("id", a.id), log.String("name", a.name))
	w.publish(bus.NewEvent(EventAgentSpawned, eventSource, AgentEvent{ID: a.id, Name: a.name}))
	return a, nil
}

// Remove detaches an agent and releases its behavior tree, restoring any speed cap an
// Arrive behavior lowered.
func (w *World) Remove(id string) error {
	w.mu.Lock()
	a, ok := w.agents[id]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	delete(w.agents, id)
	for i, cur := range w.order {
		if cur == id {
			w.order = append(w.order[:i:i], w.order[i+1:]...)
			break
		}
	}
	w.unclaim(a)
	restored := steering.Release(a.behavior)
	a.removed = true
	w.mu.Unlock()

	w.log.Info("agent removed", log.String("id", id), log.String("name", a.name), log.Int("restored", restored))
	w.publish(bus.NewEvent(EventAgentRemoved, eventSource, AgentEvent{ID: id, Name: a.name, Restored: restored}))
	return nil
}

// SetBehavior swaps an agent's behavior tree and target feeds. The previous tree is
// released first.
func (w *World) SetBehavior(id string, b steering.Behavior, feeds ...Feed) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.agents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	if err := w.checkOwnership(b, id); err != nil {
		return err
	}
	if err := w.checkFeeds(feeds, id); err != nil {
		return err
	}
	w.unclaim(a)
	steering.Release(a.behavior)
	a.behavior = b
	a.feeds = append([]Feed(nil), feeds...)
	a.last = steering.Output{}
	w.claim(a)
	return nil
}

// SetFeeds replaces an agent's target feeds, keeping its behavior. Feeds may not target
// behaviors owned by another agent.
func (w *World) SetFeeds(id string, feeds ...Feed) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.agents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	if err := w.checkFeeds(feeds, id); err != nil {
		return err
	}
	a.feeds = append([]Feed(nil), feeds...)
	return nil
}

// Agent looks an agent up by id.
func (w *World) Agent(id string) (*Agent, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	a, ok := w.agents[id]
	return a, ok
}

// AgentByName returns the first agent with the given name.
func (w *World) AgentByName(name string) (*Agent, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, id := range w.order {
		if a := w.agents[id]; a.name == name {
			return a, true
		}
	}
	return nil, false
}

// Agents returns all agents in spawn order.
func (w *World) Agents() []*Agent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ordered()
}

func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.order)
}

// Step advances every agent by dt seconds. Targets are snapshotted for all agents before
// any of them moves, so agents observe each other as of the start of the tick.
func (w *World) Step(ctx context.Context, dt float64) error {
	if dt <= 0 {
		return ErrInvalidStep
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	events, err := w.advance(ctx, dt)
	if err != nil {
		return err
	}
	w.publish(events...)
	return nil
}

func (w *World) advance(ctx context.Context, dt float64) ([]bus.Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	agents := w.ordered()
	for _, a := range agents {
		a.refreshTargets()
	}

	outputs := make([]steering.Output, len(agents))
	g, gctx := errgroup.WithContext(ctx)
	if w.opts.Workers > 0 {
		g.SetLimit(w.opts.Workers)
	}
	for i, a := range agents {
		i, a := i, a
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outputs[i] = a.step(dt)
			a.wrap(w.opts.TrimSize)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	w.tick++

	events := make([]bus.Event, 0, len(agents))
	for i, a := range agents {
		if !outputs[i].IsValid && a.behavior != nil {
			w.log.Debug("invalid steering output", log.String("name", a.name), log.Int64("tick", int64(w.tick)))
		}
		events = append(events, bus.NewEvent(EventAgentSteered, eventSource, SteeredEvent{
			Tick:        w.tick,
			ID:          a.id,
			Name:        a.name,
			Output:      outputs[i],
			Position:    a.Position(),
			Velocity:    a.LinearVelocity(),
			Orientation: a.Orientation(),
		}))
	}
	return events, nil
}

func (w *World) publish(events ...bus.Event) {
	if err := w.bus.PublishBatch(events...); err != nil {
		w.log.Warn("event handler failed", log.Error(err))
	}
}

func (w *World) ordered() []*Agent {
	out := make([]*Agent, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.agents[id])
	}
	return out
}

// checkOwnership fails if any node of b belongs to an agent other than self. Nodes
// without identity are copies and never shared, so they are not tracked.
func (w *World) checkOwnership(b steering.Behavior, self string) error {
	var err error
	steering.Walk(b, func(n steering.Behavior) {
		if err != nil || !steering.Identifiable(n) {
			return
		}
		if owner, ok := w.owners[n]; ok && owner != self {
			err = fmt.Errorf("%w: owned by %s", ErrBehaviorShared, w.agents[owner].name)
		}
	})
	return err
}

func (w *World) checkFeeds(feeds []Feed, self string) error {
	for _, f := range feeds {
		if err := w.checkOwnership(f.Behavior, self); err != nil {
			return fmt.Errorf("feed: %w", err)
		}
	}
	return nil
}

func (w *World) claim(a *Agent) {
	steering.Walk(a.behavior, func(n steering.Behavior) {
		if steering.Identifiable(n) {
			w.owners[n] = a.id
		}
	})
}

func (w *World) unclaim(a *Agent) {
	for n, owner := range w.owners {
		if owner == a.id {
			delete(w.owners, n)
		}
	}
}
