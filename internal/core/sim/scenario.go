package sim

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/steering/internal/core/steering"
)

//go:embed scenarios/combined.yaml
var combinedScenario []byte

var (
	ErrDuplicateAgent = errors.New("duplicate agent name")
	ErrUnknownAgent   = errors.New("unknown agent")
	ErrInvalidTarget  = errors.New("target needs exactly one of point or agent")
)

// Scenario is a YAML description of behavior nodes and the agents driven by them.
type Scenario struct {
	Name     string                         `yaml:"name"`
	Seed     uint64                         `yaml:"seed"`
	TrimSize float64                        `yaml:"trim_size"`
	Nodes    map[string]steering.ConfigNode `yaml:"nodes"`
	Agents   []AgentConfig                  `yaml:"agents"`
}

type AgentConfig struct {
	Name        string                  `yaml:"name"`
	Position    steering.Vec2           `yaml:"position"`
	Orientation float64                 `yaml:"orientation"`
	MaxSpeed    float64                 `yaml:"max_speed"`
	MaxSpin     float64                 `yaml:"max_spin"`
	AutoOrient  bool                    `yaml:"auto_orient"`
	Debug       bool                    `yaml:"debug"`
	Behavior    string                  `yaml:"behavior"`
	Targets     map[string]TargetConfig `yaml:"targets"`
}

// TargetConfig sets either a fixed point or another agent to follow.
type TargetConfig struct {
	Point *steering.Vec2 `yaml:"point"`
	Agent string         `yaml:"agent"`
}

// LoadScenario decodes and validates a scenario.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScenarioFile loads a scenario from disk.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := LoadScenario(f)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// DefaultScenario returns the built-in combined steering scenario.
func DefaultScenario() (*Scenario, error) {
	return LoadScenario(bytes.NewReader(combinedScenario))
}

// Validate checks agent names and target references. Node graphs are checked when built.
func (s *Scenario) Validate() error {
	names := make(map[string]struct{}, len(s.Agents))
	for _, ac := range s.Agents {
		if _, ok := names[ac.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateAgent, ac.Name)
		}
		names[ac.Name] = struct{}{}
		if ac.Behavior == "" {
			return fmt.Errorf("agent %q: %w", ac.Name, steering.ErrNoRoot)
		}
	}
	for _, ac := range s.Agents {
		for node, tc := range ac.Targets {
			if (tc.Point == nil) == (tc.Agent == "") {
				return fmt.Errorf("agent %q node %q: %w", ac.Name, node, ErrInvalidTarget)
			}
			if tc.Agent != "" {
				if _, ok := names[tc.Agent]; !ok {
					return fmt.Errorf("agent %q node %q: %w: %s", ac.Name, node, ErrUnknownAgent, tc.Agent)
				}
			}
		}
	}
	return nil
}

// Spawned pairs an agent with the tree built for it.
type Spawned struct {
	Agent *Agent
	Tree  *steering.Tree
}

// SpawnOptions customize Populate.
type SpawnOptions struct {
	// Drawer returns the debug drawer for an agent. Nil disables drawing.
	Drawer func(agent string) steering.DebugDrawer
	// Seed overrides the scenario seed when non-zero.
	Seed uint64
}

// Populate builds a fresh tree per agent and spawns them into w in scenario order.
// Each agent gets its own seed, derived from the scenario seed and the agent name.
// Trees and target nodes are resolved before anything is spawned; if spawning still
// fails, the agents added so far are removed again.
func (s *Scenario) Populate(w *World, reg steering.Registry, opts SpawnOptions) ([]Spawned, error) {
	cfg := steering.Config{Nodes: s.Nodes}
	seed := s.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}

	type pending struct {
		tree    *steering.Tree
		targets map[string]steering.Behavior
	}
	plans := make([]pending, 0, len(s.Agents))
	for _, ac := range s.Agents {
		tree, err := cfg.BuildRoot(reg, ac.Behavior, seed^xxhash.Sum64String(ac.Name))
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", ac.Name, err)
		}
		targets := make(map[string]steering.Behavior, len(ac.Targets))
		for node := range ac.Targets {
			b, ok := tree.Behavior(node)
			if !ok {
				return nil, fmt.Errorf("agent %q: %w: %s", ac.Name, steering.ErrUnknownNode, node)
			}
			targets[node] = b
		}
		plans = append(plans, pending{tree: tree, targets: targets})
	}

	spawned := make([]Spawned, 0, len(s.Agents))
	rollback := func(err error) ([]Spawned, error) {
		for _, sp := range spawned {
			_ = w.Remove(sp.Agent.ID())
		}
		return nil, err
	}

	byName := make(map[string]*Agent, len(s.Agents))
	for i, ac := range s.Agents {
		spec := AgentSpec{
			Name:        ac.Name,
			Position:    ac.Position,
			Orientation: ac.Orientation,
			MaxSpeed:    ac.MaxSpeed,
			MaxSpin:     ac.MaxSpin,
			AutoOrient:  ac.AutoOrient,
			Debug:       ac.Debug,
			Behavior:    plans[i].tree.Root(),
		}
		if opts.Drawer != nil {
			spec.Drawer = opts.Drawer(ac.Name)
		}
		a, err := w.Spawn(spec)
		if err != nil {
			return rollback(fmt.Errorf("agent %q: %w", ac.Name, err))
		}
		byName[ac.Name] = a
		spawned = append(spawned, Spawned{Agent: a, Tree: plans[i].tree})
	}

	// Feeds are wired once every agent exists so targets can point forward.
	for i, ac := range s.Agents {
		feeds := make([]Feed, 0, len(ac.Targets))
		for node, tc := range ac.Targets {
			var src TargetSource
			if tc.Point != nil {
				src = FixedPoint{Point: *tc.Point}
			} else {
				src = FollowAgent{Agent: byName[tc.Agent]}
			}
			feeds = append(feeds, Feed{Behavior: plans[i].targets[node], Source: src})
		}
		if err := w.SetFeeds(spawned[i].Agent.ID(), feeds...); err != nil {
			return rollback(fmt.Errorf("agent %q: %w", ac.Name, err))
		}
	}
	if s.TrimSize > 0 {
		w.SetTrimSize(s.TrimSize)
	}
	return spawned, nil
}
