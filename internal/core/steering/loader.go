package steering

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrUnknownType   = errors.New("unknown behavior type")
	ErrInvalidParam  = errors.New("invalid parameter")
	ErrNodeCycle     = errors.New("behavior tree contains a cycle")
	ErrWeightsLength = errors.New("weights do not match children")
	ErrNoRoot        = errors.New("root node is required")
)

// Composite node types built by the loader itself.
const (
	TypeBlended  = "blended"
	TypePriority = "priority"
)

// Config describes a behavior tree by named nodes, in JSON or YAML.
type Config struct {
	Root  string                `json:"root" yaml:"root"`
	Nodes map[string]ConfigNode `json:"nodes" yaml:"nodes"`
}

type ConfigNode struct {
	Type     string         `json:"type" yaml:"type"`
	Children []string       `json:"children,omitempty" yaml:"children,omitempty"`
	Weights  []float64      `json:"weights,omitempty" yaml:"weights,omitempty"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// LoadJSON loads config from JSON reader.
func LoadJSON(r io.Reader) (*Config, error) {
	var c Config
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadYAML loads config from YAML reader.
func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Tree is a built behavior tree with its nodes addressable by config name.
type Tree struct {
	root  Behavior
	name  string
	nodes map[string]Behavior
}

// Root returns the top-level behavior.
func (t *Tree) Root() Behavior { return t.root }

// RootName returns the config name of the root node.
func (t *Tree) RootName() string { return t.name }

// Behavior looks a node up by its config name.
func (t *Tree) Behavior(name string) (Behavior, bool) {
	b, ok := t.nodes[name]
	return b, ok
}

// Names returns the names of all built nodes, sorted.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.nodes))
	for n := range t.nodes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build constructs the tree under Root.
func (c *Config) Build(reg Registry, seed uint64) (*Tree, error) {
	return c.BuildRoot(reg, c.Root, seed)
}

// BuildRoot constructs a fresh tree under the named node. Every call creates new behavior
// instances, so one config can serve many agents. A node referenced twice within the
// tree is created once and shared by its parents.
func (c *Config) BuildRoot(reg Registry, root string, seed uint64) (*Tree, error) {
	if root == "" {
		return nil, ErrNoRoot
	}
	created := make(map[string]Behavior)
	building := make(map[string]bool)

	var buildNode func(name string) (Behavior, error)
	buildNode = func(name string) (Behavior, error) {
		if n, ok := created[name]; ok {
			return n, nil
		}
		if building[name] {
			return nil, fmt.Errorf("%w at %s", ErrNodeCycle, name)
		}
		nc, ok := c.Nodes[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
		}
		building[name] = true
		defer delete(building, name)

		var (
			node Behavior
			err  error
		)
		switch nc.Type {
		case TypeBlended, "Blended":
			if len(nc.Weights) != len(nc.Children) {
				return nil, fmt.Errorf("node %s: %w (%d weights, %d children)", name, ErrWeightsLength, len(nc.Weights), len(nc.Children))
			}
			entries := make([]WeightedBehavior, 0, len(nc.Children))
			for i, chname := range nc.Children {
				ch, err := buildNode(chname)
				if err != nil {
					return nil, err
				}
				entries = append(entries, WeightedBehavior{Behavior: ch, Weight: nc.Weights[i]})
			}
			node = NewBlended(entries...)
		case TypePriority, "Priority":
			children := make([]Behavior, 0, len(nc.Children))
			for _, chname := range nc.Children {
				ch, err := buildNode(chname)
				if err != nil {
					return nil, err
				}
				children = append(children, ch)
			}
			node = NewPriority(children...)
		default:
			node, err = reg.New(NodeSpec{Name: name, Type: nc.Type, Params: nc.Params, Seed: nodeSeed(name, seed)})
			if err != nil {
				return nil, err
			}
		}
		created[name] = node
		return node, nil
	}

	rootNode, err := buildNode(root)
	if err != nil {
		return nil, err
	}
	return &Tree{root: rootNode, name: root, nodes: created}, nil
}

// nodeSeed mixes the build seed with the node name so sibling wanderers diverge while
// repeated builds with the same seed replay identically.
func nodeSeed(name string, seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(name)
	return d.Sum64()
}
