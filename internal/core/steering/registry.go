package steering

import (
	"fmt"
	"sort"
	"sync"
)

// NodeSpec describes one leaf behavior to instantiate.
type NodeSpec struct {
	Name   string
	Type   string
	Params map[string]any
	// Seed is a deterministic per-node seed derived by the loader.
	Seed uint64
}

// Factory creates a behavior from a node spec.
type Factory func(spec NodeSpec) (Behavior, error)

// Registry maps behavior type names to factories so trees can be described in config.
type Registry interface {
	Register(typ string, factory Factory)
	New(spec NodeSpec) (Behavior, error)
	Types() []string
}

// reg is an in-memory registry.
type reg struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() Registry {
	return &reg{factories: make(map[string]Factory)}
}

func (r *reg) Register(typ string, factory Factory) {
	r.mu.Lock()
	r.factories[typ] = factory
	r.mu.Unlock()
}

func (r *reg) New(spec NodeSpec) (Behavior, error) {
	r.mu.RLock()
	f := r.factories[spec.Type]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, spec.Type)
	}
	b, err := f(spec)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", spec.Name, err)
	}
	return b, nil
}

func (r *reg) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// RegisterBuiltins registers every leaf behavior of this package.
func RegisterBuiltins(r Registry) {
	r.Register("seek", func(NodeSpec) (Behavior, error) { return NewSeek(), nil })
	r.Register("flee", func(NodeSpec) (Behavior, error) { return NewFlee(), nil })
	r.Register("face", func(NodeSpec) (Behavior, error) { return NewFace(), nil })
	r.Register("arrive", func(spec NodeSpec) (Behavior, error) {
		a := NewArrive()
		var err error
		if a.SlowRadius, err = floatParam(spec.Params, "slow_radius", a.SlowRadius); err != nil {
			return nil, err
		}
		if a.TargetRadius, err = floatParam(spec.Params, "target_radius", a.TargetRadius); err != nil {
			return nil, err
		}
		return a, nil
	})
	r.Register("pursuit", func(spec NodeSpec) (Behavior, error) {
		p := NewPursuit()
		var err error
		if p.MaxPredictionTime, err = floatParam(spec.Params, "max_prediction_time", p.MaxPredictionTime); err != nil {
			return nil, err
		}
		return p, nil
	})
	r.Register("evade", func(spec NodeSpec) (Behavior, error) {
		e := NewEvade()
		var err error
		if e.MaxPredictionTime, err = floatParam(spec.Params, "max_prediction_time", e.MaxPredictionTime); err != nil {
			return nil, err
		}
		return e, nil
	})
	r.Register("wander", func(spec NodeSpec) (Behavior, error) {
		seed := int64(spec.Seed)
		if _, ok := spec.Params["seed"]; ok {
			s, err := floatParam(spec.Params, "seed", 0)
			if err != nil {
				return nil, err
			}
			seed = int64(s)
		}
		w := NewWander(NewRand(seed))
		var err error
		if w.Offset, err = floatParam(spec.Params, "offset", w.Offset); err != nil {
			return nil, err
		}
		if w.Radius, err = floatParam(spec.Params, "radius", w.Radius); err != nil {
			return nil, err
		}
		if w.MaxAngleChange, err = floatParam(spec.Params, "max_angle_change", w.MaxAngleChange); err != nil {
			return nil, err
		}
		return w, nil
	})
}

// floatParam reads a numeric parameter. YAML decodes integers as int, JSON as float64.
func floatParam(params map[string]any, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidParam, key, v)
	}
}
