// Package tuning adjusts blended behavior weights of a running tree from a YAML file.
package tuning

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/steering/internal/core/steering"
)

var (
	ErrNotBlended    = errors.New("node is not a blended behavior")
	ErrNotChild      = errors.New("node is not a child of the blended behavior")
	ErrInvalidWeight = errors.New("weight must be a finite number")
)

// WeightSet maps blended node names to child node names to weights.
//
//	weights:
//	  seeker_mix:
//	    seek_point: 0.4
//	    evade_wanderer: 1
type WeightSet struct {
	Weights map[string]map[string]float64 `yaml:"weights"`
}

// LoadWeights decodes a weight file.
func LoadWeights(r io.Reader) (*WeightSet, error) {
	var ws WeightSet
	if err := yaml.NewDecoder(r).Decode(&ws); err != nil {
		if errors.Is(err, io.EOF) {
			return &WeightSet{}, nil
		}
		return nil, err
	}
	return &ws, nil
}

func LoadWeightsFile(path string) (*WeightSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadWeights(f)
}

// Apply writes the weights into tree and returns how many entries changed. Nodes the
// tree does not contain are skipped, so one file can serve trees built from different
// roots. A node that exists but is not blended, or a child it does not have, fails the
// whole call before anything is written.
func Apply(tree *steering.Tree, ws *WeightSet) (int, error) {
	if tree == nil || ws == nil {
		return 0, nil
	}
	type update struct {
		blended *steering.Blended
		child   steering.Behavior
		weight  float64
	}
	var updates []update

	for _, name := range sortedKeys(ws.Weights) {
		node, ok := tree.Behavior(name)
		if !ok {
			continue
		}
		blended, ok := node.(*steering.Blended)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrNotBlended, name)
		}
		children := ws.Weights[name]
		for _, childName := range sortedKeys(children) {
			w := children[childName]
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return 0, fmt.Errorf("%w: %s.%s", ErrInvalidWeight, name, childName)
			}
			child, ok := tree.Behavior(childName)
			if !ok {
				return 0, fmt.Errorf("%w: %s.%s", ErrNotChild, name, childName)
			}
			if _, ok := blended.Weight(child); !ok {
				return 0, fmt.Errorf("%w: %s.%s", ErrNotChild, name, childName)
			}
			updates = append(updates, update{blended: blended, child: child, weight: w})
		}
	}

	changed := 0
	for _, u := range updates {
		cur, _ := u.blended.Weight(u.child)
		if *cur != u.weight {
			u.blended.SetWeight(u.child, u.weight)
			changed++
		}
	}
	return changed, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
