package mcts

import (
	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
	"github.com/Laboratoire-de-Chemoinformatique/SynTool/ml"
	"gonum.org/v1/gonum/stat/distuv"
)

// ValueEstimator scores a node's freshly produced retrons with a scalar
// value (spec.md §4.4). Grounded on the teacher's Inferencer interface
// (mcts/search.go): one capability method, pluggable implementation.
type ValueEstimator interface {
	Evaluate(newRetrons []chem.Retron) float32
}

// RandomValue draws a uniform value in [0,1), grounded on
// original_source/SynTool/mcts/tree.py's `from numpy.random import
// uniform` (the original imports a dedicated distribution rather than the
// stdlib `random` module; gonum's distuv.Uniform is the Go equivalent).
type RandomValue struct {
	dist distuv.Uniform
}

// NewRandomValue builds a RandomValue sourced from src.
func NewRandomValue(src *DefaultRNG) *RandomValue {
	return &RandomValue{dist: distuv.Uniform{Min: 0, Max: 1, Src: src}}
}

// Evaluate implements ValueEstimator.
func (r *RandomValue) Evaluate(_ []chem.Retron) float32 {
	return float32(r.dist.Rand())
}

// FixedValue always returns a configured constant.
type FixedValue struct {
	Value float32
}

// Evaluate implements ValueEstimator.
func (f FixedValue) Evaluate(_ []chem.Retron) float32 { return f.Value }

// LearnedNetworkValue composes the node's new retrons into one molecule
// (chem.Compose) and scores it with an ml.ValueNet. Returns -1e6 if
// featurization fails, per spec.md §4.4.
type LearnedNetworkValue struct {
	Net          *ml.ValueNet
	Featurize    func(chem.Molecule) ([]float32, bool)
	ExcludeSmall bool
	MinMolSize   int
}

// Evaluate implements ValueEstimator.
func (v *LearnedNetworkValue) Evaluate(newRetrons []chem.Retron) float32 {
	if len(newRetrons) == 0 {
		return -1e6
	}
	composed := chem.Compose(newRetrons, v.ExcludeSmall, v.MinMolSize)
	features, ok := v.Featurize(composed)
	if !ok {
		return -1e6
	}
	return v.Net.Predict(features)
}

// RolloutValue simulates forward from the node's retrons using the
// expansion policy and chemistry kernel (spec.md §4.6). Per spec.md
// §4.4's _get_node_value (original_source/SynTool/mcts/tree.py), the
// node's value is the minimum rollout reward across the node's new retrons
// (default 1.0 if there are none).
type RolloutValue struct {
	Policy     ExpansionPolicy
	Kernel     chem.ChemKernel
	Stock      map[string]struct{}
	MinMolSize int
	MaxDepth   int
}

// Evaluate implements ValueEstimator with a current depth of 0; Tree does
// not call it, since rollout also needs the current depth, which the
// ValueEstimator.Evaluate signature doesn't carry. Tree calls
// EvaluateRetrons for rollout instead; see search.go's evaluateValue.
func (r *RolloutValue) Evaluate(newRetrons []chem.Retron) float32 {
	return r.EvaluateRetrons(newRetrons, 0)
}

// EvaluateRetrons returns the minimum rollout reward across retrons. Both
// callers (search.go's Step and AddNode, via evaluateValue) pass a node's
// NewRetrons, never its full RetronsToExpand queue: per spec.md §4.4 the
// value assigned to a freshly expanded child is the worst outcome among
// the retrons its own edge just produced, not a re-aggregation of
// whatever its parent still had queued.
func (r *RolloutValue) EvaluateRetrons(retrons []chem.Retron, currentDepth int) float32 {
	if len(retrons) == 0 {
		return 1.0
	}
	best := float32(1.0)
	first := true
	for _, retron := range retrons {
		v := rolloutNode(retron, currentDepth, r.MaxDepth, r.Policy, r.Kernel, r.Stock, r.MinMolSize)
		if first || v < best {
			best = v
			first = false
		}
	}
	return best
}
