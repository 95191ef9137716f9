package mcts

import (
	"sort"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
	"github.com/Laboratoire-de-Chemoinformatique/SynTool/ml"
)

// RankedRule is one candidate reaction produced by an ExpansionPolicy:
// the estimated probability of the edge, the opaque rule, and its id.
type RankedRule struct {
	Probability float32
	Rule        chem.RuleHandle
	RuleID      uint32
}

// ExpansionPolicy predicts, for a retron, a ranked (descending
// probability) sequence of candidate reactions, already filtered by
// score threshold and top-K (spec.md §4.3). Grounded on the teacher's
// Inferencer interface (mcts/search.go): a single capability method
// isolates the tree from whatever model backs it.
type ExpansionPolicy interface {
	Predict(retron chem.Retron) []RankedRule
}

// TestDoublePolicy is a fixed, deterministic expansion policy: a
// per-molecule table of candidate rules, already sorted by descending
// probability by the caller. It is the "test double" variant of
// spec.md §4.3, used to drive spec.md §8's concrete scenarios.
type TestDoublePolicy struct {
	Table map[string][]RankedRule
}

// NewTestDoublePolicy builds an empty TestDoublePolicy.
func NewTestDoublePolicy() *TestDoublePolicy {
	return &TestDoublePolicy{Table: make(map[string][]RankedRule)}
}

// Add registers a candidate rule for molecule smiles. Rules are returned
// from Predict in registration order relative to their probability (the
// whole table is re-sorted by descending probability so callers need not
// add them in order themselves).
func (p *TestDoublePolicy) Add(smiles string, prob float32, rule chem.RuleHandle, ruleID uint32) {
	p.Table[smiles] = append(p.Table[smiles], RankedRule{Probability: prob, Rule: rule, RuleID: ruleID})
	sort.SliceStable(p.Table[smiles], func(i, j int) bool {
		return p.Table[smiles][i].Probability > p.Table[smiles][j].Probability
	})
}

// Predict implements ExpansionPolicy.
func (p *TestDoublePolicy) Predict(retron chem.Retron) []RankedRule {
	return p.Table[retron.Molecule.String()]
}

// LearnedRankingPolicy wraps an ml.PolicyNet that scores every rule in a
// fixed rule set with a single logit per rule: the top-K logits are
// softmax-normalized into probabilities and filtered by threshold
// (spec.md §4.3 "Learned (ranking)").
type LearnedRankingPolicy struct {
	Net       *ml.PolicyNet
	Rules     []chem.RuleHandle
	TopK      int
	Threshold float32
	Featurize func(chem.Molecule) []float32
}

// Predict implements ExpansionPolicy.
func (p *LearnedRankingPolicy) Predict(retron chem.Retron) []RankedRule {
	logits := p.Net.Logits(p.Featurize(retron.Molecule))
	n := len(logits)
	if n > len(p.Rules) {
		n = len(p.Rules)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return logits[idx[a]] > logits[idx[b]] })

	k := p.TopK
	if k <= 0 || k > len(idx) {
		k = len(idx)
	}
	top := idx[:k]

	probs := ml.Softmax(selectFloats(logits, top))

	out := make([]RankedRule, 0, k)
	for i, ruleIdx := range top {
		prob := probs[i]
		if prob <= p.Threshold {
			continue
		}
		out = append(out, RankedRule{Probability: prob, Rule: p.Rules[ruleIdx], RuleID: uint32(ruleIdx)})
	}
	return out
}

func selectFloats(v []float32, idx []int) []float32 {
	out := make([]float32, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}

// LearnedFilteringPolicy wraps an ml.PolicyNet that emits, per rule, both
// an applicability score and a priority score; the final probability is
// a convex combination of the two controlled by PriorityRulesFraction
// (spec.md §4.3 "Learned (filtering)"). Grounded on
// original_source/Synto/mcts/expansion/filter_policy.py.
type LearnedFilteringPolicy struct {
	Net                   *ml.PolicyNet
	Rules                 []chem.RuleHandle
	TopK                  int
	Threshold             float32
	PriorityRulesFraction float32 // alpha in [0,1]
	Featurize             func(chem.Molecule) []float32
}

// Predict implements ExpansionPolicy.
func (p *LearnedFilteringPolicy) Predict(retron chem.Retron) []RankedRule {
	features := p.Featurize(retron.Molecule)
	applicability, priority := p.Net.DualLogits(features)

	alpha := p.PriorityRulesFraction
	combined := make([]float32, len(applicability))
	for i := range combined {
		combined[i] = (1-alpha)*applicability[i] + alpha*priority[i]
	}

	n := len(combined)
	if n > len(p.Rules) {
		n = len(p.Rules)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return combined[idx[a]] > combined[idx[b]] })

	k := p.TopK
	if k <= 0 || k > len(idx) {
		k = len(idx)
	}
	top := idx[:k]
	probs := ml.Softmax(selectFloats(combined, top))

	out := make([]RankedRule, 0, k)
	for i, ruleIdx := range top {
		prob := probs[i]
		if prob <= p.Threshold {
			continue
		}
		out = append(out, RankedRule{Probability: prob, Rule: p.Rules[ruleIdx], RuleID: uint32(ruleIdx)})
	}
	return out
}
