package ml

// PolicyNet scores a molecule's feature vector against a fixed rule set,
// producing one logit per rule ("ranking" mode) or two parallel score
// vectors ("filtering" mode, applicability + priority). Grounded on
// original_source/Synto/mcts/expansion/filter_policy.py's
// PolicyNetwork.forward, which likewise returns (probs, priority).
type PolicyNet struct {
	Ranking    *Linear // output dim == number of rules
	Priority   *Linear // only populated for filtering-mode checkpoints
	rulesCount int
}

// NewPolicyNet builds a PolicyNet with a ranking head and, optionally
// (filtering mode), a priority head.
func NewPolicyNet(ranking, priority *Linear, rulesCount int) *PolicyNet {
	return &PolicyNet{Ranking: ranking, Priority: priority, rulesCount: rulesCount}
}

// Logits returns one score per rule for a featurized molecule (ranking
// mode).
func (p *PolicyNet) Logits(features []float32) []float32 {
	return p.Ranking.Forward(features)
}

// DualLogits returns (applicability, priority) score vectors (filtering
// mode).
func (p *PolicyNet) DualLogits(features []float32) (applicability, priority []float32) {
	applicability = p.Ranking.Forward(features)
	priority = p.Priority.Forward(features)
	return
}
