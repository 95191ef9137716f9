package ml

// ValueNet scores a single composed molecule's feature vector with a
// scalar "synthesisability" estimate. Grounded on
// original_source/SynTool/mcts/evaluation.py's ValueNetwork.forward,
// consumed here (not trained) by mcts.LearnedNetworkValue.
type ValueNet struct {
	Head *Linear // output dim == 1
}

// NewValueNet builds a ValueNet from a single linear head.
func NewValueNet(head *Linear) *ValueNet {
	return &ValueNet{Head: head}
}

// Predict returns the scalar value for a featurized molecule.
func (v *ValueNet) Predict(features []float32) float32 {
	out := v.Head.Forward(features)
	if len(out) == 0 {
		return 0
	}
	return out[0]
}
