// Package ml holds the lightweight scoring networks consumed by the
// "learned" expansion-policy and value-estimator adapters in package
// mcts. Training these networks is out of scope for this module (spec.md
// §1 Non-goals); what lives here is the forward-pass consumer side:
// loading a checkpoint's weights and scoring a feature vector, the way
// original_source/Synto/mcts/expansion/filter_policy.py's PolicyNetwork
// and original_source/SynTool/mcts/evaluation.py's ValueNetwork are
// consumed (not trained) by the tree search.
package ml

import (
	"github.com/chewxy/math32"
	"gorgonia.org/tensor"
)

// Linear is a single dense layer: y = W*x + b, backed by a
// gorgonia.org/tensor dense matrix the way the teacher's agogo.go shapes
// its training tensors with tensor.New(tensor.WithShape(...)).
type Linear struct {
	Weights *tensor.Dense // shape (outputs, inputs)
	Bias    *tensor.Dense // shape (outputs)
}

// NewLinear builds a Linear layer from flat weight/bias backings.
func NewLinear(weights []float32, bias []float32, outputs, inputs int) *Linear {
	return &Linear{
		Weights: tensor.New(tensor.WithBacking(weights), tensor.WithShape(outputs, inputs)),
		Bias:    tensor.New(tensor.WithBacking(bias), tensor.WithShape(outputs)),
	}
}

// Forward computes W*x + b for a single input vector x.
func (l *Linear) Forward(x []float32) []float32 {
	xt := tensor.New(tensor.WithBacking(append([]float32(nil), x...)), tensor.WithShape(len(x), 1))
	out, err := l.Weights.MatMul(xt)
	if err != nil {
		panic(err) // shape mismatch is a configuration error, not a runtime one
	}
	result := make([]float32, out.Shape()[0])
	biasData := l.Bias.Data().([]float32)
	outData := out.Data().([]float32)
	for i := range result {
		result[i] = outData[i] + biasData[i]
	}
	return result
}

// Softmax normalizes logits into a probability distribution, matching
// original_source/Synto/mcts/expansion/filter_policy.py's
// torch.softmax(sorted_probs, -1) (applied, there as here, only to the
// already-selected top-K slice).
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	out := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		e := math32.Exp(v - max)
		out[i] = e
		sum += e
	}
	if sum > math32.SmallestNonzeroFloat32 {
		for i := range out {
			out[i] /= sum
		}
	} else {
		uniform := 1 / float32(len(out))
		for i := range out {
			out[i] = uniform
		}
	}
	return out
}
