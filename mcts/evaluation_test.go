package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
)

func TestFixedValueIgnoresInput(t *testing.T) {
	v := FixedValue{Value: 0.42}
	assert.Equal(t, float32(0.42), v.Evaluate(nil))
	assert.Equal(t, float32(0.42), v.Evaluate([]chem.Retron{chem.NewRootRetron(chem.NewSimpleMolecule("X", 1))}))
}

func TestRandomValueIsBounded(t *testing.T) {
	v := NewRandomValue(NewDefaultRNG(7))
	for i := 0; i < 50; i++ {
		got := v.Evaluate(nil)
		assert.GreaterOrEqual(t, got, float32(0))
		assert.Less(t, got, float32(1))
	}
}

func TestLearnedNetworkValueFailsClosedOnFeaturizeError(t *testing.T) {
	v := &LearnedNetworkValue{
		Featurize: func(chem.Molecule) ([]float32, bool) { return nil, false },
	}
	got := v.Evaluate([]chem.Retron{chem.NewRootRetron(chem.NewSimpleMolecule("X", 1))})
	assert.Equal(t, float32(-1e6), got)
}

func TestLearnedNetworkValueEmptyRetronsFailsClosed(t *testing.T) {
	v := &LearnedNetworkValue{}
	assert.Equal(t, float32(-1e6), v.Evaluate(nil))
}
