package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
)

// oneStepTree builds the "one-step route" scenario (spec.md §8): a target
// M decomposes, via a single rule, into two building blocks A and B
// already present in stock.
func oneStepTree(t *testing.T) (*Tree, NodeID) {
	t.Helper()

	kernel := chem.NewTestKernel()
	rule := kernel.AddRule(chem.Rule{
		ID:       1,
		Reactant: "M",
		Products: []string{"A", "B"},
		Sizes:    map[string]int{"A": 10, "B": 10},
	})

	policy := NewTestDoublePolicy()
	policy.Add("M", 1.0, rule, 1)

	cfg := DefaultConfig()
	cfg.MinMolSize = 0

	target := chem.NewRootRetron(chem.NewSimpleMolecule("M", 10))
	stock := map[string]struct{}{"A": {}, "B": {}}

	tree := New(target, cfg, kernel, policy, FixedValue{Value: 0.5}, stock, NewDefaultRNG(1))

	found, winners, stopReason := tree.Step()
	require.True(t, found)
	require.Empty(t, stopReason)
	require.Len(t, winners, 1)
	return tree, winners[0]
}

func TestOneStepRouteSolves(t *testing.T) {
	tree, winner := oneStepTree(t)

	assert.Equal(t, 2, tree.Len())
	assert.True(t, tree.Node(winner).IsSolved())

	route := tree.Route(winner)
	require.Len(t, route, 1)
	assert.Equal(t, uint32(1), route[0].RuleID)
	require.Len(t, route[0].Products, 1)
	assert.Equal(t, "M", route[0].Products[0].String())
	require.Len(t, route[0].Reactants, 2)
	assert.ElementsMatch(t, []string{"A", "B"}, []string{route[0].Reactants[0].String(), route[0].Reactants[1].String()})
}

func TestOneStepRouteScore(t *testing.T) {
	tree, winner := oneStepTree(t)
	// root settles at totalValue 0.5 (muzero average of one sample), the
	// child keeps its InitNodeValue of 0.5, path length 2: 1.0 / 2^2.
	assert.InDelta(t, 0.25, tree.Score(winner), 1e-6)
}

func TestStepReturnsEmptyStopReasonWhenBudgetsOK(t *testing.T) {
	_, _, stop := oneStepTreeStep(t)
	assert.Empty(t, stop)
}

func oneStepTreeStep(t *testing.T) (bool, []NodeID, string) {
	t.Helper()
	kernel := chem.NewTestKernel()
	rule := kernel.AddRule(chem.Rule{ID: 1, Reactant: "M", Products: []string{"A"}, Sizes: map[string]int{"A": 10}})
	policy := NewTestDoublePolicy()
	policy.Add("M", 1.0, rule, 1)
	cfg := DefaultConfig()
	cfg.MinMolSize = 0
	target := chem.NewRootRetron(chem.NewSimpleMolecule("M", 10))
	tree := New(target, cfg, kernel, policy, FixedValue{Value: 0.5}, map[string]struct{}{"A": {}}, NewDefaultRNG(1))
	return tree.Step()
}

func TestStepReportsIterationBudgetExceeded(t *testing.T) {
	kernel := chem.NewTestKernel() // no rules: target can never solve
	policy := NewTestDoublePolicy()
	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	target := chem.NewRootRetron(chem.NewSimpleMolecule("M", 10))
	tree := New(target, cfg, kernel, policy, FixedValue{Value: 0}, nil, NewDefaultRNG(1))

	_, _, stop1 := tree.Step()
	assert.Empty(t, stop1) // dead leaf, not yet over budget

	_, _, stop2 := tree.Step()
	assert.Equal(t, "iterations limit exceeded", stop2)
}

func TestStepReportsTargetIsBuildingBlock(t *testing.T) {
	kernel := chem.NewTestKernel()
	policy := NewTestDoublePolicy()
	cfg := DefaultConfig()
	cfg.MinMolSize = 0
	target := chem.NewRootRetron(chem.NewSimpleMolecule("M", 10))
	stock := map[string]struct{}{"M": {}}
	tree := New(target, cfg, kernel, policy, FixedValue{Value: 0}, stock, NewDefaultRNG(1))

	_, _, stop := tree.Step()
	assert.Equal(t, "target is building block", stop)
}

func TestUCBScoreFormulas(t *testing.T) {
	tree := &Tree{
		Config: Config{UCBType: UCBPuct, CUCB: 2.0},
		nodes:  make([]Node, 3),
	}
	tree.visits = []uint32{4, 0, 1}
	tree.prior = []float32{0, 0, 0.5}
	tree.totalValue = []float32{0, 0, 0.25}
	tree.initialValue = []float32{0, 0, 0.75}

	got := tree.ucbScore(0, 2)
	assert.InDelta(t, 0.25+2.0*0.5*2.0/2.0, got, 1e-6)

	tree.UCBType = UCBUct
	got = tree.ucbScore(0, 2)
	assert.InDelta(t, 0.25+2.0*2.0/2.0, got, 1e-6)

	tree.UCBType = UCBValue
	got = tree.ucbScore(0, 2)
	assert.InDelta(t, 0.75/2.0, got, 1e-6)
}

type fixedEpsilon struct {
	f   float32
	idx int
}

func (e fixedEpsilon) Float32() float32 { return e.f }
func (e fixedEpsilon) Intn(int) int     { return e.idx }

func TestSelectChildEpsilonGreedyPicksRandomChild(t *testing.T) {
	tree := &Tree{
		Config:  Config{Epsilon: 0.5, UCBType: UCBPuct},
		epsilon: fixedEpsilon{f: 0.1, idx: 1},
	}
	tree.children = [][]NodeID{nil, {10, 20}}
	tree.visits = []uint32{0, 0, 0}
	tree.prior = []float32{0, 0, 0}
	tree.totalValue = []float32{0, 0, 0}
	tree.initialValue = []float32{0, 0, 0}
	// grow slices to cover NodeIDs 10/20 too
	for len(tree.visits) <= 20 {
		tree.visits = append(tree.visits, 0)
		tree.prior = append(tree.prior, 0)
		tree.totalValue = append(tree.totalValue, 0)
		tree.initialValue = append(tree.initialValue, 0)
	}

	assert.Equal(t, NodeID(20), tree.SelectChild(1))
}

func TestSelectChildUCBMaxBreaksTiesToFirstChild(t *testing.T) {
	tree := &Tree{
		Config:  Config{Epsilon: 0, UCBType: UCBValue},
		epsilon: fixedEpsilon{},
	}
	tree.children = [][]NodeID{nil, {1, 2}}
	tree.visits = []uint32{0, 0, 0}
	tree.prior = []float32{0, 0, 0}
	tree.totalValue = []float32{0, 0, 0}
	tree.initialValue = []float32{0, 1, 1} // equal scores -> first child wins

	assert.Equal(t, NodeID(1), tree.SelectChild(1))
}

func TestBackpropagateMuzeroAverages(t *testing.T) {
	tree := &Tree{Config: Config{BackpropType: BackpropMuzero}}
	tree.parent = []NodeID{0, 0, 1}
	tree.visits = []uint32{0, 2, 0}
	tree.totalValue = []float32{0, 1.0, 0}

	tree.Backpropagate(RootID, 0.5)
	// visits[root]=2 pre-update: (1.0*2 + 0.5)/3
	assert.InDelta(t, 2.5/3.0, tree.totalValue[RootID], 1e-6)
}

func TestBackpropagateCumulativeSums(t *testing.T) {
	tree := &Tree{Config: Config{BackpropType: BackpropCumulative}}
	tree.parent = []NodeID{0, 0, 1}
	tree.visits = []uint32{0, 0, 0}
	tree.totalValue = []float32{0, 1.0, 0}

	tree.Backpropagate(2, 0.5)
	assert.InDelta(t, 0.5, tree.totalValue[2], 1e-6)
	assert.InDelta(t, 1.5, tree.totalValue[RootID], 1e-6)
}

func TestUpdateVisitsIncrementsAncestorChain(t *testing.T) {
	tree := &Tree{}
	tree.parent = []NodeID{0, 0, 1, 2}
	tree.visits = []uint32{0, 0, 0, 0}

	tree.UpdateVisits(3)
	assert.Equal(t, []uint32{0, 1, 1, 1}, tree.visits)
}
