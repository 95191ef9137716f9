package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
	"github.com/Laboratoire-de-Chemoinformatique/SynTool/mcts"
)

func TestBuildRouteTreeOneStepRoute(t *testing.T) {
	kernel := chem.NewTestKernel()
	rule := kernel.AddRule(chem.Rule{
		ID:       7,
		Reactant: "M",
		Products: []string{"A", "B"},
		Sizes:    map[string]int{"A": 10, "B": 10},
	})
	policy := mcts.NewTestDoublePolicy()
	policy.Add("M", 1.0, rule, 7)

	cfg := mcts.DefaultConfig()
	cfg.MinMolSize = 0
	stock := map[string]struct{}{"A": {}, "B": {}}
	target := chem.NewRootRetron(chem.NewSimpleMolecule("M", 10))

	tree := mcts.New(target, cfg, kernel, policy, mcts.FixedValue{Value: 0.5}, stock, mcts.NewDefaultRNG(1))
	found, winners, _ := tree.Step()
	require.True(t, found)
	require.Len(t, winners, 1)

	route := BuildRouteTree(tree, winners[0], stock, 0)
	assert.Equal(t, "mol", route.Type)
	assert.Equal(t, "M", route.SMILES)
	assert.False(t, route.InStock)
	require.Len(t, route.Children, 1)

	reaction := route.Children[0]
	assert.Equal(t, "reaction", reaction.Type)
	assert.Equal(t, uint32(7), reaction.RuleID)
	require.Len(t, reaction.Children, 2)

	smiles := []string{reaction.Children[0].SMILES, reaction.Children[1].SMILES}
	assert.ElementsMatch(t, []string{"A", "B"}, smiles)
	assert.True(t, reaction.Children[0].InStock)
	assert.True(t, reaction.Children[1].InStock)
}

// TestBuildRouteTreeDeferredBranchIsReconstructed covers a reaction that
// produces two non-building-block retrons at once: M -> {I1, I2}. Only
// I1 becomes the immediate child's current retron; I2 sits deferred and
// isn't picked back up until I1's own sub-route (I1 -> J1 -> Y1) bottoms
// out at a building block. Both branches must still render in full.
func TestBuildRouteTreeDeferredBranchIsReconstructed(t *testing.T) {
	kernel := chem.NewTestKernel()
	ruleM := kernel.AddRule(chem.Rule{ID: 1, Reactant: "M", Products: []string{"I1", "I2"}, Sizes: map[string]int{"I1": 10, "I2": 10}})
	ruleI1 := kernel.AddRule(chem.Rule{ID: 2, Reactant: "I1", Products: []string{"J1"}, Sizes: map[string]int{"J1": 10}})
	ruleJ1 := kernel.AddRule(chem.Rule{ID: 3, Reactant: "J1", Products: []string{"Y1"}, Sizes: map[string]int{"Y1": 1}})
	ruleI2 := kernel.AddRule(chem.Rule{ID: 4, Reactant: "I2", Products: []string{"X1", "X2"}, Sizes: map[string]int{"X1": 1, "X2": 1}})

	policy := mcts.NewTestDoublePolicy()
	policy.Add("M", 1.0, ruleM, 1)
	policy.Add("I1", 1.0, ruleI1, 2)
	policy.Add("J1", 1.0, ruleJ1, 3)
	policy.Add("I2", 1.0, ruleI2, 4)

	cfg := mcts.DefaultConfig()
	cfg.MinMolSize = 0
	stock := map[string]struct{}{"Y1": {}, "X1": {}, "X2": {}}
	target := chem.NewRootRetron(chem.NewSimpleMolecule("M", 10))

	tree := mcts.New(target, cfg, kernel, policy, mcts.FixedValue{Value: 0.5}, stock, mcts.NewDefaultRNG(1))

	var winners []mcts.NodeID
	for i := 0; i < 10; i++ {
		found, w, stop := tree.Step()
		if found {
			winners = w
			break
		}
		if stop != "" {
			break
		}
	}
	require.Len(t, winners, 1)

	route := BuildRouteTree(tree, winners[0], stock, 0)
	require.Len(t, route.Children, 1)
	topReaction := route.Children[0]
	require.Len(t, topReaction.Children, 2)

	var i1Branch, i2Branch RouteNode
	for _, c := range topReaction.Children {
		switch c.SMILES {
		case "I1":
			i1Branch = c
		case "I2":
			i2Branch = c
		}
	}

	// I1 -> J1 -> Y1 (building block).
	require.Len(t, i1Branch.Children, 1)
	i1Reaction := i1Branch.Children[0]
	require.Len(t, i1Reaction.Children, 1)
	assert.Equal(t, "J1", i1Reaction.Children[0].SMILES)
	require.Len(t, i1Reaction.Children[0].Children, 1)
	j1Reaction := i1Reaction.Children[0].Children[0]
	require.Len(t, j1Reaction.Children, 1)
	assert.Equal(t, "Y1", j1Reaction.Children[0].SMILES)
	assert.True(t, j1Reaction.Children[0].InStock)
	assert.Empty(t, j1Reaction.Children[0].Children)

	// I2 must not collapse into a bare leaf: it resolves to {X1, X2}
	// several nodes later in the same winning path.
	assert.False(t, i2Branch.InStock)
	require.Len(t, i2Branch.Children, 1)
	i2Reaction := i2Branch.Children[0]
	require.Len(t, i2Reaction.Children, 2)
	i2Leaves := []string{i2Reaction.Children[0].SMILES, i2Reaction.Children[1].SMILES}
	assert.ElementsMatch(t, []string{"X1", "X2"}, i2Leaves)
	assert.True(t, i2Reaction.Children[0].InStock)
	assert.True(t, i2Reaction.Children[1].InStock)
}
