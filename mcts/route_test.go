package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewickRendersSolvedOneStepRoute(t *testing.T) {
	tree, _ := oneStepTree(t)

	newick, meta := tree.Newick(0)
	assert.Equal(t, "(2:0)1:1;", newick)

	require.Contains(t, meta, RootID)
	require.Contains(t, meta, NodeID(2))
	assert.Equal(t, uint32(1), meta[RootID].Visits)
	assert.InDelta(t, 0.5, meta[RootID].TotalValue, 1e-6)
	assert.Equal(t, uint32(0), meta[NodeID(2)].Visits)
	assert.InDelta(t, 0.5, meta[NodeID(2)].InitialValue, 1e-6)
}

func TestNewickPrunesBelowVisitsThreshold(t *testing.T) {
	tree, _ := oneStepTree(t)

	newick, _ := tree.Newick(1) // child has 0 visits, pruned
	assert.Equal(t, "1:1;", newick)
}

func TestDOTRendersSearchTree(t *testing.T) {
	tree, winner := oneStepTree(t)

	dot, err := tree.DOT()
	require.NoError(t, err)
	assert.Contains(t, dot, "SearchTree")
	assert.Contains(t, dot, "n1")
	assert.Contains(t, dot, "n2")
	assert.True(t, tree.Node(winner).IsSolved())
}

func TestPathToReturnsRootToNodeOrder(t *testing.T) {
	tree, winner := oneStepTree(t)
	path := tree.PathTo(winner)
	assert.Equal(t, []NodeID{RootID, winner}, path)
}
