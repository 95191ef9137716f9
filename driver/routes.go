package driver

import (
	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
	"github.com/Laboratoire-de-Chemoinformatique/SynTool/mcts"
)

// RouteNode is one node of the route-tree descriptor named in spec.md §6:
// a "mol" node alternates with "reaction" children, alternating back down
// to building-block leaves.
type RouteNode struct {
	Type     string      `json:"type"` // "mol" or "reaction"
	SMILES   string      `json:"smiles,omitempty"`
	InStock  bool        `json:"in_stock,omitempty"`
	RuleID   uint32      `json:"rule_id,omitempty"`
	Children []RouteNode `json:"children,omitempty"`
}

// BuildRouteTree renders the route ending at winner as a RouteNode tree,
// alternating mol/reaction nodes down to the building blocks, per spec.md
// §6's routes.json grammar.
func BuildRouteTree(tree *mcts.Tree, winner mcts.NodeID, stock map[string]struct{}, minMolSize int) RouteNode {
	path := tree.PathTo(winner)
	return molNodeAt(tree, path, 0, stock, minMolSize)
}

func molNodeAt(tree *mcts.Tree, path []mcts.NodeID, i int, stock map[string]struct{}, minMolSize int) RouteNode {
	current, ok := tree.Node(path[i]).CurrentRetron()
	if !ok {
		// solved node: nothing left to expand, render as a bare "mol" leaf
		// with no SMILES.
		return RouteNode{Type: "mol"}
	}
	node := RouteNode{
		Type:    "mol",
		SMILES:  current.Molecule.String(),
		InStock: current.IsBuildingBlock(stock, minMolSize),
	}
	if i+1 < len(path) {
		node.Children = []RouteNode{reactionNodeAt(tree, path, i+1, stock, minMolSize)}
	}
	return node
}

func reactionNodeAt(tree *mcts.Tree, path []mcts.NodeID, i int, stock map[string]struct{}, minMolSize int) RouteNode {
	ruleID, _ := tree.RuleID(path[i])
	newRetrons := tree.Node(path[i]).NewRetrons

	node := RouteNode{Type: "reaction", RuleID: ruleID}
	node.Children = make([]RouteNode, 0, len(newRetrons))
	for _, r := range newRetrons {
		node.Children = append(node.Children, reactantNode(tree, path, i, r, stock, minMolSize))
	}
	return node
}

// reactantNode renders one of a reaction node's reactants. A reaction can
// produce more than one non-building-block retron at once (search.go's
// Expand queues every such retron onto the child's RetronsToExpand, with
// only the head becoming CurrentRetron); the rest sit deferred and only
// become some later node's current retron once earlier entries in the
// queue are resolved. So r's own subtree isn't necessarily hanging off
// path[i] — it can be anywhere further down the winning path. Search
// forward for the node where r actually becomes current and recurse
// there; only render r as a terminal leaf if no such node exists, which
// means r was a building block and never entered any queue at all.
func reactantNode(tree *mcts.Tree, path []mcts.NodeID, i int, r chem.Retron, stock map[string]struct{}, minMolSize int) RouteNode {
	if j, ok := findRetronNode(tree, path, i, r); ok {
		return molNodeAt(tree, path, j, stock, minMolSize)
	}
	return RouteNode{
		Type:    "mol",
		SMILES:  r.Molecule.String(),
		InStock: r.IsBuildingBlock(stock, minMolSize),
	}
}

// findRetronNode looks for the path index at or after from whose node is
// currently decomposing r, matching by retron equality rather than
// position since a deferred retron's turn can come several nodes later.
func findRetronNode(tree *mcts.Tree, path []mcts.NodeID, from int, r chem.Retron) (int, bool) {
	for j := from; j < len(path); j++ {
		if current, ok := tree.Node(path[j]).CurrentRetron(); ok && current.Eq(r) {
			return j, true
		}
	}
	return 0, false
}
