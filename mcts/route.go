package mcts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
)

// Reaction is one retrosynthetic step extracted from a route: decomposing
// products into reactants (spec.md §4.8 route).
type Reaction struct {
	RuleID    uint32
	Reactants []chem.Molecule
	Products  []chem.Molecule
}

// PathTo walks id's parent chain back to the root and returns it in
// root-to-id order (spec.md §4.8 path_to).
func (t *Tree) PathTo(id NodeID) []NodeID {
	var path []NodeID
	for n := id; ; n = t.parent[n] {
		path = append(path, n)
		if n == RootID {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Route extracts the sequence of reactions along the path to id: for each
// adjacent (before, after) pair, reactants are after's new retrons and
// products are before's current retron (spec.md §4.8 route).
func (t *Tree) Route(id NodeID) []Reaction {
	path := t.PathTo(id)
	reactions := make([]Reaction, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		before, after := path[i], path[i+1]
		current, ok := t.nodes[before].CurrentRetron()
		if !ok {
			continue
		}
		ruleID, _ := t.RuleID(after)
		reactions = append(reactions, Reaction{
			RuleID:    ruleID,
			Reactants: retronMolecules(t.nodes[after].NewRetrons),
			Products:  []chem.Molecule{current.Molecule},
		})
	}
	return reactions
}

func retronMolecules(retrons []chem.Retron) []chem.Molecule {
	mols := make([]chem.Molecule, len(retrons))
	for i, r := range retrons {
		mols[i] = r.Molecule
	}
	return mols
}

// Score ranks winning nodes by (sum of total_value along the path to
// root) / path_length^2 (spec.md §4.8 score).
func (t *Tree) Score(id NodeID) float32 {
	path := t.PathTo(id)
	var sum float32
	for _, n := range path {
		sum += t.totalValue[n]
	}
	length := float32(len(path))
	if length == 0 {
		return 0
	}
	return sum / (length * length)
}

// NodeStats is one row of a Newick metadata table: total_value,
// initial_value, visits for one node.
type NodeStats struct {
	TotalValue   float32
	InitialValue float32
	Visits       uint32
}

// Newick serializes the tree as a parenthesized string, including only
// subtrees whose visit count is at least visitsThreshold, plus a metadata
// table keyed by node id (spec.md §4.8 newick).
func (t *Tree) Newick(visitsThreshold uint32) (tree string, meta map[NodeID]NodeStats) {
	meta = make(map[NodeID]NodeStats)
	tree = t.newickNode(RootID, visitsThreshold, meta) + ";"
	return tree, meta
}

func (t *Tree) newickNode(id NodeID, threshold uint32, meta map[NodeID]NodeStats) string {
	meta[id] = NodeStats{
		TotalValue:   t.totalValue[id],
		InitialValue: t.initialValue[id],
		Visits:       t.visits[id],
	}

	children := make([]NodeID, 0, len(t.children[id]))
	for _, c := range t.children[id] {
		if t.visits[c] >= threshold {
			children = append(children, c)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })

	label := fmt.Sprintf("%d:%d", id, t.visits[id])
	if len(children) == 0 {
		return label
	}

	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = t.newickNode(c, threshold, meta)
	}
	return "(" + strings.Join(parts, ",") + ")" + label
}
