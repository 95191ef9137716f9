package mcts

import (
	"fmt"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
)

// NodeID is a dense integer identifying a node within one Tree. The root
// is always NodeID(1); NodeID(0) is the sentinel parent of the root
// (spec.md §3). Adapted from the teacher's Naughty (mcts/naughty.go): that
// type used -1 as a pointer-arena "nil", which this package has no need
// for since nodes are never freed (spec.md §3: "never removed").
type NodeID uint32

// RootID is the id of every Tree's root node.
const RootID NodeID = 1

// noParent is the sentinel stored as parent[RootID].
const noParent NodeID = 0

// Node is the immutable content of one tree node: the retrons still to be
// expanded (index 0 is the current retron, the rest is the deferred
// queue) and the retrons the parent edge just produced (used for
// evaluation). See spec.md §4.2.
type Node struct {
	RetronsToExpand []chem.Retron
	NewRetrons      []chem.Retron
}

// CurrentRetron returns the retron to decompose next, or false if the
// node is solved.
func (n Node) CurrentRetron() (chem.Retron, bool) {
	if len(n.RetronsToExpand) == 0 {
		return chem.Retron{}, false
	}
	return n.RetronsToExpand[0], true
}

// Deferred returns the retrons queued for expansion after the current one.
func (n Node) Deferred() []chem.Retron {
	if len(n.RetronsToExpand) <= 1 {
		return nil
	}
	return n.RetronsToExpand[1:]
}

// IsSolved reports whether no retrons remain to expand.
func (n Node) IsSolved() bool {
	return len(n.RetronsToExpand) == 0
}

// Format gives Node a teacher-style (mcts/node.go Format) debug
// representation.
func (n Node) Format(s fmt.State, _ rune) {
	fmt.Fprintf(s, "{ToExpand: %d, NewRetrons: %d, Solved: %v}",
		len(n.RetronsToExpand), len(n.NewRetrons), n.IsSolved())
}
