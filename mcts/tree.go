package mcts

import (
	"fmt"
	"time"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
)

// Tree owns every node of one search, keyed by the dense NodeID. Storage
// is a set of parallel slices indexed by NodeID, adapted from the
// teacher's array-of-structs MCTS (mcts/tree.go: nodes []Node, children
// [][]naughty) — but single-threaded (spec.md §5): no per-node locks, no
// free-list, no atomics. A Tree is created for one target, iterated to
// completion, and then dropped (spec.md §3 Lifecycle).
type Tree struct {
	Config

	kernel  chem.ChemKernel
	policy  ExpansionPolicy
	value   ValueEstimator
	stock   map[string]struct{} // per-tree copy-on-write building-block set (spec.md §5)
	epsilon epsilonSource

	nodes        []Node    // index 0 unused (sentinel)
	parent       []NodeID  // parent[NodeID]
	children     [][]NodeID
	visits       []uint32
	prior        []float32
	ruleID       []uint32
	hasRule      []bool
	depth        []uint32
	initialValue []float32
	totalValue   []float32

	visitedSet  []bool
	expandedSet []bool

	winningNodes []NodeID

	currentIteration uint32
	currentTreeSize  uint32
	startTime        time.Time
	currentTime      float32
}

// epsilonSource abstracts the RNG used for epsilon-greedy child selection
// in SelectChild. Kept as a narrow
// interface so the Tree doesn't hard-code a specific RNG implementation.
type epsilonSource interface {
	Float32() float32
	Intn(n int) int
}

// New builds a Tree for a single target retron. building blocks given in
// stock are copied so later per-tree mutation (removing the target
// itself, spec.md §5 "Shared resources") never affects the caller's set
// or another Tree's.
func New(target chem.Retron, cfg Config, kernel chem.ChemKernel, policy ExpansionPolicy, value ValueEstimator, stock map[string]struct{}, rng epsilonSource) *Tree {
	t := &Tree{
		Config:  cfg,
		kernel:  kernel,
		policy:  policy,
		value:   value,
		epsilon: rng,
	}

	t.stock = make(map[string]struct{}, len(stock))
	for k, v := range stock {
		t.stock[k] = v
	}
	// A target that is itself a building block stays in the stock so that
	// Step can stop with "target is building block".
	if !target.IsBuildingBlock(t.stock, int(cfg.MinMolSize)) {
		delete(t.stock, target.Molecule.String())
	}

	// index 0: sentinel, never touched again.
	t.appendNode(Node{}, noParent, 0, 0, false, 0)
	// index 1: root.
	rootNode := Node{RetronsToExpand: []chem.Retron{target}, NewRetrons: []chem.Retron{target}}
	t.appendNode(rootNode, noParent, 0, 0, false, 0)
	t.currentTreeSize = 2
	t.startTime = time.Now()

	return t
}

// appendNode allocates the next NodeID and records it in every parallel
// slice. depth is passed explicitly rather than derived, since the
// sentinel's own "parent" is itself (noParent == 0) and would otherwise
// require reading depth[0] before it exists.
func (t *Tree) appendNode(n Node, parent NodeID, prior float32, ruleID uint32, hasRule bool, depth uint32) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.parent = append(t.parent, parent)
	t.children = append(t.children, nil)
	t.visits = append(t.visits, 0)
	t.prior = append(t.prior, prior)
	t.ruleID = append(t.ruleID, ruleID)
	t.hasRule = append(t.hasRule, hasRule)
	t.depth = append(t.depth, depth)
	t.initialValue = append(t.initialValue, 0)
	t.totalValue = append(t.totalValue, 0)
	t.visitedSet = append(t.visitedSet, false)
	t.expandedSet = append(t.expandedSet, false)
	if id != 0 {
		t.children[parent] = append(t.children[parent], id)
	}
	return id
}

// Len returns the current node count, excluding the sentinel slot —
// adapted from the original Python Tree.__len__ (curr_tree_size - 1).
func (t *Tree) Len() int { return int(t.currentTreeSize) - 1 }

func (t *Tree) Node(id NodeID) Node             { return t.nodes[id] }
func (t *Tree) Parent(id NodeID) NodeID         { return t.parent[id] }
func (t *Tree) Children(id NodeID) []NodeID     { return t.children[id] }
func (t *Tree) Visits(id NodeID) uint32         { return t.visits[id] }
func (t *Tree) Prior(id NodeID) float32         { return t.prior[id] }
func (t *Tree) Depth(id NodeID) uint32          { return t.depth[id] }
func (t *Tree) InitialValue(id NodeID) float32  { return t.initialValue[id] }
func (t *Tree) TotalValue(id NodeID) float32    { return t.totalValue[id] }
func (t *Tree) IsVisited(id NodeID) bool        { return t.visitedSet[id] }
func (t *Tree) IsExpanded(id NodeID) bool       { return t.expandedSet[id] }
func (t *Tree) WinningNodes() []NodeID          { return t.winningNodes }
func (t *Tree) CurrentIteration() uint32        { return t.currentIteration }
func (t *Tree) CurrentTreeSize() uint32         { return t.currentTreeSize }
func (t *Tree) CurrentTime() float32            { return t.currentTime }

// RuleID returns the rule that produced id, and whether the node has one
// (the root has none).
func (t *Tree) RuleID(id NodeID) (uint32, bool) { return t.ruleID[id], t.hasRule[id] }

// IsDead reports whether id has been visited but has no children — a
// terminal/dead leaf (spec.md §3 invariants).
func (t *Tree) IsDead(id NodeID) bool {
	return t.visitedSet[id] && len(t.children[id]) == 0
}

// String reports a human-readable summary, grounded on
// original_source/SynTool/mcts/tree.py's report()/__repr__.
func (t *Tree) String() string {
	target := "?"
	if cur, ok := t.nodes[RootID].CurrentRetron(); ok {
		target = cur.String()
	}
	return fmt.Sprintf("Tree for: %s\nNumber of nodes: %d\nNumber of visited nodes: %d\n"+
		"Number of found routes: %d\nNumber of iterations: %d\nTime: %.1f seconds",
		target, t.Len(), countTrue(t.visitedSet), len(t.winningNodes), t.currentIteration, t.currentTime)
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
