package mcts

import (
	"context"
	"time"

	"github.com/chewxy/math32"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
)

// Step runs exactly one MCTS iteration: one descent from root to a
// leaf-event (solved node, dead node, expansion, or depth-budget leaf),
// mirroring the original's `__next__`/StopIteration protocol (spec.md
// §4.7). A non-empty stopReason means the tree has exhausted a budget (or
// the target is trivially solved) and should not be stepped again.
func (t *Tree) Step() (found bool, nodes []NodeID, stopReason string) {
	t.currentTime = float32(time.Since(t.startTime).Seconds())

	switch {
	case t.currentIteration >= t.MaxIterations:
		return false, nil, "iterations limit exceeded"
	case t.currentTreeSize >= t.MaxTreeSize:
		return false, nil, "max tree size exceeded"
	case t.currentTime >= t.MaxTime:
		return false, nil, "time limit exceeded"
	}
	if root, ok := t.nodes[RootID].CurrentRetron(); ok && root.IsBuildingBlock(t.stock, int(t.MinMolSize)) {
		return false, nil, "target is building block"
	}

	t.currentIteration++
	node := RootID
	currentDepth := 0

	for {
		t.visitedSet[node] = true

		if t.visits[node] > 0 {
			children := t.children[node]
			if len(children) == 0 {
				t.UpdateVisits(node)
				return false, nil, ""
			}
			node = t.SelectChild(node)
			currentDepth++
			continue
		}

		n := t.nodes[node]
		if n.IsSolved() {
			// A child found solved at expansion time is already a winner.
			already := false
			for _, w := range t.winningNodes {
				if w == node {
					already = true
					break
				}
			}
			if !already {
				t.winningNodes = append(t.winningNodes, node)
			}
			t.UpdateVisits(node)
			return true, []NodeID{node}, ""
		}

		if currentDepth >= int(t.MaxDepth) {
			t.Backpropagate(node, t.totalValue[node])
			t.UpdateVisits(node)
			return false, nil, ""
		}

		children := t.Expand(node, currentDepth)
		var value float32
		if len(children) == 0 {
			value = -1.0
		} else {
			t.expandedSet[node] = true
			if t.SearchStrategy == StrategyEvaluationFirst {
				value = t.aggregateInitialValues(children)
			} else {
				value = t.evaluateValue(n.NewRetrons, currentDepth)
			}
		}
		t.Backpropagate(node, value)
		t.UpdateVisits(node)

		var winners []NodeID
		for _, c := range children {
			if t.nodes[c].IsSolved() {
				winners = append(winners, c)
			}
		}
		if len(winners) > 0 {
			t.winningNodes = append(t.winningNodes, winners...)
			return true, winners, ""
		}
		return false, nil, ""
	}
}

// Run drives Step until a stop condition is reached (a budget exhausted,
// the target recognized as a building block, or ctx canceled), returning
// the accumulated winning nodes.
func (t *Tree) Run(ctx context.Context) (found bool, nodes []NodeID, stopReason string) {
	for {
		select {
		case <-ctx.Done():
			return len(t.winningNodes) > 0, t.winningNodes, "context canceled"
		default:
		}
		if _, _, stop := t.Step(); stop != "" {
			return len(t.winningNodes) > 0, t.winningNodes, stop
		}
	}
}

// SelectChild picks the next node to descend into, either uniformly at
// random (epsilon-greedy exploration) or by maximum UCB score, with a
// first-child tie-break preserved for reproducibility (spec.md §4.7: "the
// source's Python code comment explicitly chose first-deterministic over
// random tie-break").
func (t *Tree) SelectChild(parent NodeID) NodeID {
	children := t.children[parent]
	if t.Epsilon > 0 && t.epsilon.Float32() < t.Epsilon {
		return children[t.epsilon.Intn(len(children))]
	}

	best := children[0]
	bestScore := t.ucbScore(parent, best)
	for _, c := range children[1:] {
		if s := t.ucbScore(parent, c); s > bestScore {
			bestScore = s
			best = c
		}
	}
	return best
}

func (t *Tree) ucbScore(parent, child NodeID) float32 {
	v := float32(t.visits[child])
	N := float32(t.visits[parent])
	p := t.prior[child]
	Q := t.totalValue[child]
	V0 := t.initialValue[child]
	c := t.CUCB

	switch t.UCBType {
	case UCBUct:
		return Q + c*math32.Sqrt(N)/(v+1)
	case UCBValue:
		return V0 / (v + 1)
	default: // UCBPuct
		return Q + c*p*math32.Sqrt(N)/(v+1)
	}
}

// Expand applies every candidate rule the expansion policy offers for
// node's current retron, registering one child per accepted product
// multiset (spec.md §4.7 Expand).
func (t *Tree) Expand(node NodeID, currentDepth int) []NodeID {
	current, ok := t.nodes[node].CurrentRetron()
	if !ok {
		return nil
	}
	prev := current.Ancestors
	deferred := t.nodes[node].Deferred()

	seenProducts := make(map[uint64]struct{})
	var children []NodeID

	for _, ranked := range t.policy.Predict(current) {
		sets, err := t.kernel.Apply(current.Molecule, ranked.Rule)
		if err != nil {
			continue
		}
		for _, products := range sets {
			if len(products) == 0 || allSeen(products, seenProducts) {
				continue
			}
			markSeen(products, seenProducts)

			newRetrons := make([]chem.Retron, len(products))
			for i, p := range products {
				newRetrons[i] = chem.NewRetron(p, prev)
			}

			if !chem.DisjointFromAncestors(prev, newRetrons) {
				continue
			}

			scaled := ranked.Probability * countAboveMinSize(products, int(t.MinMolSize))

			toExpand := make([]chem.Retron, 0, len(deferred)+len(newRetrons))
			toExpand = append(toExpand, deferred...)
			for _, r := range newRetrons {
				if !r.IsBuildingBlock(t.stock, int(t.MinMolSize)) {
					toExpand = append(toExpand, r)
				}
			}

			child := Node{RetronsToExpand: toExpand, NewRetrons: newRetrons}
			childID := t.AddNode(node, child, scaled, ranked.RuleID, currentDepth+1)
			children = append(children, childID)
		}
	}
	return children
}

func allSeen(products chem.ProductSet, seen map[uint64]struct{}) bool {
	for _, p := range products {
		if _, ok := seen[p.Hash()]; !ok {
			return false
		}
	}
	return true
}

func markSeen(products chem.ProductSet, seen map[uint64]struct{}) {
	for _, p := range products {
		seen[p.Hash()] = struct{}{}
	}
}

func countAboveMinSize(products chem.ProductSet, minSize int) float32 {
	var n float32
	for _, p := range products {
		if p.Size() > minSize {
			n++
		}
	}
	return n
}

// AddNode registers child under parent, assigns its NodeID, and computes
// its initial value per the configured search strategy (spec.md §4.7
// AddNode).
func (t *Tree) AddNode(parent NodeID, child Node, priorProb float32, ruleID uint32, depth int) NodeID {
	id := t.appendNode(child, parent, priorProb, ruleID, true, uint32(depth))

	var iv float32
	if t.SearchStrategy == StrategyEvaluationFirst {
		iv = t.evaluateValue(child.NewRetrons, depth)
	} else {
		iv = t.InitNodeValue
	}
	t.initialValue[id] = iv
	t.totalValue[id] = iv
	t.currentTreeSize++
	return id
}

// evaluateValue dispatches to the configured ValueEstimator, passing the
// current depth through for rollout evaluators (spec.md §4.7 AddNode:
// "for rollout, pass current_depth = depth[child]").
func (t *Tree) evaluateValue(newRetrons []chem.Retron, depth int) float32 {
	if rv, ok := t.value.(*RolloutValue); ok {
		return rv.EvaluateRetrons(newRetrons, depth)
	}
	return t.value.Evaluate(newRetrons)
}

func (t *Tree) aggregateInitialValues(children []NodeID) float32 {
	if len(children) == 0 {
		return -1.0
	}
	switch t.EvaluationAgg {
	case AggMean:
		var sum float32
		for _, c := range children {
			sum += t.initialValue[c]
		}
		return sum / float32(len(children))
	default: // AggMax
		best := t.initialValue[children[0]]
		for _, c := range children[1:] {
			if t.initialValue[c] > best {
				best = t.initialValue[c]
			}
		}
		return best
	}
}

// Backpropagate folds value into node and every ancestor up to the root,
// per the configured BackpropType (spec.md §4.7 Backpropagate).
func (t *Tree) Backpropagate(node NodeID, value float32) {
	for n := node; ; n = t.parent[n] {
		switch t.BackpropType {
		case BackpropCumulative:
			t.totalValue[n] += value
		default: // BackpropMuzero
			v := float32(t.visits[n])
			t.totalValue[n] = (t.totalValue[n]*v + value) / (v + 1)
		}
		if n == RootID {
			break
		}
	}
}

// UpdateVisits increments the visit count of node and every ancestor up to
// the root (spec.md §4.7 UpdateVisits).
func (t *Tree) UpdateVisits(node NodeID) {
	for n := node; ; n = t.parent[n] {
		t.visits[n]++
		if n == RootID {
			break
		}
	}
}
