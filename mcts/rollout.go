package mcts

import "github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"

// Reward sentinels returned by rolloutNode (spec.md §4.6).
const (
	rolloutSolved    float32 = 1.0
	rolloutDeadEnd   float32 = -1.0
	rolloutOutOfTime float32 = -0.5
)

// rolloutNode simulates forward from retron at currentDepth, taking the
// first applicable rule at each step, up to maxDepth-currentDepth steps.
// Grounded line-for-line on original_source/SynTool/mcts/tree.py's
// `_rollout_node`.
func rolloutNode(
	retron chem.Retron,
	currentDepth, maxDepth int,
	policy ExpansionPolicy,
	kernel chem.ChemKernel,
	stock map[string]struct{},
	minMolSize int,
) float32 {
	if retron.IsBuildingBlock(stock, minMolSize) {
		return rolloutSolved
	}

	budget := maxDepth - currentDepth
	queue := []chem.Retron{retron}
	seen := map[uint64]struct{}{retron.Hash(): {}}

	steps := 0
	for len(queue) > 0 {
		if steps >= budget {
			return rolloutOutOfTime
		}

		head := queue[0]
		queue = queue[1:]

		var products chem.ProductSet
		found := false
		for _, ranked := range policy.Predict(head) {
			sets, err := kernel.Apply(head.Molecule, ranked.Rule)
			if err != nil {
				continue
			}
			for _, set := range sets {
				if len(set) > 0 {
					products = set
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return rolloutDeadEnd
		}

		loop := false
		for _, p := range products {
			if _, ok := seen[p.Hash()]; ok {
				loop = true
				break
			}
		}
		if loop {
			return rolloutDeadEnd
		}

		for _, p := range products {
			seen[p.Hash()] = struct{}{}
			child := chem.NewRetron(p, head.Ancestors)
			if !child.IsBuildingBlock(stock, minMolSize) {
				queue = append(queue, child)
			}
		}
		steps++
	}

	return rolloutSolved
}
