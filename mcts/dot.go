package mcts

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// DOT renders the tree as a Graphviz dot string for the debug CLI: nodes
// colored by solved/dead/active status, edges labeled with rule id and
// visit count. Not used by route extraction itself — a visualization aid
// only (spec.md §4.8 addition).
func (t *Tree) DOT() (string, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName("SearchTree"); err != nil {
		return "", err
	}
	if err := graph.SetDir(true); err != nil {
		return "", err
	}

	for id := RootID; int(id) < len(t.nodes); id++ {
		name := fmt.Sprintf("n%d", id)
		attrs := map[string]string{
			"label": fmt.Sprintf("\"%d\\nvisits=%d\"", id, t.visits[id]),
			"style": "filled",
			"color": nodeColor(t, id),
		}
		if err := graph.AddNode("SearchTree", name, attrs); err != nil {
			return "", err
		}
	}

	for id := RootID; int(id) < len(t.nodes); id++ {
		for _, child := range t.children[id] {
			src := fmt.Sprintf("n%d", id)
			dst := fmt.Sprintf("n%d", child)
			label := fmt.Sprintf("visits=%d", t.visits[child])
			if ruleID, ok := t.RuleID(child); ok {
				label = fmt.Sprintf("rule=%d,visits=%d", ruleID, t.visits[child])
			}
			attrs := map[string]string{"label": "\"" + label + "\""}
			if err := graph.AddEdge(src, dst, true, attrs); err != nil {
				return "", err
			}
		}
	}

	return graph.String(), nil
}

func nodeColor(t *Tree, id NodeID) string {
	switch {
	case t.nodes[id].IsSolved():
		return "lightgreen"
	case t.IsDead(id):
		return "lightcoral"
	case t.visitedSet[id]:
		return "lightyellow"
	default:
		return "white"
	}
}
