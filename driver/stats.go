package driver

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/mcts"
)

var statsHeader = []string{
	"target_smiles", "num_routes", "num_nodes", "num_iter",
	"search_time", "newick_tree", "newick_meta", "debug_info",
}

// WriteStatsCSV writes results as stats.csv per spec.md §6's column list.
func WriteStatsCSV(path string, results []TargetResult) error {
	f, err := os.Create(path)
	if err != nil {
		return wrap(InputInvalid, errors.WithStack(err))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statsHeader); err != nil {
		return wrap(InputInvalid, errors.WithStack(err))
	}
	for _, r := range results {
		row := []string{
			r.TargetSMILES,
			strconv.Itoa(r.NumRoutes),
			strconv.Itoa(r.NumNodes),
			strconv.FormatUint(uint64(r.NumIter), 10),
			strconv.FormatFloat(float64(r.SearchTime), 'f', -1, 32),
			r.NewickTree,
			r.NewickMeta,
			r.DebugInfo,
		}
		if err := w.Write(row); err != nil {
			return wrap(InputInvalid, errors.WithStack(err))
		}
	}
	w.Flush()
	return wrap(InputInvalid, errors.WithStack(w.Error()))
}

// WriteRoutesJSON writes one routes-list entry per target, per spec.md §6
// routes.json.
func WriteRoutesJSON(path string, results []TargetResult) error {
	type entry struct {
		Target string      `json:"target"`
		Routes []RouteNode `json:"routes"`
	}
	entries := make([]entry, len(results))
	for i, r := range results {
		entries[i] = entry{Target: r.TargetSMILES, Routes: r.Routes}
	}
	data, err := json.MarshalIndent(entries, "", "\t")
	if err != nil {
		return wrap(InputInvalid, errors.WithStack(err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrap(InputInvalid, errors.WithStack(err))
	}
	return nil
}

// formatNewickMeta renders a Newick metadata table as a stable,
// deterministic string ("node_id:total_value,initial_value,visits;...")
// suitable for the stats.csv newick_meta column (spec.md §8's
// reproducibility property requires byte-identical output across runs
// with identical seeds, so the table is emitted in sorted node-id order).
func formatNewickMeta(meta map[mcts.NodeID]mcts.NodeStats) string {
	ids := make([]mcts.NodeID, 0, len(meta))
	for id := range meta {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := ""
	for _, id := range ids {
		s := meta[id]
		out += fmt.Sprintf("%d:%g,%g,%d;", id, s.TotalValue, s.InitialValue, s.Visits)
	}
	return out
}
