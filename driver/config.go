package driver

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/mcts"
)

// Config configures one SearchDriver run: the tree search parameters plus
// the expansion-policy knobs named in spec.md §6's configuration table
// (top-K, threshold, priority fraction) that sit above the per-retron
// ExpansionPolicy contract.
type Config struct {
	MCTS mcts.Config `json:"mcts"`

	PolicyTopK            int     `json:"policy_top_k"`
	PolicyThreshold       float32 `json:"policy_threshold"`
	PriorityRulesFraction float32 `json:"priority_rules_fraction"`

	EvaluationType string  `json:"evaluation_type"` // random|rollout|gcn|fixed
	FixedValue     float32 `json:"fixed_value"`

	VisitsThreshold uint32 `json:"visits_threshold"` // newick pruning

	Workers int  `json:"workers"` // RunConcurrent worker count, 0 = sequential
	DumpDOT bool `json:"dump_dot"`
}

// DefaultConfig mirrors mcts.DefaultConfig plus the driver-level defaults
// named in spec.md §6.
func DefaultConfig() Config {
	return Config{
		MCTS:            mcts.DefaultConfig(),
		PolicyTopK:      50,
		PolicyThreshold: 0,
		EvaluationType:  "random",
		FixedValue:      0.5,
		VisitsThreshold: 0,
		Workers:         0,
	}
}

// SaveConfig writes cfg as indented JSON, mirroring agogo.go's
// SaveAZ/MetaData JSON-beside-checkpoint convention.
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return wrap(InputInvalid, errors.WithMessage(err, "marshal driver config"))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrap(InputInvalid, errors.WithStack(err))
	}
	return nil
}

// LoadConfig reads a Config previously written by SaveConfig, mirroring
// agogo.go's Load (meta.json read-then-unmarshal).
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, wrap(InputInvalid, errors.WithStack(err))
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, wrap(InputInvalid, errors.WithMessage(err, "unmarshal driver config"))
	}
	return cfg, nil
}
