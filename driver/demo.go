package driver

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
	"github.com/Laboratoire-de-Chemoinformatique/SynTool/mcts"
)

// LoadDemoRulesFile builds a chem.TestKernel and mcts.TestDoublePolicy from
// a flat rules file, one rule per line:
//
//	reactant|product1,product2,...|probability|rule_id
//
// Reading real reaction-rule pickles/checkpoints is out of scope (spec.md
// §1); this gives the cmd/syntool-search CLI something runnable end to
// end without a real cheminformatics kernel, the same role
// chem.TestKernel plays for spec.md §8's concrete scenarios.
func LoadDemoRulesFile(path string) (*chem.TestKernel, *mcts.TestDoublePolicy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, wrap(InputInvalid, errors.WithStack(err))
	}
	defer f.Close()

	kernel := chem.NewTestKernel()
	policy := mcts.NewTestDoublePolicy()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != 4 {
			return nil, nil, wrap(InputInvalid, errors.Errorf("demo rules file %s:%d: want 4 fields, got %d", path, lineNo, len(fields)))
		}

		reactant := fields[0]
		products := strings.Split(fields[1], ",")
		prob, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return nil, nil, wrap(InputInvalid, errors.WithMessagef(err, "demo rules file %s:%d: probability", path, lineNo))
		}
		ruleID, err := strconv.ParseUint(fields[3], 10, 32)
		if err != nil {
			return nil, nil, wrap(InputInvalid, errors.WithMessagef(err, "demo rules file %s:%d: rule id", path, lineNo))
		}

		rule := chem.Rule{ID: uint32(ruleID), Reactant: reactant, Products: products}
		handle := kernel.AddRule(rule)
		policy.Add(reactant, float32(prob), handle, uint32(ruleID))
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, wrap(InputInvalid, errors.WithStack(err))
	}
	return kernel, policy, nil
}

// LoadDemoTargetsFile reads one target SMILES per line.
func LoadDemoTargetsFile(path string) ([]chem.Retron, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap(InputInvalid, errors.WithStack(err))
	}
	defer f.Close()

	var targets []chem.Retron
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		targets = append(targets, chem.NewRootRetron(chem.NewSimpleMolecule(line, len(line))))
	}
	if err := scanner.Err(); err != nil {
		return nil, wrap(InputInvalid, errors.WithStack(err))
	}
	return targets, nil
}
