package driver

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadBuildingBlocksFile reads a line-delimited SMILES-like string set
// (spec.md §6 building_blocks), one canonical string per line. Blank
// lines are skipped.
func LoadBuildingBlocksFile(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap(InputInvalid, errors.WithStack(err))
	}
	defer f.Close()

	stock := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stock[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, wrap(InputInvalid, errors.WithStack(err))
	}
	return stock, nil
}
