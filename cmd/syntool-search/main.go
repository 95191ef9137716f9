package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/driver"
	"github.com/Laboratoire-de-Chemoinformatique/SynTool/mcts"
)

var (
	targetsFile = flag.String("targets_file", "", "file containing one target SMILES per line")
	rulesFile   = flag.String("rules_file", "", "demo rules file (reactant|products|prob|rule_id per line)")
	stockFile   = flag.String("building_blocks_file", "", "file containing one building-block SMILES per line")
	configFile  = flag.String("config_file", "", "driver config JSON; defaults used if empty")
	outDir      = flag.String("out_dir", "out", "output directory for stats.csv and routes.json")
	workers     = flag.Int("workers", 0, "worker count for concurrent per-target search; 0 = sequential")
	dot         = flag.Bool("dot", false, "also dump one DOT file per target into out_dir")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	if *targetsFile == "" || *rulesFile == "" {
		log.Fatal("-targets_file and -rules_file are required")
	}

	cfg := driver.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = driver.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	cfg.Workers = *workers
	cfg.DumpDOT = *dot

	stock := map[string]struct{}{}
	if *stockFile != "" {
		var err error
		stock, err = driver.LoadBuildingBlocksFile(*stockFile)
		if err != nil {
			log.Fatalf("load building blocks: %v", err)
		}
	}

	kernel, policy, err := driver.LoadDemoRulesFile(*rulesFile)
	if err != nil {
		log.Fatalf("load rules: %v", err)
	}

	targets, err := driver.LoadDemoTargetsFile(*targetsFile)
	if err != nil {
		log.Fatalf("load targets: %v", err)
	}

	newValue := func() mcts.ValueEstimator {
		switch cfg.EvaluationType {
		case "fixed":
			return mcts.FixedValue{Value: cfg.FixedValue}
		case "random":
			return mcts.NewRandomValue(mcts.NewDefaultRNG(1))
		default: // "rollout", "gcn" (no weights loaded here, falls back to rollout)
			return &mcts.RolloutValue{Policy: policy, Kernel: kernel, Stock: stock, MinMolSize: int(cfg.MCTS.MinMolSize), MaxDepth: int(cfg.MCTS.MaxDepth)}
		}
	}

	d := driver.New(cfg, kernel, stock,
		func() mcts.ExpansionPolicy { return policy },
		newValue,
		func() *mcts.DefaultRNG { return mcts.NewDefaultRNG(1) },
	)

	results, err := d.RunConcurrent(targets)
	if err != nil {
		log.Printf("some targets failed: %v", err)
	}
	fmt.Print(d.Log())

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create out_dir: %v", err)
	}
	if err := driver.WriteStatsCSV(filepath.Join(*outDir, "stats.csv"), results); err != nil {
		log.Fatalf("write stats.csv: %v", err)
	}
	if err := driver.WriteRoutesJSON(filepath.Join(*outDir, "routes.json"), results); err != nil {
		log.Fatalf("write routes.json: %v", err)
	}

	if *dot {
		for i, r := range results {
			if r.DOT == "" {
				continue
			}
			path := filepath.Join(*outDir, fmt.Sprintf("target_%d.dot", i))
			if err := os.WriteFile(path, []byte(r.DOT), 0o644); err != nil {
				log.Printf("write %s: %v", path, err)
			}
		}
	}
}
