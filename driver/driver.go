package driver

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/Laboratoire-de-Chemoinformatique/SynTool/chem"
	"github.com/Laboratoire-de-Chemoinformatique/SynTool/mcts"
)

// TargetResult is one row of the per-target output named in spec.md §6
// (stats.csv columns) plus the extracted route trees for routes.json.
type TargetResult struct {
	TargetSMILES string
	NumRoutes    int
	NumNodes     int
	NumIter      uint32
	SearchTime   float32
	NewickTree   string
	NewickMeta   string
	DebugInfo    string

	Routes []RouteNode
	DOT    string // populated only when Config.DumpDOT is set
}

// SearchDriver runs one or more MCTS searches sequentially or across a
// worker pool, collecting per-target statistics and routes. Grounded on
// original_source/SynTool/mcts/search.py's run_search and
// Elvenson-alphabeth/arena.go's Arena (owns the logger, drives the search
// loop, recovers per-run failures into a buffer-backed logger).
type SearchDriver struct {
	Config Config

	Kernel chem.ChemKernel
	Stock  map[string]struct{}

	NewPolicy func() mcts.ExpansionPolicy
	NewValue  func() mcts.ValueEstimator
	NewRNG    func() *mcts.DefaultRNG

	buf    bytes.Buffer
	logger *log.Logger
}

// New builds a SearchDriver. newPolicy/newValue/newRNG are factories
// rather than shared instances so RunConcurrent can give each worker its
// own (the ml-backed adapters are pure functions over immutable weights
// and safe to share, but the factory shape keeps sequential and
// concurrent runs uniform).
func New(cfg Config, kernel chem.ChemKernel, stock map[string]struct{}, newPolicy func() mcts.ExpansionPolicy, newValue func() mcts.ValueEstimator, newRNG func() *mcts.DefaultRNG) *SearchDriver {
	d := &SearchDriver{
		Config:    cfg,
		Kernel:    kernel,
		Stock:     stock,
		NewPolicy: newPolicy,
		NewValue:  newValue,
		NewRNG:    newRNG,
	}
	d.logger = log.New(&d.buf, "", log.Ltime)
	return d
}

// Log returns everything logged so far and is the channel through which
// callers inspect SearchDriver's internal log, mirroring arena.go's
// buffer-backed *log.Logger convention.
func (d *SearchDriver) Log() string { return d.buf.String() }

// Run searches every target sequentially, never aborting the whole batch
// on a single target's failure (spec.md §4.9 item 2, §4.10 item 3): a
// per-target panic or construction error is recorded as an empty-route
// result with a debug_info message and folded into the returned
// multierror so a caller can inspect every failure after the batch.
func (d *SearchDriver) Run(targets []chem.Retron) ([]TargetResult, error) {
	results := make([]TargetResult, 0, len(targets))
	var errs error

	for _, target := range targets {
		result, err := d.runOne(target, d.Stock)
		results = append(results, result)
		if err != nil {
			errs = multierror.Append(errs, errors.WithMessage(err, result.TargetSMILES))
		}
	}
	return results, errs
}

// RunConcurrent shards targets across Config.Workers goroutines, each
// owning one *mcts.Tree and one copy-on-write building-block set (spec.md
// §5 "Shared resources"). Falls back to Run when Workers <= 1.
func (d *SearchDriver) RunConcurrent(targets []chem.Retron) ([]TargetResult, error) {
	workers := d.Config.Workers
	if workers <= 1 {
		return d.Run(targets)
	}

	type job struct {
		index  int
		target chem.Retron
	}
	type outcome struct {
		index  int
		result TargetResult
		err    error
	}

	jobs := make(chan job)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stock := make(map[string]struct{}, len(d.Stock))
			for k := range d.Stock {
				stock[k] = struct{}{}
			}
			for j := range jobs {
				result, err := d.runOne(j.target, stock)
				outcomes <- outcome{index: j.index, result: result, err: err}
			}
		}()
	}

	go func() {
		for i, t := range targets {
			jobs <- job{index: i, target: t}
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]TargetResult, len(targets))
	var errs error
	for o := range outcomes {
		results[o.index] = o.result
		if o.err != nil {
			errs = multierror.Append(errs, errors.WithMessage(o.err, o.result.TargetSMILES))
		}
	}
	return results, errs
}

func (d *SearchDriver) runOne(target chem.Retron, stock map[string]struct{}) (result TargetResult, err error) {
	result.TargetSMILES = target.Molecule.String()

	defer func() {
		if r := recover(); r != nil {
			err = wrap(RuleApplicationFailed, fmt.Errorf("panic: %v", r))
			result.DebugInfo = fmt.Sprintf("exception: %v", r)
			d.logger.Printf("target %s: %v", result.TargetSMILES, r)
		}
	}()

	tree := mcts.New(target, d.Config.MCTS, d.Kernel, d.NewPolicy(), d.NewValue(), stock, d.NewRNG())

	_, winners, stopReason := tree.Run(context.Background())

	result.NumRoutes = len(winners)
	result.NumNodes = tree.Len()
	result.NumIter = tree.CurrentIteration()
	result.SearchTime = tree.CurrentTime()
	result.DebugInfo = stopReason

	newickTree, meta := tree.Newick(d.Config.VisitsThreshold)
	result.NewickTree = newickTree
	result.NewickMeta = formatNewickMeta(meta)

	result.Routes = make([]RouteNode, 0, len(winners))
	for _, w := range winners {
		result.Routes = append(result.Routes, BuildRouteTree(tree, w, stock, int(d.Config.MCTS.MinMolSize)))
	}

	if d.Config.DumpDOT {
		dot, dotErr := tree.DOT()
		if dotErr == nil {
			result.DOT = dot
		}
	}

	d.logger.Printf("target %s: %d routes, %d nodes, %s", result.TargetSMILES, result.NumRoutes, result.NumNodes, stopReason)
	return result, nil
}
