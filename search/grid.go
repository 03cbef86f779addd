// Package search implements the study's model-selection loops: the
// exhaustive grid search over the two tree-pruning parameters, the
// cross-validated AUC estimate, and the feature-count sweep.
package search

import (
	"sync"
	"time"

	"github.com/premlab/adoptml/core/model"
	"github.com/premlab/adoptml/dataset"
	"github.com/premlab/adoptml/metrics"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
	"github.com/premlab/adoptml/pkg/log"
)

// Grid describes the swept ranges of the two pruning parameters.
type Grid struct {
	MinSplitFrom, MinSplitTo, MinSplitStep int
	MaxDepthFrom, MaxDepthTo               int
}

// DefaultGrid returns the study's grid: minimum-records-to-split 2..50 in
// steps of 2 crossed with maximum depth 3..10, 200 combinations.
func DefaultGrid() Grid {
	return Grid{
		MinSplitFrom: 2, MinSplitTo: 50, MinSplitStep: 2,
		MaxDepthFrom: 3, MaxDepthTo: 10,
	}
}

// combinations enumerates the grid in its defined iteration order: minsplit
// ascending, then maxdepth ascending. The selection tie-break depends on
// this order.
func (g Grid) combinations() []GridPoint {
	var points []GridPoint
	for minSplit := g.MinSplitFrom; minSplit <= g.MinSplitTo; minSplit += g.MinSplitStep {
		for maxDepth := g.MaxDepthFrom; maxDepth <= g.MaxDepthTo; maxDepth++ {
			points = append(points, GridPoint{MinSplit: minSplit, MaxDepth: maxDepth})
		}
	}
	return points
}

// GridPoint is one evaluated hyperparameter combination.
type GridPoint struct {
	MinSplit int
	MaxDepth int
	AUC      float64
}

// GridResult holds every evaluated combination, in iteration order, and the
// selected winner.
type GridResult struct {
	Points []GridPoint
	Best   GridPoint
}

// Factory builds a classifier for one hyperparameter combination. The search
// is otherwise algorithm-agnostic.
type Factory func(minSplit, maxDepth int) model.Classifier

// Searcher runs the exhaustive grid search.
type Searcher struct {
	grid    Grid
	workers int
	logger  log.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithGrid overrides the default parameter grid.
func WithGrid(g Grid) SearcherOption {
	return func(s *Searcher) { s.grid = g }
}

// WithWorkers sets how many combinations are trained concurrently. 1 (the
// default) runs sequentially. Parallelism does not affect the selected
// winner: results are recorded by iteration index and the tie-break scans
// them in order.
func WithWorkers(n int) SearcherOption {
	return func(s *Searcher) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger for search progress.
func WithLogger(logger log.Logger) SearcherOption {
	return func(s *Searcher) { s.logger = logger }
}

// NewSearcher creates a grid searcher over the default grid.
func NewSearcher(opts ...SearcherOption) *Searcher {
	s := &Searcher{grid: DefaultGrid(), workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run trains one classifier per grid combination on the training set and
// evaluates its AUC on the validation set. The winner is the combination
// with strictly maximal AUC; ties go to the combination evaluated first in
// iteration order. No early stopping: the grid is exhausted.
//
// Any failing combination, including an EvaluationError from a single-class
// validation set, aborts the whole search.
func (s *Searcher) Run(train, validation *dataset.Dataset, factory Factory) (*GridResult, error) {
	points := s.grid.combinations()
	if len(points) == 0 {
		return nil, adoptmlErrors.NewValidationError("grid", "grid has no combinations", s.grid)
	}

	start := time.Now()
	errs := make([]error, len(points))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				auc, err := s.evaluatePoint(train, validation, factory, points[idx])
				if err != nil {
					errs[idx] = adoptmlErrors.Wrapf(err,
						"grid combination minsplit=%d maxdepth=%d",
						points[idx].MinSplit, points[idx].MaxDepth)
					continue
				}
				points[idx].AUC = auc
			}
		}()
	}
	for idx := range points {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// Strictly-greater comparison over ascending indices implements the
	// first-in-order tie-break.
	best := points[0]
	for _, p := range points[1:] {
		if p.AUC > best.AUC {
			best = p
		}
	}

	if s.logger != nil {
		s.logger.Info("grid search finished",
			log.OperationKey, "grid_search",
			"combinations", len(points),
			"best_minsplit", best.MinSplit,
			"best_maxdepth", best.MaxDepth,
			log.AUCKey, best.AUC,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}

	return &GridResult{Points: points, Best: best}, nil
}

func (s *Searcher) evaluatePoint(train, validation *dataset.Dataset, factory Factory, p GridPoint) (float64, error) {
	clf := factory(p.MinSplit, p.MaxDepth)
	if err := clf.Fit(train.X, train.Y); err != nil {
		return 0, err
	}
	result, err := metrics.Evaluate(clf, validation)
	if err != nil {
		return 0, err
	}
	return result.AUC, nil
}
