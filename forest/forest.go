// Package forest implements a random-forest classifier: seeded bootstrap
// bagging over decision trees with per-split feature subsampling. The
// positive-class probability is the mean of the member trees' probabilities.
package forest

import (
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/core/model"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
	"github.com/premlab/adoptml/tree"
)

// Classifier is a random forest satisfying model.Classifier.
type Classifier struct {
	state *model.StateManager

	nTrees      int
	maxDepth    int
	minSplit    int
	maxFeatures int // features per split, 0 = sqrt(nFeatures)
	seed        uint64

	trees     []*tree.Classifier
	nFeatures int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTrees sets the number of trees in the forest.
func WithTrees(n int) Option {
	return func(c *Classifier) { c.nTrees = n }
}

// WithMaxDepth sets the maximum depth of each tree. 0 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(c *Classifier) { c.maxDepth = depth }
}

// WithMinSplit sets the minimum records each tree requires to attempt a
// split.
func WithMinSplit(n int) Option {
	return func(c *Classifier) { c.minSplit = n }
}

// WithMaxFeatures sets how many features each split considers. 0 selects
// sqrt(nFeatures) at fit time.
func WithMaxFeatures(n int) Option {
	return func(c *Classifier) { c.maxFeatures = n }
}

// WithSeed sets the seed driving bootstrap sampling and per-tree feature
// subsampling.
func WithSeed(seed uint64) Option {
	return func(c *Classifier) { c.seed = seed }
}

// New creates a random-forest classifier. Defaults: 100 trees, unlimited
// depth, minSplit 2, sqrt feature subsampling.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		state:    model.NewStateManager(),
		nTrees:   100,
		minSplit: 2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fit trains the forest. Trees are trained concurrently; each tree draws its
// bootstrap sample and feature subsets from a rng seeded with the forest seed
// plus the tree index, so results are reproducible regardless of scheduling.
func (c *Classifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 {
		return adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "forest.Fit")
	}
	if yCols != 1 {
		return adoptmlErrors.NewDimensionError("forest.Fit", 1, yCols, 1)
	}
	if yRows != rows {
		return adoptmlErrors.NewDimensionError("forest.Fit", rows, yRows, 0)
	}

	maxFeatures := c.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(cols)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	c.trees = make([]*tree.Classifier, c.nTrees)
	errs := make([]error, c.nTrees)

	var wg sync.WaitGroup
	for t := 0; t < c.nTrees; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()

			treeSeed := c.seed + uint64(t)
			rng := rand.New(rand.NewPCG(treeSeed, treeSeed))

			// Bootstrap sample: n indices drawn with replacement.
			bootX := mat.NewDense(rows, cols, nil)
			bootY := mat.NewDense(rows, 1, nil)
			for i := 0; i < rows; i++ {
				src := rng.IntN(rows)
				for j := 0; j < cols; j++ {
					bootX.Set(i, j, X.At(src, j))
				}
				bootY.Set(i, 0, y.At(src, 0))
			}

			member := tree.New(
				tree.WithMaxDepth(c.maxDepth),
				tree.WithMinSplit(c.minSplit),
				tree.WithMaxFeatures(maxFeatures),
				tree.WithSeed(treeSeed),
			)
			if err := member.Fit(bootX, bootY); err != nil {
				errs[t] = adoptmlErrors.Wrapf(err, "forest tree %d", t)
				return
			}
			c.trees[t] = member
		}(t)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	c.nFeatures = cols
	c.state.SetDimensions(cols, rows)
	c.state.SetFitted()
	return nil
}

// Predict returns the 0/1 label per record at the 0.5 threshold.
func (c *Classifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}

	n := proba.Len()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if proba.AtVec(i) > 0.5 {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// PredictProba returns the mean positive-class probability over all member
// trees.
func (c *Classifier) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if err := c.state.RequireFitted("RandomForest", "PredictProba"); err != nil {
		return nil, err
	}

	n, cols := X.Dims()
	if cols != c.nFeatures {
		return nil, adoptmlErrors.NewDimensionError("forest.PredictProba", c.nFeatures, cols, 1)
	}

	sum := mat.NewVecDense(n, nil)
	for _, member := range c.trees {
		proba, err := member.PredictProba(X)
		if err != nil {
			return nil, err
		}
		sum.AddVec(sum, proba)
	}
	sum.ScaleVec(1/float64(len(c.trees)), sum)
	return sum, nil
}
