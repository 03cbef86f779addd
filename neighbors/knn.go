// Package neighbors implements a k-nearest-neighbors classifier. Fitting
// stores the training data; prediction scans it per query record, with the
// positive-class probability taken as the positive share among the k nearest
// neighbors by euclidean distance.
package neighbors

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/core/model"
	"github.com/premlab/adoptml/core/parallel"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// parallelThreshold is the query count below which prediction runs
// sequentially.
const parallelThreshold = 64

// Classifier is a k-NN classifier satisfying model.Classifier.
type Classifier struct {
	state *model.StateManager

	k int

	trainX *mat.Dense
	trainY []int

	nFeatures int
}

// New creates a k-NN classifier with the given neighbor count.
func New(k int) *Classifier {
	if k < 1 {
		k = 1
	}
	return &Classifier{state: model.NewStateManager(), k: k}
}

// Fit stores the training data. k-NN is lazy: all work happens at prediction.
func (c *Classifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 {
		return adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "neighbors.Fit")
	}
	if yCols != 1 {
		return adoptmlErrors.NewDimensionError("neighbors.Fit", 1, yCols, 1)
	}
	if yRows != rows {
		return adoptmlErrors.NewDimensionError("neighbors.Fit", rows, yRows, 0)
	}
	if c.k > rows {
		return adoptmlErrors.NewValidationError("k", "cannot exceed number of training records", c.k)
	}

	c.trainX = mat.DenseCopyOf(X)
	c.trainY = make([]int, rows)
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if v != 0 && v != 1 {
			return adoptmlErrors.NewValidationError("y", "labels must be 0 or 1", v)
		}
		c.trainY[i] = int(v)
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

// PredictProba returns, per record, the positive share among its k nearest
// training neighbors. Queries are scored in parallel across CPU cores.
func (c *Classifier) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if err := c.state.RequireFitted("KNN", "PredictProba"); err != nil {
		return nil, err
	}

	n, cols := X.Dims()
	if cols != c.nFeatures {
		return nil, adoptmlErrors.NewDimensionError("neighbors.PredictProba", c.nFeatures, cols, 1)
	}

	out := mat.NewVecDense(n, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		query := make([]float64, cols)
		for i := start; i < end; i++ {
			mat.Row(query, i, X)
			out.SetVec(i, c.scoreQuery(query))
		}
	})
	return out, nil
}

// scoreQuery maintains a small sorted slice of the k nearest neighbors seen
// so far and returns their positive share.
func (c *Classifier) scoreQuery(query []float64) float64 {
	type neighbor struct {
		dist  float64
		label int
	}

	rows, _ := c.trainX.Dims()
	nearest := make([]neighbor, 0, c.k+1)

	for i := 0; i < rows; i++ {
		d := 0.0
		row := c.trainX.RawRowView(i)
		for j, q := range query {
			diff := q - row[j]
			d += diff * diff
		}

		if len(nearest) < c.k {
			nearest = append(nearest, neighbor{dist: d, label: c.trainY[i]})
			sort.Slice(nearest, func(a, b int) bool { return nearest[a].dist < nearest[b].dist })
		} else if d < nearest[len(nearest)-1].dist {
			nearest[len(nearest)-1] = neighbor{dist: d, label: c.trainY[i]}
			sort.Slice(nearest, func(a, b int) bool { return nearest[a].dist < nearest[b].dist })
		}
	}

	positives := 0
	for _, nb := range nearest {
		positives += nb.label
	}
	return float64(positives) / float64(len(nearest))
}
