// Package bayes implements a Gaussian naive Bayes classifier for continuous
// features: per-class feature likelihoods are modeled as independent normal
// distributions.
package bayes

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/core/model"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
	"github.com/premlab/adoptml/pkg/log"
)

var globalProvider log.LoggerProvider

// varianceFloor keeps per-feature variances away from zero, as a fraction of
// the largest feature variance. Matches the smoothing scikit-learn applies.
const varianceFloor = 1e-9

// GaussianNB is a Gaussian naive Bayes classifier satisfying
// model.Classifier.
type GaussianNB struct {
	state  *model.StateManager
	logger log.Logger

	priors []float64   // log class priors, negative then positive
	means  [][]float64 // per class, per feature mean
	vars   [][]float64 // per class, per feature variance

	nFeatures int
}

// Option configures a GaussianNB.
type Option func(*GaussianNB)

// NewGaussianNB creates a Gaussian naive Bayes classifier.
func NewGaussianNB(opts ...Option) *GaussianNB {
	nb := &GaussianNB{state: model.NewStateManager()}
	for _, opt := range opts {
		opt(nb)
	}
	if globalProvider == nil {
		globalProvider = log.NewZerologProvider(log.LevelInfo)
	}
	nb.logger = globalProvider.GetLoggerWithName("GaussianNB")
	return nb
}

// Fit estimates class priors and per-class feature means and variances.
func (nb *GaussianNB) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 {
		return adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "bayes.Fit")
	}
	if yCols != 1 {
		return adoptmlErrors.NewDimensionError("bayes.Fit", 1, yCols, 1)
	}
	if yRows != rows {
		return adoptmlErrors.NewDimensionError("bayes.Fit", rows, yRows, 0)
	}

	counts := [2]int{}
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if v != 0 && v != 1 {
			return adoptmlErrors.NewValidationError("y", "labels must be 0 or 1", v)
		}
		counts[int(v)]++
	}
	if counts[0] == 0 || counts[1] == 0 {
		return adoptmlErrors.NewValidationError("y", "training data must contain both classes", counts)
	}

	nb.nFeatures = cols
	nb.priors = []float64{
		math.Log(float64(counts[0]) / float64(rows)),
		math.Log(float64(counts[1]) / float64(rows)),
	}

	nb.means = [][]float64{make([]float64, cols), make([]float64, cols)}
	nb.vars = [][]float64{make([]float64, cols), make([]float64, cols)}

	for i := 0; i < rows; i++ {
		cls := int(y.At(i, 0))
		for j := 0; j < cols; j++ {
			nb.means[cls][j] += X.At(i, j)
		}
	}
	for cls := 0; cls < 2; cls++ {
		for j := 0; j < cols; j++ {
			nb.means[cls][j] /= float64(counts[cls])
		}
	}

	maxVar := 0.0
	for i := 0; i < rows; i++ {
		cls := int(y.At(i, 0))
		for j := 0; j < cols; j++ {
			d := X.At(i, j) - nb.means[cls][j]
			nb.vars[cls][j] += d * d
		}
	}
	for cls := 0; cls < 2; cls++ {
		for j := 0; j < cols; j++ {
			nb.vars[cls][j] /= float64(counts[cls])
			if nb.vars[cls][j] > maxVar {
				maxVar = nb.vars[cls][j]
			}
		}
	}

	// Variance smoothing keeps degenerate (constant) features from producing
	// infinite log densities.
	floor := varianceFloor * maxVar
	if floor == 0 {
		floor = varianceFloor
	}
	for cls := 0; cls < 2; cls++ {
		for j := 0; j < cols; j++ {
			if nb.vars[cls][j] < floor {
				nb.vars[cls][j] = floor
			}
		}
	}

	nb.state.SetDimensions(cols, rows)
	nb.state.SetFitted()
	nb.logger.Debug("fitted gaussian naive bayes",
		log.OperationKey, "fit",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)
	return nil
}

// Predict returns the 0/1 label per record at the 0.5 threshold.
func (nb *GaussianNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := nb.PredictProba(X)
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

// PredictProba returns the positive-class posterior probability per record.
func (nb *GaussianNB) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if err := nb.state.RequireFitted("GaussianNB", "PredictProba"); err != nil {
		return nil, err
	}

	n, cols := X.Dims()
	if cols != nb.nFeatures {
		return nil, adoptmlErrors.NewDimensionError("bayes.PredictProba", nb.nFeatures, cols, 1)
	}

	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		logPost := [2]float64{nb.priors[0], nb.priors[1]}
		for cls := 0; cls < 2; cls++ {
			for j := 0; j < cols; j++ {
				logPost[cls] += logNormal(X.At(i, j), nb.means[cls][j], nb.vars[cls][j])
			}
		}
		// Positive posterior via the stable log-sum-exp of the two scores.
		out.SetVec(i, 1/(1+math.Exp(logPost[0]-logPost[1])))
	}
	return out, nil
}

// logNormal is the log density of a normal distribution with the given mean
// and variance.
func logNormal(x, mean, variance float64) float64 {
	d := x - mean
	return -0.5*math.Log(2*math.Pi*variance) - d*d/(2*variance)
}
