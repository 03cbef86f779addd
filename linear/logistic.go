// Package linear implements binary logistic regression fitted by L-BFGS with
// optional L2 regularization.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/premlab/adoptml/core/model"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

const epsilonSmall = 1e-15

// LogisticRegression is a binary logistic-regression classifier satisfying
// model.Classifier.
type LogisticRegression struct {
	state *model.StateManager

	c            float64 // inverse L2 regularization strength, 0 disables
	fitIntercept bool
	maxIter      int
	tol          float64

	coef      []float64
	intercept float64
	nFeatures int
	nIter     int
}

// Option configures a LogisticRegression.
type Option func(*LogisticRegression)

// WithC sets the inverse L2 regularization strength. 0 disables
// regularization.
func WithC(c float64) Option {
	return func(lr *LogisticRegression) { lr.c = c }
}

// WithFitIntercept controls whether an intercept term is fitted.
func WithFitIntercept(fit bool) Option {
	return func(lr *LogisticRegression) { lr.fitIntercept = fit }
}

// WithMaxIter sets the maximum number of L-BFGS iterations.
func WithMaxIter(n int) Option {
	return func(lr *LogisticRegression) { lr.maxIter = n }
}

// WithTol sets the gradient threshold for convergence.
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// New creates a logistic-regression classifier. Defaults: C=1, intercept
// fitted, 100 iterations, tolerance 1e-4.
func New(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		fitIntercept: true,
		maxIter:      100,
		tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// stableSigmoid computes sigmoid(z) without overflow for large |z|.
func stableSigmoid(z float64) float64 {
	if z >= 0 {
		ez := math.Exp(-z)
		return 1.0 / (1.0 + ez)
	}
	ez := math.Exp(z)
	return ez / (1.0 + ez)
}

func clampProbability(p float64) float64 {
	if p < epsilonSmall {
		return epsilonSmall
	}
	if p > 1-epsilonSmall {
		return 1 - epsilonSmall
	}
	return p
}

// Fit minimizes the mean negative log-likelihood plus the L2 penalty with
// L-BFGS.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "linear.Fit")
	}
	if yCols != 1 {
		return adoptmlErrors.NewDimensionError("linear.Fit", 1, yCols, 1)
	}
	if yRows != nSamples {
		return adoptmlErrors.NewDimensionError("linear.Fit", nSamples, yRows, 0)
	}

	yBinary := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		v := y.At(i, 0)
		if v != 0 && v != 1 {
			return adoptmlErrors.NewValidationError("y", "labels must be 0 or 1", v)
		}
		yBinary[i] = v
	}

	xD := mat.DenseCopyOf(X)

	lambda := 0.0
	if lr.c > 0 {
		lambda = 1.0 / lr.c
	}

	dim := nFeatures
	if lr.fitIntercept {
		dim++
	}

	prob := optimize.Problem{
		Func: func(theta []float64) float64 {
			w := theta[:nFeatures]
			b := 0.0
			if lr.fitIntercept {
				b = theta[nFeatures]
			}
			loss := 0.0
			for i := 0; i < nSamples; i++ {
				z := b
				for j := 0; j < nFeatures; j++ {
					z += w[j] * xD.At(i, j)
				}
				p := clampProbability(stableSigmoid(z))
				loss += -yBinary[i]*math.Log(p) - (1.0-yBinary[i])*math.Log(1.0-p)
			}
			loss /= float64(nSamples)
			if lambda > 0 {
				reg := 0.0
				for j := 0; j < nFeatures; j++ {
					reg += w[j] * w[j]
				}
				loss += 0.5 * lambda * reg
			}
			return loss
		},
		Grad: func(grad, theta []float64) {
			w := theta[:nFeatures]
			b := 0.0
			if lr.fitIntercept {
				b = theta[nFeatures]
			}
			for j := range grad {
				grad[j] = 0
			}
			for i := 0; i < nSamples; i++ {
				z := b
				for j := 0; j < nFeatures; j++ {
					z += w[j] * xD.At(i, j)
				}
				diff := stableSigmoid(z) - yBinary[i]
				for j := 0; j < nFeatures; j++ {
					grad[j] += diff * xD.At(i, j)
				}
				if lr.fitIntercept {
					grad[nFeatures] += diff
				}
			}
			invN := 1.0 / float64(nSamples)
			for j := range grad {
				grad[j] *= invN
			}
			if lambda > 0 {
				for j := 0; j < nFeatures; j++ {
					grad[j] += lambda * w[j]
				}
			}
		},
	}

	settings := optimize.Settings{
		GradientThreshold: lr.tol,
		MajorIterations:   lr.maxIter,
	}
	result, err := optimize.Minimize(prob, make([]float64, dim), &settings, &optimize.LBFGS{})
	if err != nil {
		return adoptmlErrors.Wrap(err, "lbfgs optimization failed")
	}

	lr.coef = make([]float64, nFeatures)
	copy(lr.coef, result.X[:nFeatures])
	if lr.fitIntercept {
		lr.intercept = result.X[nFeatures]
	}
	lr.nIter = result.Stats.MajorIterations
	lr.nFeatures = nFeatures

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// Predict returns the 0/1 label per record at the 0.5 threshold.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
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

// PredictProba returns the positive-class probability per record.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}

	n, cols := X.Dims()
	if cols != lr.nFeatures {
		return nil, adoptmlErrors.NewDimensionError("linear.PredictProba", lr.nFeatures, cols, 1)
	}

	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		z := lr.intercept
		for j := 0; j < cols; j++ {
			z += lr.coef[j] * X.At(i, j)
		}
		out.SetVec(i, stableSigmoid(z))
	}
	return out, nil
}

// Coef returns a copy of the fitted coefficients.
func (lr *LogisticRegression) Coef() []float64 {
	out := make([]float64, len(lr.coef))
	copy(out, lr.coef)
	return out
}

// Intercept returns the fitted intercept.
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept
}

// Iterations returns the number of L-BFGS iterations the fit took.
func (lr *LogisticRegression) Iterations() int {
	return lr.nIter
}
