package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/core/model"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// StandardScaler standardizes features by removing the mean and scaling to
// unit variance. Distance- and gradient-based classifiers (k-NN, logistic
// regression) are fitted on standardized features; tree-based ones consume
// raw values.
type StandardScaler struct {
	state *model.StateManager

	// Mean holds the per-feature mean computed during Fit.
	Mean []float64

	// Scale holds the per-feature standard deviation computed during Fit.
	// Constant features get scale 1 so transforming them is a no-op.
	Scale []float64

	// WithMean controls whether the mean is subtracted.
	WithMean bool

	// WithStd controls whether values are divided by the standard deviation.
	WithStd bool
}

// NewStandardScaler creates a StandardScaler with the given centering and
// scaling behavior.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a StandardScaler that both centers and
// scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes the per-feature mean and standard deviation from X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "StandardScaler.Fit")
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		mean := sum / float64(r)
		s.Mean[j] = mean

		variance := 0.0
		for i := 0; i < r; i++ {
			d := X.At(i, j) - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(r))
		if std == 0 {
			std = 1
		}
		s.Scale[j] = std
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform standardizes X using the statistics computed during Fit.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, adoptmlErrors.NewDimensionError("StandardScaler.Transform", len(s.Mean), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if s.WithMean {
				v -= s.Mean[j]
			}
			if s.WithStd {
				v /= s.Scale[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// FitTransform fits the scaler on X and returns the standardized X.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// IsFitted returns whether the scaler has been fitted.
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}
