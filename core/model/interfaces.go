package model

import "gonum.org/v1/gonum/mat"

// Classifier is the capability contract every classification algorithm in
// this module satisfies. The evaluator and the hyperparameter search depend
// only on this interface: they never inspect an algorithm's internals, only
// its probability outputs.
//
// X is an n_samples x n_features matrix, y an n_samples column of 0/1 labels.
type Classifier interface {
	// Fit trains the model. Implementations validate dimensions and return
	// typed errors from pkg/errors on invalid input.
	Fit(X, y mat.Matrix) error

	// Predict returns the predicted 0/1 label per record as an n x 1 matrix,
	// using the fixed 0.5 probability threshold.
	Predict(X mat.Matrix) (mat.Matrix, error)

	// PredictProba returns the positive-class probability per record. Returns
	// a NotFittedError when called before Fit.
	PredictProba(X mat.Matrix) (*mat.VecDense, error)
}
