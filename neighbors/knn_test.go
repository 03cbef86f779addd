package neighbors_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/neighbors"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

func clusters() (*mat.Dense, *mat.VecDense) {
	data := []float64{
		0.0, 0.0,
		0.1, 0.2,
		0.2, 0.1,
		-0.1, 0.1,
		5.0, 5.0,
		5.1, 4.9,
		4.9, 5.2,
		5.2, 5.1,
	}
	x := mat.NewDense(8, 2, data)
	y := mat.NewVecDense(8, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return x, y
}

func TestClassifier_NeighborVoting(t *testing.T) {
	X, y := clusters()

	clf := neighbors.New(3)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	queries := mat.NewDense(2, 2, []float64{
		0.05, 0.05,
		5.05, 5.05,
	})
	proba, err := clf.PredictProba(queries)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	if proba.AtVec(0) != 0 {
		t.Errorf("query in negative cluster: expected 0, got %g", proba.AtVec(0))
	}
	if proba.AtVec(1) != 1 {
		t.Errorf("query in positive cluster: expected 1, got %g", proba.AtVec(1))
	}
}

func TestClassifier_FractionalProbability(t *testing.T) {
	// One positive sits among the negatives: with k=4 the probability at
	// the cluster center is a strict fraction.
	x := mat.NewDense(4, 1, []float64{0.0, 0.1, 0.2, 0.3})
	y := mat.NewVecDense(4, []float64{0, 0, 0, 1})

	clf := neighbors.New(4)
	if err := clf.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	proba, err := clf.PredictProba(mat.NewDense(1, 1, []float64{0.15}))
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	if proba.AtVec(0) != 0.25 {
		t.Errorf("expected 1/4, got %g", proba.AtVec(0))
	}
}

func TestClassifier_KLargerThanTrainingSet(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{0, 1})
	y := mat.NewVecDense(2, []float64{0, 1})

	clf := neighbors.New(5)
	if err := clf.Fit(x, y); err == nil {
		t.Fatal("expected error when k exceeds the training size")
	}
}

func TestClassifier_PredictBeforeFit(t *testing.T) {
	clf := neighbors.New(3)
	_, err := clf.PredictProba(mat.NewDense(1, 2, nil))
	var nf *adoptmlErrors.NotFittedError
	if !adoptmlErrors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestClassifier_DimensionMismatch(t *testing.T) {
	X, y := clusters()
	clf := neighbors.New(3)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := clf.PredictProba(mat.NewDense(1, 5, nil))
	var dim *adoptmlErrors.DimensionError
	if !adoptmlErrors.As(err, &dim) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}
