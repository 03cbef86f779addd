package tree_test

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
	"github.com/premlab/adoptml/tree"
)

// separable returns 20 records split cleanly at feature value 5.
func separable() (*mat.Dense, *mat.VecDense) {
	x := mat.NewDense(20, 1, nil)
	y := mat.NewVecDense(20, nil)
	for i := 0; i < 20; i++ {
		x.Set(i, 0, float64(i))
		if i >= 10 {
			y.SetVec(i, 1)
		}
	}
	return x, y
}

func TestClassifier_SeparableData(t *testing.T) {
	X, y := separable()

	clf := tree.New()
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// One split suffices: threshold lies between 9 and 10.
	if clf.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", clf.Depth())
	}
	if clf.Leaves() != 2 {
		t.Errorf("expected 2 leaves, got %d", clf.Leaves())
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		want := 0.0
		if i >= 10 {
			want = 1.0
		}
		if proba.AtVec(i) != want {
			t.Errorf("record %d: expected probability %g, got %g", i, want, proba.AtVec(i))
		}
	}

	pred, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		if pred.At(i, 0) != y.AtVec(i) {
			t.Errorf("record %d: expected label %g, got %g", i, y.AtVec(i), pred.At(i, 0))
		}
	}
}

func TestClassifier_MaxDepthBoundsTree(t *testing.T) {
	// Alternating labels force the unrestricted tree deep; a depth cap must
	// hold regardless.
	x := mat.NewDense(32, 1, nil)
	y := mat.NewVecDense(32, nil)
	for i := 0; i < 32; i++ {
		x.Set(i, 0, float64(i))
		if i%2 == 1 {
			y.SetVec(i, 1)
		}
	}

	clf := tree.New(tree.WithMaxDepth(3))
	if err := clf.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if clf.Depth() > 3 {
		t.Errorf("depth cap violated: got %d", clf.Depth())
	}
}

func TestClassifier_MinSplitMakesLeaf(t *testing.T) {
	X, y := separable()

	// 20 records but 30 required to split: the root stays a leaf and
	// predicts the base rate.
	clf := tree.New(tree.WithMinSplit(30))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if clf.Leaves() != 1 {
		t.Fatalf("expected a single leaf, got %d", clf.Leaves())
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	if proba.AtVec(0) != 0.5 {
		t.Errorf("stump probability: expected base rate 0.5, got %g", proba.AtVec(0))
	}
}

func TestClassifier_PredictBeforeFit(t *testing.T) {
	clf := tree.New()
	_, err := clf.PredictProba(mat.NewDense(1, 1, []float64{0}))
	if err == nil {
		t.Fatal("expected error before fit")
	}
	var nf *adoptmlErrors.NotFittedError
	if !adoptmlErrors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %T", err)
	}
}

func TestClassifier_FeatureCountMismatch(t *testing.T) {
	X, y := separable()
	clf := tree.New()
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := clf.PredictProba(mat.NewDense(1, 3, nil))
	var dim *adoptmlErrors.DimensionError
	if !adoptmlErrors.As(err, &dim) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}

func TestClassifier_NonBinaryLabels(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{0, 1})
	y := mat.NewVecDense(2, []float64{0, 2})

	clf := tree.New()
	if err := clf.Fit(x, y); err == nil {
		t.Fatal("expected error for non-binary labels")
	}
}

func TestClassifier_ClassWeightsShiftProbability(t *testing.T) {
	// A forced leaf with 3 negatives and 1 positive: unit weights give 0.25,
	// upweighting positives by 3 gives 0.5.
	x := mat.NewDense(4, 1, []float64{1, 1, 1, 1})
	y := mat.NewVecDense(4, []float64{0, 0, 0, 1})

	plain := tree.New()
	if err := plain.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	proba, err := plain.PredictProba(x)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	if proba.AtVec(0) != 0.25 {
		t.Errorf("unit weights: expected 0.25, got %g", proba.AtVec(0))
	}

	weighted := tree.New(tree.WithClassWeights(1, 3))
	if err := weighted.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	proba, err = weighted.PredictProba(x)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	if proba.AtVec(0) != 0.5 {
		t.Errorf("weighted: expected 0.5, got %g", proba.AtVec(0))
	}
}

func TestClassifier_GiniCriterion(t *testing.T) {
	X, y := separable()

	clf := tree.New(tree.WithCriterion("gini"))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	pred, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		if pred.At(i, 0) != y.AtVec(i) {
			t.Errorf("record %d misclassified under gini", i)
		}
	}
}

func TestClassifier_Render(t *testing.T) {
	X, y := separable()

	clf := tree.New()
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	out := clf.Render([]string{"friend_cnt"})
	if !strings.Contains(out, "friend_cnt <=") {
		t.Errorf("rendering should name the split feature:\n%s", out)
	}
	if !strings.Contains(out, "leaf: p(adopter)=") {
		t.Errorf("rendering should show leaf probabilities:\n%s", out)
	}
}
