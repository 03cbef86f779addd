package metrics_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/metrics"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

const epsilon = 1e-10

func TestAUC_PerfectRanking(t *testing.T) {
	y := mat.NewVecDense(4, []float64{0, 0, 1, 1})
	scores := mat.NewVecDense(4, []float64{0.1, 0.2, 0.8, 0.9})

	auc, err := metrics.AUC(y, scores)
	if err != nil {
		t.Fatalf("AUC failed: %v", err)
	}
	if math.Abs(auc-1.0) > epsilon {
		t.Errorf("perfect ranking: expected AUC 1, got %f", auc)
	}
}

func TestAUC_InvertedRanking(t *testing.T) {
	y := mat.NewVecDense(4, []float64{1, 1, 0, 0})
	scores := mat.NewVecDense(4, []float64{0.1, 0.2, 0.8, 0.9})

	auc, err := metrics.AUC(y, scores)
	if err != nil {
		t.Fatalf("AUC failed: %v", err)
	}
	if math.Abs(auc) > epsilon {
		t.Errorf("inverted ranking: expected AUC 0, got %f", auc)
	}
}

func TestAUC_PartialRanking(t *testing.T) {
	// Positive scores {0.3, 0.8} against negative scores {0.4, 0.2}: three
	// of four pairs ordered correctly.
	y := mat.NewVecDense(4, []float64{0, 1, 0, 1})
	scores := mat.NewVecDense(4, []float64{0.4, 0.3, 0.2, 0.8})

	auc, err := metrics.AUC(y, scores)
	if err != nil {
		t.Fatalf("AUC failed: %v", err)
	}
	if math.Abs(auc-0.75) > epsilon {
		t.Errorf("expected AUC 0.75, got %f", auc)
	}
}

func TestAUC_ConstantScores(t *testing.T) {
	// Uninformative scores are chance-level by the trapezoid rule.
	y := mat.NewVecDense(4, []float64{0, 1, 0, 1})
	scores := mat.NewVecDense(4, []float64{0.5, 0.5, 0.5, 0.5})

	auc, err := metrics.AUC(y, scores)
	if err != nil {
		t.Fatalf("AUC failed: %v", err)
	}
	if math.Abs(auc-0.5) > epsilon {
		t.Errorf("constant scores: expected AUC 0.5, got %f", auc)
	}
}

func TestAUC_SingleClassIsError(t *testing.T) {
	y := mat.NewVecDense(3, []float64{1, 1, 1})
	scores := mat.NewVecDense(3, []float64{0.2, 0.5, 0.9})

	_, err := metrics.AUC(y, scores)
	if err == nil {
		t.Fatal("expected error for single-class labels")
	}
	var evalErr *adoptmlErrors.EvaluationError
	if !adoptmlErrors.As(err, &evalErr) {
		t.Errorf("expected EvaluationError, got %T", err)
	}
}

func TestAUC_LengthMismatch(t *testing.T) {
	y := mat.NewVecDense(3, []float64{0, 1, 0})
	scores := mat.NewVecDense(2, []float64{0.2, 0.5})

	if _, err := metrics.AUC(y, scores); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestROCCurve_Shape(t *testing.T) {
	y := mat.NewVecDense(6, []float64{0, 1, 0, 1, 0, 1})
	scores := mat.NewVecDense(6, []float64{0.1, 0.9, 0.4, 0.6, 0.7, 0.3})

	curve, err := metrics.ROCCurve(y, scores)
	if err != nil {
		t.Fatalf("ROCCurve failed: %v", err)
	}

	first, last := curve[0], curve[len(curve)-1]
	if first.FPR != 0 || first.TPR != 0 {
		t.Errorf("curve must start at (0,0), got (%g,%g)", first.FPR, first.TPR)
	}
	if last.FPR != 1 || last.TPR != 1 {
		t.Errorf("curve must end at (1,1), got (%g,%g)", last.FPR, last.TPR)
	}

	for i := 1; i < len(curve); i++ {
		if curve[i].FPR < curve[i-1].FPR || curve[i].TPR < curve[i-1].TPR {
			t.Errorf("curve must be monotone, broke at point %d", i)
		}
	}
}

func TestNewConfusionMatrix(t *testing.T) {
	y := mat.NewVecDense(6, []float64{1, 1, 0, 0, 1, 0})
	scores := mat.NewVecDense(6, []float64{0.9, 0.3, 0.8, 0.2, 0.7, 0.4})

	cm, err := metrics.NewConfusionMatrix(y, scores, 0.5)
	if err != nil {
		t.Fatalf("NewConfusionMatrix failed: %v", err)
	}

	if cm.TruePositives != 2 || cm.FalseNegatives != 1 || cm.FalsePositives != 1 || cm.TrueNegatives != 2 {
		t.Errorf("expected TP=2 FN=1 FP=1 TN=2, got %s", cm.String())
	}

	if math.Abs(cm.Precision()-2.0/3.0) > epsilon {
		t.Errorf("precision: expected 2/3, got %f", cm.Precision())
	}
	if math.Abs(cm.Recall()-2.0/3.0) > epsilon {
		t.Errorf("recall: expected 2/3, got %f", cm.Recall())
	}
	if math.Abs(cm.F1()-2.0/3.0) > epsilon {
		t.Errorf("f1: expected 2/3, got %f", cm.F1())
	}
	if math.Abs(cm.Accuracy()-4.0/6.0) > epsilon {
		t.Errorf("accuracy: expected 2/3, got %f", cm.Accuracy())
	}
}

func TestConfusionMatrix_ThresholdIsExclusive(t *testing.T) {
	// A score exactly at the threshold predicts negative.
	y := mat.NewVecDense(2, []float64{1, 0})
	scores := mat.NewVecDense(2, []float64{0.5, 0.51})

	cm, err := metrics.NewConfusionMatrix(y, scores, 0.5)
	if err != nil {
		t.Fatalf("NewConfusionMatrix failed: %v", err)
	}
	if cm.FalseNegatives != 1 {
		t.Errorf("score equal to threshold must be negative: FN=%d", cm.FalseNegatives)
	}
	if cm.FalsePositives != 1 {
		t.Errorf("score above threshold must be positive: FP=%d", cm.FalsePositives)
	}
}

func TestConfusionMatrix_DegenerateRates(t *testing.T) {
	// No predicted positives: precision is defined as 0, not NaN.
	y := mat.NewVecDense(2, []float64{1, 0})
	scores := mat.NewVecDense(2, []float64{0.1, 0.2})

	cm, err := metrics.NewConfusionMatrix(y, scores, 0.5)
	if err != nil {
		t.Fatalf("NewConfusionMatrix failed: %v", err)
	}
	if cm.Precision() != 0 || cm.Recall() != 0 || cm.F1() != 0 {
		t.Errorf("degenerate rates must be 0: precision=%g recall=%g f1=%g",
			cm.Precision(), cm.Recall(), cm.F1())
	}
}
