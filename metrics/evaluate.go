package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/core/model"
	"github.com/premlab/adoptml/dataset"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// threshold is the fixed decision threshold for the confusion-matrix
// statistics. AUC is threshold-independent; precision, recall and F1 are
// reported at this single point, with no threshold tuning.
const threshold = 0.5

// Result is the evaluation of one (model, test set) pair.
type Result struct {
	AUC       float64
	Precision float64
	Recall    float64
	F1        float64
	Confusion ConfusionMatrix
	ROC       []ROCPoint
}

// Evaluate scores clf on the test set and computes the full evaluation
// result. The evaluator is algorithm-agnostic: it only consumes the
// classifier's probability outputs.
//
// A test set with a single class makes AUC undefined and returns an
// EvaluationError; callers in a cross-validation loop must abort that fold's
// contribution rather than silently skip it.
func Evaluate(clf model.Classifier, test *dataset.Dataset) (*Result, error) {
	if test.NumRecords() == 0 {
		return nil, adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "metrics.Evaluate")
	}

	scores, err := clf.PredictProba(test.X)
	if err != nil {
		return nil, adoptmlErrors.Wrap(err, "score probabilities")
	}
	return EvaluateScores(test.Y, scores)
}

// EvaluateScores computes the evaluation result directly from labels and
// positive-class scores.
func EvaluateScores(yTrue, scores *mat.VecDense) (*Result, error) {
	roc, err := ROCCurve(yTrue, scores)
	if err != nil {
		return nil, err
	}

	auc := 0.0
	for i := 1; i < len(roc); i++ {
		width := roc[i].FPR - roc[i-1].FPR
		height := (roc[i].TPR + roc[i-1].TPR) / 2
		auc += width * height
	}

	cm, err := NewConfusionMatrix(yTrue, scores, threshold)
	if err != nil {
		return nil, err
	}

	return &Result{
		AUC:       auc,
		Precision: cm.Precision(),
		Recall:    cm.Recall(),
		F1:        cm.F1(),
		Confusion: cm,
		ROC:       roc,
	}, nil
}
