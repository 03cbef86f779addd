// Package metrics computes classification quality measures: the ROC curve
// and its area, and the fixed-threshold confusion-matrix statistics. The
// positive class is label 1 throughout.
package metrics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// ROCPoint is one point on the ROC curve: false-positive rate against
// true-positive rate at some decision threshold.
type ROCPoint struct {
	FPR float64
	TPR float64
}

// ROCCurve computes the ROC curve for binary labels and positive-class
// scores, sweeping the decision threshold over the observed scores. The
// returned points run from (0,0) to (1,1) in FPR order.
//
// A label vector containing a single class makes the curve (and AUC)
// undefined and returns an EvaluationError rather than a degenerate value.
func ROCCurve(yTrue, scores *mat.VecDense) ([]ROCPoint, error) {
	if yTrue == nil || scores == nil {
		return nil, adoptmlErrors.NewValueError("ROCCurve", "input vectors cannot be nil")
	}

	n := yTrue.Len()
	if n == 0 {
		return nil, adoptmlErrors.NewValueError("ROCCurve", "input vectors cannot be empty")
	}
	if n != scores.Len() {
		return nil, adoptmlErrors.NewDimensionError("ROCCurve", n, scores.Len(), 0)
	}

	totalPos, totalNeg := 0.0, 0.0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			totalPos++
		case 0:
			totalNeg++
		default:
			return nil, adoptmlErrors.NewValidationError("y_true",
				fmt.Sprintf("must contain only binary values (0 or 1), found %f at index %d", yTrue.AtVec(i), i),
				yTrue.AtVec(i))
		}
	}
	if totalPos == 0 || totalNeg == 0 {
		return nil, adoptmlErrors.NewEvaluationError("roc",
			"test set contains a single class, curve is undefined")
	}

	type pair struct {
		score float64
		label float64
	}
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = pair{score: scores.AtVec(i), label: yTrue.AtVec(i)}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})

	points := []ROCPoint{{FPR: 0, TPR: 0}}

	tp, fp := 0.0, 0.0
	prevScore := pairs[0].score + 1
	for _, p := range pairs {
		if p.score != prevScore {
			points = append(points, ROCPoint{FPR: fp / totalNeg, TPR: tp / totalPos})
			prevScore = p.score
		}
		if p.label == 1 {
			tp++
		} else {
			fp++
		}
	}

	points = append(points, ROCPoint{FPR: 1, TPR: 1})
	return points, nil
}

// AUC computes the area under the ROC curve by the trapezoid rule: the
// probability that a randomly chosen positive record scores higher than a
// randomly chosen negative one. Threshold-independent by construction.
//
// A single-class label vector is an EvaluationError.
func AUC(yTrue, scores *mat.VecDense) (float64, error) {
	points, err := ROCCurve(yTrue, scores)
	if err != nil {
		return 0, err
	}

	auc := 0.0
	for i := 1; i < len(points); i++ {
		width := points[i].FPR - points[i-1].FPR
		height := (points[i].TPR + points[i-1].TPR) / 2
		auc += width * height
	}
	return auc, nil
}

// ConfusionMatrix counts outcomes at a fixed decision threshold, with
// label 1 as the positive class.
type ConfusionMatrix struct {
	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
}

// NewConfusionMatrix thresholds the scores at threshold and tallies
// outcomes against the true labels.
func NewConfusionMatrix(yTrue, scores *mat.VecDense, threshold float64) (ConfusionMatrix, error) {
	var cm ConfusionMatrix
	if yTrue == nil || scores == nil {
		return cm, adoptmlErrors.NewValueError("ConfusionMatrix", "input vectors cannot be nil")
	}
	n := yTrue.Len()
	if n == 0 {
		return cm, adoptmlErrors.NewValueError("ConfusionMatrix", "input vectors cannot be empty")
	}
	if n != scores.Len() {
		return cm, adoptmlErrors.NewDimensionError("ConfusionMatrix", n, scores.Len(), 0)
	}

	for i := 0; i < n; i++ {
		predicted := scores.AtVec(i) > threshold
		actual := yTrue.AtVec(i) == 1
		switch {
		case predicted && actual:
			cm.TruePositives++
		case predicted && !actual:
			cm.FalsePositives++
		case !predicted && actual:
			cm.FalseNegatives++
		default:
			cm.TrueNegatives++
		}
	}
	return cm, nil
}

// Precision returns TP / (TP + FP), or 0 when nothing was predicted
// positive.
func (cm ConfusionMatrix) Precision() float64 {
	denom := cm.TruePositives + cm.FalsePositives
	if denom == 0 {
		return 0
	}
	return float64(cm.TruePositives) / float64(denom)
}

// Recall returns TP / (TP + FN), or 0 when there are no positives.
func (cm ConfusionMatrix) Recall() float64 {
	denom := cm.TruePositives + cm.FalseNegatives
	if denom == 0 {
		return 0
	}
	return float64(cm.TruePositives) / float64(denom)
}

// F1 returns the harmonic mean of precision and recall, or 0 when both are
// zero.
func (cm ConfusionMatrix) F1() float64 {
	p, r := cm.Precision(), cm.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Accuracy returns the share of correct predictions.
func (cm ConfusionMatrix) Accuracy() float64 {
	total := cm.TruePositives + cm.FalsePositives + cm.TrueNegatives + cm.FalseNegatives
	if total == 0 {
		return 0
	}
	return float64(cm.TruePositives+cm.TrueNegatives) / float64(total)
}

// String renders the matrix in a compact two-row layout.
func (cm ConfusionMatrix) String() string {
	return fmt.Sprintf("TP=%d FP=%d FN=%d TN=%d",
		cm.TruePositives, cm.FalsePositives, cm.FalseNegatives, cm.TrueNegatives)
}
