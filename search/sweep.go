package search

import (
	"github.com/premlab/adoptml/core/model"
	"github.com/premlab/adoptml/dataset"
	"github.com/premlab/adoptml/feature"
	"github.com/premlab/adoptml/metrics"
)

// SweepPoint is one feature-count setting and the validation AUC it reached.
type SweepPoint struct {
	K        int
	Features []string
	AUC      float64
}

// FeatureSweep trains one classifier per feature-count k, keeping the top-k
// features of the supplied ranking, and reports the validation AUC of each.
// The ranking must come from the training set.
//
// The sweep reports, it does not choose: how many features to keep is an
// analyst's call, made with the resulting curve in hand.
func FeatureSweep(train, validation *dataset.Dataset, ranking []feature.Score, maxK int, factory func() model.Classifier) ([]SweepPoint, error) {
	if maxK <= 0 || maxK > len(ranking) {
		maxK = len(ranking)
	}

	points := make([]SweepPoint, 0, maxK)
	for k := 1; k <= maxK; k++ {
		keep := feature.TopFeatures(ranking, k)
		trainK, err := train.Select(keep)
		if err != nil {
			return nil, err
		}
		valK, err := validation.Select(keep)
		if err != nil {
			return nil, err
		}

		clf := factory()
		if err := clf.Fit(trainK.X, trainK.Y); err != nil {
			return nil, err
		}
		result, err := metrics.Evaluate(clf, valK)
		if err != nil {
			return nil, err
		}
		points = append(points, SweepPoint{K: k, Features: keep, AUC: result.AUC})
	}
	return points, nil
}
