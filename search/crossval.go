package search

import (
	"math"

	"github.com/premlab/adoptml/core/model"
	"github.com/premlab/adoptml/dataset"
	"github.com/premlab/adoptml/feature"
	"github.com/premlab/adoptml/metrics"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
	"github.com/premlab/adoptml/resample"
)

// CVConfig controls the per-fold pipeline of CrossValidateAUC.
type CVConfig struct {
	// K is the number of stratified folds. Values below 2 fall back to
	// the resample package's default of 5.
	K int
	// Seed drives the fold assignment and the per-fold oversampling.
	Seed uint64
	// TargetMinorityFraction, when positive, oversamples the minority
	// class of each fold's training portion to this fraction before
	// training. Zero skips balancing. The test portion is never touched.
	TargetMinorityFraction float64
	// TopFeatures, when positive, reranks features on each fold's
	// (balanced) training portion by information gain and keeps only the
	// top k. Zero keeps every feature.
	TopFeatures int
}

// CVResult summarizes a cross-validated AUC estimate.
type CVResult struct {
	FoldAUCs []float64
	Mean     float64
	Std      float64
}

// CrossValidateAUC estimates a classifier's AUC by stratified k-fold cross
// validation, repeating the full preparation pipeline inside every fold:
// balancing and feature ranking are recomputed on the fold's training
// portion alone, so no information leaks from the held-out records.
//
// A failing fold, including an EvaluationError from a degenerate test
// portion, aborts the whole run: a partial mean over surviving folds would
// silently bias the estimate.
func CrossValidateAUC(ds *dataset.Dataset, cfg CVConfig, factory func() model.Classifier) (*CVResult, error) {
	kf := resample.NewKFold(cfg.K, cfg.Seed)
	folds, err := kf.Split(ds)
	if err != nil {
		return nil, err
	}

	aucs := make([]float64, 0, len(folds))
	for i, fold := range folds {
		auc, err := evaluateFold(ds, fold, cfg, factory)
		if err != nil {
			return nil, adoptmlErrors.Wrapf(err, "fold %d of %d", i+1, len(folds))
		}
		aucs = append(aucs, auc)
	}

	mean := 0.0
	for _, a := range aucs {
		mean += a
	}
	mean /= float64(len(aucs))
	variance := 0.0
	for _, a := range aucs {
		variance += (a - mean) * (a - mean)
	}
	variance /= float64(len(aucs))

	return &CVResult{FoldAUCs: aucs, Mean: mean, Std: math.Sqrt(variance)}, nil
}

func evaluateFold(ds *dataset.Dataset, fold resample.Fold, cfg CVConfig, factory func() model.Classifier) (float64, error) {
	train := ds.Subset(fold.TrainIndices)
	test := ds.Subset(fold.TestIndices)

	var err error
	if cfg.TargetMinorityFraction > 0 {
		train, err = resample.Oversample(train, cfg.TargetMinorityFraction, cfg.Seed)
		if err != nil {
			return 0, err
		}
	}

	if cfg.TopFeatures > 0 {
		scores, err := feature.Rank(train)
		if err != nil {
			return 0, err
		}
		keep := feature.TopFeatures(scores, cfg.TopFeatures)
		if train, err = train.Select(keep); err != nil {
			return 0, err
		}
		if test, err = test.Select(keep); err != nil {
			return 0, err
		}
	}

	clf := factory()
	if err := clf.Fit(train.X, train.Y); err != nil {
		return 0, err
	}
	result, err := metrics.Evaluate(clf, test)
	if err != nil {
		return 0, err
	}
	return result.AUC, nil
}
