// Command adoptml runs the premium-adoption study end to end: load the
// listening-behavior dataset, split off a held-out test set, rebalance the
// training portion, rank features by information gain, compare five
// classifiers by ROC AUC, and grid-search the decision tree's pruning
// parameters.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/premlab/adoptml/bayes"
	"github.com/premlab/adoptml/core/model"
	"github.com/premlab/adoptml/dataset"
	"github.com/premlab/adoptml/feature"
	"github.com/premlab/adoptml/forest"
	"github.com/premlab/adoptml/linear"
	"github.com/premlab/adoptml/metrics"
	"github.com/premlab/adoptml/neighbors"
	"github.com/premlab/adoptml/pkg/log"
	"github.com/premlab/adoptml/preprocessing"
	"github.com/premlab/adoptml/report"
	"github.com/premlab/adoptml/resample"
	"github.com/premlab/adoptml/search"
	"github.com/premlab/adoptml/tree"
)

func main() {
	var (
		dataPath    = flag.String("data", "", "path to the dataset CSV (required)")
		seed        = flag.Uint64("seed", 42, "seed for splitting, balancing and tree randomness")
		trainFrac   = flag.Float64("train-fraction", 0.7, "fraction of records assigned to training")
		minority    = flag.Float64("minority-fraction", 1.0/3.0, "target minority share after oversampling (0 disables)")
		topK        = flag.Int("top-features", 0, "keep only the top-k features by information gain (0 keeps all)")
		knnK        = flag.Int("knn-k", 10, "number of neighbors for k-NN")
		gridWorkers = flag.Int("grid-workers", runtime.NumCPU(), "concurrent trainings during the grid search")
		rocPath     = flag.String("roc", "", "write a ROC curve PNG to this path")
		sweep       = flag.Bool("sweep", false, "report AUC for every top-k feature count")
		cvFolds     = flag.Int("cv", 0, "cross-validate the grid winner with this many folds (0 skips)")
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	provider := log.NewZerologProvider(log.ToLogLevel(*logLevel))
	logger := provider.GetLoggerWithName("adoptml")

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "usage: adoptml -data <csv> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(logger, config{
		dataPath:    *dataPath,
		seed:        *seed,
		trainFrac:   *trainFrac,
		minority:    *minority,
		topK:        *topK,
		knnK:        *knnK,
		gridWorkers: *gridWorkers,
		rocPath:     *rocPath,
		sweep:       *sweep,
		cvFolds:     *cvFolds,
	}); err != nil {
		logger.Error("run failed", log.ErrorKey, err)
		os.Exit(1)
	}
}

type config struct {
	dataPath    string
	seed        uint64
	trainFrac   float64
	minority    float64
	topK        int
	knnK        int
	gridWorkers int
	rocPath     string
	sweep       bool
	cvFolds     int
}

func run(logger log.Logger, cfg config) error {
	ds, err := dataset.Load(cfg.dataPath, dataset.DefaultSchema())
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		log.SamplesKey, ds.NumRecords(),
		log.FeaturesKey, ds.NumFeatures(),
		log.PositiveFractionKey, ds.PositiveFraction(),
	)

	train, test, err := resample.StratifiedSplit(ds, cfg.trainFrac, cfg.seed)
	if err != nil {
		return err
	}
	logger.Info("stratified split",
		"train_records", train.NumRecords(),
		"test_records", test.NumRecords(),
		log.SeedKey, cfg.seed,
	)

	if cfg.minority > 0 {
		train, err = resample.Oversample(train, cfg.minority, cfg.seed)
		if err != nil {
			return err
		}
		logger.Info("training set rebalanced",
			"train_records", train.NumRecords(),
			log.PositiveFractionKey, train.PositiveFraction(),
		)
	}

	ranking, err := feature.Rank(train)
	if err != nil {
		return err
	}
	fmt.Println(report.FeatureRanking(ranking))

	if cfg.sweep {
		points, err := search.FeatureSweep(train, test, ranking, 0, func() model.Classifier {
			return tree.New(tree.WithSeed(cfg.seed))
		})
		if err != nil {
			return err
		}
		fmt.Println(report.SweepTable(points))
	}

	if cfg.topK > 0 {
		keep := feature.TopFeatures(ranking, cfg.topK)
		if train, err = train.Select(keep); err != nil {
			return err
		}
		if test, err = test.Select(keep); err != nil {
			return err
		}
		logger.Info("feature subset selected", log.FeaturesKey, len(keep))
	}

	results, err := compareClassifiers(logger, train, test, cfg)
	if err != nil {
		return err
	}
	for _, name := range []string{"decision tree", "naive bayes", "k-nn", "random forest", "logistic regression"} {
		fmt.Println(report.Summary(name, results[name]))
	}
	fmt.Println(report.Leaderboard(results))

	gridResult, err := gridSearch(logger, train, test, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("grid winner: minsplit=%d maxdepth=%d AUC=%.4f\n\n",
		gridResult.Best.MinSplit, gridResult.Best.MaxDepth, gridResult.Best.AUC)

	best := tree.New(
		tree.WithMinSplit(gridResult.Best.MinSplit),
		tree.WithMaxDepth(gridResult.Best.MaxDepth),
		tree.WithSeed(cfg.seed),
	)
	if err := best.Fit(train.X, train.Y); err != nil {
		return err
	}
	fmt.Println(best.Render(train.FeatureNames))

	if cfg.cvFolds > 0 {
		cv, err := search.CrossValidateAUC(ds, search.CVConfig{
			K:                      cfg.cvFolds,
			Seed:                   cfg.seed,
			TargetMinorityFraction: cfg.minority,
			TopFeatures:            cfg.topK,
		}, func() model.Classifier {
			return tree.New(
				tree.WithMinSplit(gridResult.Best.MinSplit),
				tree.WithMaxDepth(gridResult.Best.MaxDepth),
				tree.WithSeed(cfg.seed),
			)
		})
		if err != nil {
			return err
		}
		fmt.Printf("cross-validated AUC over %d folds: %.4f ± %.4f\n",
			len(cv.FoldAUCs), cv.Mean, cv.Std)
	}

	if cfg.rocPath != "" {
		if err := report.SaveROCPlot(results, cfg.rocPath); err != nil {
			return err
		}
		logger.Info("roc plot written", "path", cfg.rocPath)
	}
	return nil
}

// compareClassifiers trains the five study classifiers on the training set
// and evaluates each on the held-out test set. Distance- and gradient-based
// models see standardized features; the tree family sees raw values.
func compareClassifiers(logger log.Logger, train, test *dataset.Dataset, cfg config) (map[string]*metrics.Result, error) {
	scaledTrain, scaledTest, err := standardize(train, test)
	if err != nil {
		return nil, err
	}

	runs := []struct {
		name        string
		clf         model.Classifier
		train, test *dataset.Dataset
	}{
		{"decision tree", tree.New(tree.WithSeed(cfg.seed)), train, test},
		{"naive bayes", bayes.NewGaussianNB(), train, test},
		{"k-nn", neighbors.New(cfg.knnK), scaledTrain, scaledTest},
		{"random forest", forest.New(forest.WithSeed(cfg.seed)), train, test},
		{"logistic regression", linear.New(), scaledTrain, scaledTest},
	}

	results := make(map[string]*metrics.Result, len(runs))
	for _, r := range runs {
		if err := r.clf.Fit(r.train.X, r.train.Y); err != nil {
			return nil, err
		}
		result, err := metrics.Evaluate(r.clf, r.test)
		if err != nil {
			return nil, err
		}
		results[r.name] = result
		logger.Info("classifier evaluated",
			log.ModelNameKey, r.name,
			log.AUCKey, result.AUC,
		)
	}
	return results, nil
}

func standardize(train, test *dataset.Dataset) (*dataset.Dataset, *dataset.Dataset, error) {
	scaler := preprocessing.NewStandardScalerDefault()
	trainX, err := scaler.FitTransform(train.X)
	if err != nil {
		return nil, nil, err
	}
	testX, err := scaler.Transform(test.X)
	if err != nil {
		return nil, nil, err
	}
	scaledTrain := &dataset.Dataset{X: trainX, Y: train.Y, FeatureNames: train.FeatureNames, Nominal: train.Nominal}
	scaledTest := &dataset.Dataset{X: testX, Y: test.Y, FeatureNames: test.FeatureNames, Nominal: test.Nominal}
	return scaledTrain, scaledTest, nil
}

func gridSearch(logger log.Logger, train, test *dataset.Dataset, cfg config) (*search.GridResult, error) {
	searcher := search.NewSearcher(
		search.WithWorkers(cfg.gridWorkers),
		search.WithLogger(logger),
	)
	return searcher.Run(train, test, func(minSplit, maxDepth int) model.Classifier {
		return tree.New(
			tree.WithMinSplit(minSplit),
			tree.WithMaxDepth(maxDepth),
			tree.WithSeed(cfg.seed),
		)
	})
}
