package log

// Standard attribute keys for pipeline logging. Keys follow a hierarchical
// naming convention ("model.name", "data.samples") so records can be filtered
// by category in log analysis.
const (
	// ModelNameKey identifies the classifier type, e.g. "DecisionTree".
	ModelNameKey = "model.name"

	// OperationKey names the operation being performed: "fit", "predict_proba",
	// "evaluate", "grid_search", "oversample", "split".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// SamplesKey is the number of records (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns being processed.
	FeaturesKey = "data.features"

	// PositiveFractionKey is the share of positive-label records in a set.
	PositiveFractionKey = "data.positive_fraction"

	// SeedKey is the random seed driving a seeded operation.
	SeedKey = "ml.seed"

	// AUCKey carries an AUC metric value.
	AUCKey = "metric.auc"

	// DurationMsKey is the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ErrorKey is the standard key for attached errors.
	ErrorKey = "error"

	// StacktraceKey carries a formatted stack trace extracted from an error.
	StacktraceKey = "stacktrace"
)
