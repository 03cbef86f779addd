package log_test

import (
	"encoding/json"
	"strings"
	"testing"

	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
	"github.com/premlab/adoptml/pkg/log"
)

func lastRecord(t *testing.T, buf *log.TestBuffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &record); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	return record
}

func TestLogger_StructuredFields(t *testing.T) {
	provider, buf := log.NewTestLoggerProvider(log.LevelInfo)
	logger := provider.GetLoggerWithName("DecisionTree")

	logger.Info("training finished",
		log.OperationKey, "fit",
		log.SamplesKey, 1485,
		log.AUCKey, 0.743,
	)

	record := lastRecord(t, buf)
	if record["message"] != "training finished" {
		t.Errorf("unexpected message: %v", record["message"])
	}
	if record["ml.operation"] != "fit" {
		t.Errorf("unexpected operation: %v", record["ml.operation"])
	}
	if record["data.samples"] != float64(1485) {
		t.Errorf("unexpected sample count: %v", record["data.samples"])
	}
	if record["metric.auc"] != 0.743 {
		t.Errorf("unexpected auc: %v", record["metric.auc"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	provider, buf := log.NewTestLoggerProvider(log.LevelWarn)
	logger := provider.GetLogger()

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("records below the level must be dropped:\n%s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn record missing:\n%s", out)
	}
}

func TestLogger_WithBindsFields(t *testing.T) {
	provider, buf := log.NewTestLoggerProvider(log.LevelInfo)
	logger := provider.GetLogger().With(log.ModelNameKey, "RandomForest")

	logger.Info("first")
	record := lastRecord(t, buf)
	if record["model.name"] != "RandomForest" {
		t.Errorf("bound field missing: %v", record)
	}
}

func TestLogger_ErrorFieldCarriesDetails(t *testing.T) {
	provider, buf := log.NewTestLoggerProvider(log.LevelError)
	logger := provider.GetLogger()

	err := adoptmlErrors.NewEvaluationError("auc", "test set contains a single class")
	logger.Error("evaluation failed", log.ErrorKey, err)

	out := buf.String()
	if !strings.Contains(out, "single class") {
		t.Errorf("error reason missing from record:\n%s", out)
	}
}

func TestToLogLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":   log.LevelDebug,
		"info":    log.LevelInfo,
		"warn":    log.LevelWarn,
		"error":   log.LevelError,
		"unknown": log.LevelInfo,
	}
	for name, want := range cases {
		if got := log.ToLogLevel(name); got != want {
			t.Errorf("ToLogLevel(%q): expected %v, got %v", name, want, got)
		}
	}
}
