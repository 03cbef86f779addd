package model_test

import (
	"sync"
	"testing"

	"github.com/premlab/adoptml/core/model"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

func TestStateManager_Lifecycle(t *testing.T) {
	sm := model.NewStateManager()

	if sm.IsFitted() {
		t.Error("new state manager must start unfitted")
	}
	if err := sm.RequireFitted("DecisionTree", "PredictProba"); err == nil {
		t.Error("RequireFitted must fail before fitting")
	}

	sm.SetDimensions(27, 1485)
	sm.SetFitted()

	if !sm.IsFitted() {
		t.Error("expected fitted after SetFitted")
	}
	if err := sm.RequireFitted("DecisionTree", "PredictProba"); err != nil {
		t.Errorf("RequireFitted after fitting: %v", err)
	}
	features, samples := sm.GetDimensions()
	if features != 27 || samples != 1485 {
		t.Errorf("expected dimensions (27, 1485), got (%d, %d)", features, samples)
	}

	sm.Reset()
	if sm.IsFitted() {
		t.Error("expected unfitted after Reset")
	}
	features, samples = sm.GetDimensions()
	if features != 0 || samples != 0 {
		t.Error("Reset must clear dimensions")
	}
}

func TestStateManager_RequireFittedError(t *testing.T) {
	sm := model.NewStateManager()

	err := sm.RequireFitted("KNN", "Predict")
	var nf *adoptmlErrors.NotFittedError
	if !adoptmlErrors.As(err, &nf) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
	if nf.ModelName != "KNN" || nf.Method != "Predict" {
		t.Errorf("unexpected error details: %+v", nf)
	}
}

func TestStateManager_ConcurrentReads(t *testing.T) {
	sm := model.NewStateManager()
	sm.SetFitted()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sm.IsFitted()
			_, _ = sm.GetDimensions()
		}()
	}
	wg.Wait()
}
