package preprocessing_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/preprocessing"
)

const epsilon = 1e-10 // Tolerance for floating-point comparisons

func TestStandardScaler_FitTransform(t *testing.T) {
	// Feature 1: [1, 2, 3] -> mean=2, std=0.816
	// Feature 2: [4, 5, 6] -> mean=5, std=0.816
	X := mat.NewDense(3, 2, []float64{
		1.0, 4.0,
		2.0, 5.0,
		3.0, 6.0,
	})

	scaler := preprocessing.NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	expectedMean := []float64{2.0, 5.0}
	expectedStd := []float64{0.816496580927726, 0.816496580927726}
	for i := range expectedMean {
		if math.Abs(scaler.Mean[i]-expectedMean[i]) > epsilon {
			t.Errorf("Mean[%d]: expected %f, got %f", i, expectedMean[i], scaler.Mean[i])
		}
		if math.Abs(scaler.Scale[i]-expectedStd[i]) > epsilon {
			t.Errorf("Scale[%d]: expected %f, got %f", i, expectedStd[i], scaler.Scale[i])
		}
	}

	expectedScaled := []float64{
		-1.224744871391589, -1.224744871391589,
		0.0, 0.0,
		1.224744871391589, 1.224744871391589,
	}
	r, c := XScaled.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(XScaled.At(i, j)-expectedScaled[i*c+j]) > epsilon {
				t.Errorf("XScaled[%d][%d]: expected %f, got %f",
					i, j, expectedScaled[i*c+j], XScaled.At(i, j))
			}
		}
	}
}

func TestStandardScaler_ConstantFeature(t *testing.T) {
	// A constant column must not divide by zero: scale falls back to 1 and
	// the centered values are all zero.
	X := mat.NewDense(3, 1, []float64{7, 7, 7})

	scaler := preprocessing.NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	if scaler.Scale[0] != 1.0 {
		t.Errorf("constant feature scale: expected 1, got %f", scaler.Scale[0])
	}
	for i := 0; i < 3; i++ {
		if XScaled.At(i, 0) != 0.0 {
			t.Errorf("row %d: expected 0, got %f", i, XScaled.At(i, 0))
		}
	}
}

func TestStandardScaler_TransformBeforeFit(t *testing.T) {
	scaler := preprocessing.NewStandardScalerDefault()
	if _, err := scaler.Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Fatal("expected error when transforming before fit")
	}
}

func TestStandardScaler_DimensionMismatch(t *testing.T) {
	scaler := preprocessing.NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(3, 2, nil)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(3, 5, nil)); err == nil {
		t.Fatal("expected error for mismatched feature count")
	}
}
