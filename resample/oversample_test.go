package resample_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premlab/adoptml/resample"
)

func TestOversample_ReachesTargetFraction(t *testing.T) {
	ds := makeDataset(990, 10)

	balanced, err := resample.Oversample(ds, 1.0/3.0, 42)
	require.NoError(t, err)

	// 990 majority records need 495 minority copies for a one-third share.
	assert.Equal(t, 990+495, balanced.NumRecords())
	assert.Equal(t, 495, balanced.PositiveCount())
	assert.InDelta(t, 1.0/3.0, balanced.PositiveFraction(), 1e-9)
}

func TestOversample_RoundsMinorityCount(t *testing.T) {
	// 10 positives against 990 negatives at target 0.33:
	// round(0.33/0.67 * 990) = 488 minority copies, 1478 records in total.
	ds := makeDataset(990, 10)

	balanced, err := resample.Oversample(ds, 0.33, 42)
	require.NoError(t, err)

	assert.Equal(t, 488, balanced.PositiveCount())
	assert.Equal(t, 1478, balanced.NumRecords())
	assert.Equal(t, 990, balanced.NumRecords()-balanced.PositiveCount(),
		"majority count must be unchanged")
}

func TestOversample_DuplicatesOnlyMinority(t *testing.T) {
	ds := makeDataset(90, 10)

	balanced, err := resample.Oversample(ds, 0.25, 7)
	require.NoError(t, err)

	// Majority rows pass through untouched, each exactly once.
	negSeen := make(map[float64]int)
	for i := 0; i < balanced.NumRecords(); i++ {
		if balanced.Y.AtVec(i) == 0 {
			negSeen[balanced.X.At(i, 0)]++
		} else {
			// Every minority copy must be one of the original 10 rows.
			assert.GreaterOrEqual(t, balanced.X.At(i, 0), 90.0)
		}
	}
	require.Len(t, negSeen, 90)
	for row, count := range negSeen {
		assert.Equal(t, 1, count, "majority record %g duplicated", row)
	}
}

func TestOversample_AlreadyBalanced(t *testing.T) {
	// 40% positive already exceeds the 1/3 target: the dataset passes
	// through unchanged.
	ds := makeDataset(60, 40)

	balanced, err := resample.Oversample(ds, 1.0/3.0, 11)
	require.NoError(t, err)
	assert.Equal(t, ds.NumRecords(), balanced.NumRecords())
	assert.Equal(t, ds.PositiveCount(), balanced.PositiveCount())
}

func TestOversample_Deterministic(t *testing.T) {
	ds := makeDataset(200, 20)

	b1, err := resample.Oversample(ds, 0.3, 5)
	require.NoError(t, err)
	b2, err := resample.Oversample(ds, 0.3, 5)
	require.NoError(t, err)

	require.Equal(t, b1.NumRecords(), b2.NumRecords())
	for i := 0; i < b1.NumRecords(); i++ {
		assert.Equal(t, b1.X.At(i, 0), b2.X.At(i, 0))
	}
}

func TestOversample_InvalidTarget(t *testing.T) {
	ds := makeDataset(50, 10)

	for _, frac := range []float64{0, -0.1, 0.5, 0.9} {
		_, err := resample.Oversample(ds, frac, 1)
		assert.Error(t, err, "target %g", frac)
	}
}

func TestOversample_NoMinorityRecords(t *testing.T) {
	ds := makeDataset(50, 0)

	_, err := resample.Oversample(ds, 0.25, 1)
	assert.Error(t, err, "cannot rebalance a single-class dataset")
}
