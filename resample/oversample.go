package resample

import (
	"math"
	"math/rand/v2"

	"github.com/premlab/adoptml/dataset"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// Oversample rebalances a training set by duplicating minority-class records,
// sampled with replacement from the existing minority rows, until the
// minority class reaches targetMinorityFraction of the resulting set.
// Majority rows pass through unchanged and no feature values are synthesized:
// the operation is strictly additive duplication. Deterministic given seed.
//
// targetMinorityFraction must lie in (0, 0.5): the point of balancing is to
// raise the minority toward, never past, parity.
func Oversample(train *dataset.Dataset, targetMinorityFraction float64, seed uint64) (*dataset.Dataset, error) {
	if targetMinorityFraction <= 0 || targetMinorityFraction >= 0.5 {
		return nil, adoptmlErrors.NewValidationError("target_minority_fraction",
			"must be strictly between 0 and 0.5", targetMinorityFraction)
	}
	if train.NumRecords() == 0 {
		return nil, adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "Oversample")
	}

	groups := indicesByClass(train)
	minority, majority := groups[1], groups[0]
	if len(minority) > len(majority) {
		minority, majority = majority, minority
	}
	if len(minority) == 0 {
		return nil, adoptmlErrors.NewValidationError("train",
			"training set contains a single class, nothing to balance", len(minority))
	}

	// Solve m / (m + len(majority)) = f for the desired minority count.
	f := targetMinorityFraction
	want := int(math.Round(f / (1 - f) * float64(len(majority))))
	if want <= len(minority) {
		// Already at or past the target; strictly additive, so leave as is.
		all := make([]int, train.NumRecords())
		for i := range all {
			all[i] = i
		}
		return train.Subset(all), nil
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	indices := make([]int, 0, train.NumRecords()+want-len(minority))
	for i := 0; i < train.NumRecords(); i++ {
		indices = append(indices, i)
	}
	for i := 0; i < want-len(minority); i++ {
		indices = append(indices, minority[rng.IntN(len(minority))])
	}

	return train.Subset(indices), nil
}
