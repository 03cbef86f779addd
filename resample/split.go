// Package resample partitions and rebalances datasets: stratified train/test
// splitting, stratified k-fold generation, and minority oversampling. Every
// operation takes an explicit seed and is deterministic given it.
package resample

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/premlab/adoptml/dataset"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// StratifiedSplit partitions ds into disjoint train and test subsets such
// that the positive-label fraction of each subset matches the full dataset's
// within rounding. Deterministic given seed.
func StratifiedSplit(ds *dataset.Dataset, trainFraction float64, seed uint64) (train, test *dataset.Dataset, err error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, nil, adoptmlErrors.NewValidationError("train_fraction",
			"must be strictly between 0 and 1", trainFraction)
	}
	if ds.NumRecords() == 0 {
		return nil, nil, adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "StratifiedSplit")
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	var trainIdx, testIdx []int
	for _, group := range indicesByClass(ds) {
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		nTrain := int(math.Round(trainFraction * float64(len(group))))
		trainIdx = append(trainIdx, group[:nTrain]...)
		testIdx = append(testIdx, group[nTrain:]...)
	}

	sort.Ints(trainIdx)
	sort.Ints(testIdx)

	return ds.Subset(trainIdx), ds.Subset(testIdx), nil
}

// Fold is one held-out set in a k-fold partition, together with the
// complementary training indices.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold generates stratified k-fold partitions: each record appears in
// exactly one fold's held-out set, and every fold's held-out set preserves
// the class proportions of the full dataset.
type KFold struct {
	K    int
	Seed uint64
}

// NewKFold creates a stratified k-fold generator. k below 2 defaults to 5.
func NewKFold(k int, seed uint64) *KFold {
	if k < 2 {
		k = 5
	}
	return &KFold{K: k, Seed: seed}
}

// Split returns the k folds for ds. The union of held-out sets over all
// folds is the full dataset, each record exactly once.
func (kf *KFold) Split(ds *dataset.Dataset) ([]Fold, error) {
	n := ds.NumRecords()
	if n < kf.K {
		return nil, adoptmlErrors.NewValidationError("k",
			"cannot have more folds than records", kf.K)
	}

	rng := rand.New(rand.NewPCG(kf.Seed, kf.Seed))

	folds := make([]Fold, kf.K)

	// Distribute each class across folds so every held-out set keeps the
	// class ratio.
	for _, group := range indicesByClass(ds) {
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		foldSize := len(group) / kf.K
		remainder := len(group) % kf.K
		cur := 0
		for i := 0; i < kf.K; i++ {
			size := foldSize
			if i < remainder {
				size++
			}
			folds[i].TestIndices = append(folds[i].TestIndices, group[cur:cur+size]...)
			cur += size
		}
	}

	for i := range folds {
		sort.Ints(folds[i].TestIndices)
		inTest := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			inTest[idx] = true
		}
		for j := 0; j < n; j++ {
			if !inTest[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return folds, nil
}

// indicesByClass groups record indices by label, negatives first, each group
// in ascending index order.
func indicesByClass(ds *dataset.Dataset) [][]int {
	var neg, pos []int
	for i := 0; i < ds.NumRecords(); i++ {
		if ds.Y.AtVec(i) == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	return [][]int{neg, pos}
}
