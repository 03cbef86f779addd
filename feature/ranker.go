// Package feature ranks feature columns by information gain with respect to
// the binary label. The ranking is a univariate filter: each feature is
// scored independently, no model is retrained per candidate subset.
package feature

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/premlab/adoptml/dataset"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// numericBins is the number of equal-width bins numeric columns are
// discretized into before computing conditional label entropy.
const numericBins = 10

// Score is one feature's information gain against the label.
type Score struct {
	Feature string
	Gain    float64
}

// Rank scores every feature column of ds by information gain and returns the
// scores in descending order. Ties keep the original column order, so a
// zero-gain constant column sorts after equally scored earlier columns.
//
// Rank is a pure function of its input; callers recompute it whenever the
// underlying training data changes, for example per fold.
func Rank(ds *dataset.Dataset) ([]Score, error) {
	n := ds.NumRecords()
	if n == 0 {
		return nil, adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "feature.Rank")
	}

	labelEntropy := binaryEntropy(ds.PositiveCount(), n)

	scores := make([]Score, ds.NumFeatures())
	for j := 0; j < ds.NumFeatures(); j++ {
		scores[j] = Score{
			Feature: ds.FeatureNames[j],
			Gain:    labelEntropy - conditionalEntropy(ds, j),
		}
	}

	// Stable sort preserves original column order among ties.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Gain > scores[j].Gain
	})

	return scores, nil
}

// TopFeatures returns the names of the k highest-ranked features.
func TopFeatures(scores []Score, k int) []string {
	if k > len(scores) {
		k = len(scores)
	}
	names := make([]string, k)
	for i := 0; i < k; i++ {
		names[i] = scores[i].Feature
	}
	return names
}

// conditionalEntropy computes H(label | feature j) after discretizing the
// column: nominal columns use their distinct values as bins, numeric columns
// are cut into equal-width bins over their observed range.
func conditionalEntropy(ds *dataset.Dataset, j int) float64 {
	n := ds.NumRecords()
	bins := assignBins(ds, j)

	type binCount struct{ total, positive int }
	counts := make(map[int]*binCount)
	for i := 0; i < n; i++ {
		bc := counts[bins[i]]
		if bc == nil {
			bc = &binCount{}
			counts[bins[i]] = bc
		}
		bc.total++
		if ds.Y.AtVec(i) == 1 {
			bc.positive++
		}
	}

	h := 0.0
	for _, bc := range counts {
		weight := float64(bc.total) / float64(n)
		h += weight * binaryEntropy(bc.positive, bc.total)
	}
	return h
}

// assignBins maps each record to a bin index for column j.
func assignBins(ds *dataset.Dataset, j int) []int {
	n := ds.NumRecords()
	bins := make([]int, n)

	if ds.Nominal[j] {
		seen := make(map[float64]int)
		for i := 0; i < n; i++ {
			v := ds.X.At(i, j)
			idx, ok := seen[v]
			if !ok {
				idx = len(seen)
				seen[v] = idx
			}
			bins[i] = idx
		}
		return bins
	}

	minV, maxV := ds.X.At(0, j), ds.X.At(0, j)
	for i := 1; i < n; i++ {
		v := ds.X.At(i, j)
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV == maxV {
		// Constant column: single bin, zero gain.
		return bins
	}

	width := (maxV - minV) / numericBins
	for i := 0; i < n; i++ {
		b := int((ds.X.At(i, j) - minV) / width)
		if b >= numericBins {
			b = numericBins - 1
		}
		bins[i] = b
	}
	return bins
}

// binaryEntropy returns the entropy in bits of a binary label distribution
// with the given positive count out of total.
func binaryEntropy(positive, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(positive) / float64(total)
	dist := []float64{p, 1 - p}
	// stat.Entropy uses natural log; convert to bits.
	return stat.Entropy(dist) / math.Ln2
}
