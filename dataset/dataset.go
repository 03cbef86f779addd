// Package dataset loads and represents the user-behavior table the study
// runs on: one record per user, a fixed set of numeric and nominal feature
// columns, and the binary adopter label.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// Dataset is an immutable collection of records: a feature matrix, the 0/1
// label vector, and per-column metadata. Stages of the pipeline take a
// Dataset and return new ones; they never mutate their input.
type Dataset struct {
	// X is the n_samples x n_features feature matrix.
	X *mat.Dense

	// Y is the n_samples label vector with values 0 or 1.
	Y *mat.VecDense

	// FeatureNames holds the column name for each feature, in original order.
	FeatureNames []string

	// Nominal marks feature columns that carry unordered categories rather
	// than ordered numeric values.
	Nominal []bool
}

// NumRecords returns the number of records.
func (d *Dataset) NumRecords() int {
	if d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int {
	if d.X == nil {
		return 0
	}
	_, c := d.X.Dims()
	return c
}

// PositiveCount returns the number of records with label 1.
func (d *Dataset) PositiveCount() int {
	count := 0
	for i := 0; i < d.NumRecords(); i++ {
		if d.Y.AtVec(i) == 1 {
			count++
		}
	}
	return count
}

// PositiveFraction returns the share of records with label 1. Zero for an
// empty dataset.
func (d *Dataset) PositiveFraction() float64 {
	n := d.NumRecords()
	if n == 0 {
		return 0
	}
	return float64(d.PositiveCount()) / float64(n)
}

// FeatureIndex returns the column index of the named feature, or -1.
func (d *Dataset) FeatureIndex(name string) int {
	for i, fn := range d.FeatureNames {
		if fn == name {
			return i
		}
	}
	return -1
}

// Select returns a new Dataset restricted to the named feature columns, in
// the given order. A name absent from the dataset is a ConfigError.
func (d *Dataset) Select(features []string) (*Dataset, error) {
	if len(features) == 0 {
		return nil, adoptmlErrors.NewConfigError("features", "feature subset cannot be empty")
	}

	cols := make([]int, len(features))
	for i, name := range features {
		idx := d.FeatureIndex(name)
		if idx < 0 {
			return nil, adoptmlErrors.NewConfigError("features", "column "+name+" not present in dataset")
		}
		cols[i] = idx
	}

	n := d.NumRecords()
	sub := mat.NewDense(n, len(cols), nil)
	nominal := make([]bool, len(cols))
	names := make([]string, len(cols))
	for j, col := range cols {
		for i := 0; i < n; i++ {
			sub.Set(i, j, d.X.At(i, col))
		}
		nominal[j] = d.Nominal[col]
		names[j] = d.FeatureNames[col]
	}

	return &Dataset{
		X:            sub,
		Y:            copyVec(d.Y),
		FeatureNames: names,
		Nominal:      nominal,
	}, nil
}

// Subset returns a new Dataset containing the records at the given indices,
// in order. Indices may repeat, which duplicates records; the oversampler
// relies on this.
func (d *Dataset) Subset(indices []int) *Dataset {
	nFeatures := d.NumFeatures()
	sub := mat.NewDense(len(indices), nFeatures, nil)
	labels := mat.NewVecDense(len(indices), nil)

	for i, idx := range indices {
		for j := 0; j < nFeatures; j++ {
			sub.Set(i, j, d.X.At(idx, j))
		}
		labels.SetVec(i, d.Y.AtVec(idx))
	}

	return &Dataset{
		X:            sub,
		Y:            labels,
		FeatureNames: append([]string(nil), d.FeatureNames...),
		Nominal:      append([]bool(nil), d.Nominal...),
	}
}

func copyVec(v *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(v.Len(), nil)
	out.CopyVec(v)
	return out
}
