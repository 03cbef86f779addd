// Package preprocessing provides the feature-encoding utilities the pipeline
// applies around loading and training:
//
//   - NominalEncoder: maps an unordered categorical column to numeric columns
//   - StandardScaler: standardizes features to zero mean and unit variance
//
// Both follow the Fit/Transform pattern and compose a StateManager so they
// refuse to transform before being fitted.
package preprocessing

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/premlab/adoptml/core/model"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
)

// NominalEncoder encodes a single unordered categorical column. A column with
// two categories becomes one 0/1 indicator; a column with more becomes a
// one-hot block, one indicator per category. Categories are sorted so the
// encoding is independent of record order.
type NominalEncoder struct {
	state *model.StateManager

	// Categories is the sorted list of distinct values seen during Fit.
	Categories []string

	index map[string]int
}

// NewNominalEncoder creates an unfitted NominalEncoder.
func NewNominalEncoder() *NominalEncoder {
	return &NominalEncoder{state: model.NewStateManager()}
}

// Fit learns the distinct categories from the column values.
func (e *NominalEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return adoptmlErrors.Wrap(adoptmlErrors.ErrEmptyData, "NominalEncoder.Fit")
	}

	seen := make(map[string]bool)
	for _, v := range values {
		seen[v] = true
	}

	e.Categories = make([]string, 0, len(seen))
	for v := range seen {
		e.Categories = append(e.Categories, v)
	}
	sort.Strings(e.Categories)

	e.index = make(map[string]int, len(e.Categories))
	for i, v := range e.Categories {
		e.index[v] = i
	}

	e.state.SetDimensions(1, len(values))
	e.state.SetFitted()
	return nil
}

// Width returns the number of output columns the encoder produces: one for a
// binary (or constant) column, one per category otherwise.
func (e *NominalEncoder) Width() int {
	if len(e.Categories) <= 2 {
		return 1
	}
	return len(e.Categories)
}

// ColumnNames returns the output column names derived from the input column
// name. A binary column keeps its name; a one-hot block uses "name=category".
func (e *NominalEncoder) ColumnNames(name string) []string {
	if e.Width() == 1 {
		return []string{name}
	}
	names := make([]string, len(e.Categories))
	for i, cat := range e.Categories {
		names[i] = name + "=" + cat
	}
	return names
}

// Transform encodes the column values into an n x Width() matrix. A value not
// seen during Fit is a ValidationError.
func (e *NominalEncoder) Transform(values []string) (*mat.Dense, error) {
	if err := e.state.RequireFitted("NominalEncoder", "Transform"); err != nil {
		return nil, err
	}

	out := mat.NewDense(len(values), e.Width(), nil)
	for i, v := range values {
		idx, ok := e.index[v]
		if !ok {
			return nil, adoptmlErrors.NewValidationError("values", "category not seen during Fit", v)
		}
		if e.Width() == 1 {
			out.Set(i, 0, float64(idx))
		} else {
			out.Set(i, idx, 1)
		}
	}
	return out, nil
}

// IsFitted returns whether the encoder has been fitted.
func (e *NominalEncoder) IsFitted() bool {
	return e.state.IsFitted()
}
