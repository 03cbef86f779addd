package dataset

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
	"github.com/premlab/adoptml/preprocessing"
)

// Schema describes the fixed layout of the input file: the identifier column
// to drop, the binary label column, and the columns that carry unordered
// categories.
type Schema struct {
	// IDColumn is the non-predictive identifier column, dropped immediately
	// after validation and never used as a feature.
	IDColumn string

	// LabelColumn is the binary 0/1 label column.
	LabelColumn string

	// NominalColumns lists the feature columns to treat as unordered
	// categories. Columns with more than two categories are one-hot expanded.
	NominalColumns []string
}

// DefaultSchema returns the schema of the premium-adoption study file: user id
// in net_user, label in adopter, and the two nominal flags.
func DefaultSchema() Schema {
	return Schema{
		IDColumn:       "net_user",
		LabelColumn:    "adopter",
		NominalColumns: []string{"male", "good_country"},
	}
}

// Load reads a header-bearing delimited file into a Dataset. The identifier
// column is dropped, nominal columns are encoded as unordered categories, and
// every remaining column is parsed as a float64 feature. Any missing or
// malformed cell is a LoadError: downstream balancing and modeling assume
// complete data, so loading fails loudly rather than imputing.
func Load(path string, schema Schema) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, adoptmlErrors.NewLoadError(path, 0, "", "cannot open file: "+err.Error())
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, adoptmlErrors.NewLoadError(path, 0, "", "malformed delimited file: "+err.Error())
	}
	if len(rows) < 2 {
		return nil, adoptmlErrors.NewLoadError(path, 0, "", "file has no data rows")
	}

	header := rows[0]
	data := rows[1:]

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	labelCol, ok := colIndex[schema.LabelColumn]
	if !ok {
		return nil, adoptmlErrors.NewLoadError(path, 0, schema.LabelColumn, "label column not present")
	}
	idCol := -1
	if schema.IDColumn != "" {
		idCol, ok = colIndex[schema.IDColumn]
		if !ok {
			return nil, adoptmlErrors.NewLoadError(path, 0, schema.IDColumn, "identifier column not present")
		}
	}

	nominalSet := make(map[int]bool, len(schema.NominalColumns))
	for _, name := range schema.NominalColumns {
		idx, ok := colIndex[name]
		if !ok {
			return nil, adoptmlErrors.NewConfigError("nominal_columns", "column "+name+" not present in dataset")
		}
		nominalSet[idx] = true
	}

	// Completeness check before any parsing: a single missing value aborts
	// the load.
	for r, row := range data {
		if len(row) != len(header) {
			return nil, adoptmlErrors.NewLoadError(path, r+1, "",
				"expected "+strconv.Itoa(len(header))+" fields, got "+strconv.Itoa(len(row)))
		}
		for c, cell := range row {
			if isMissing(cell) {
				return nil, adoptmlErrors.NewLoadError(path, r+1, header[c], "missing value")
			}
		}
	}

	n := len(data)
	labels := mat.NewVecDense(n, nil)
	for r, row := range data {
		v := strings.TrimSpace(row[labelCol])
		if v != "0" && v != "1" {
			return nil, adoptmlErrors.NewLoadError(path, r+1, schema.LabelColumn,
				"label must be 0 or 1, got "+v)
		}
		if v == "1" {
			labels.SetVec(r, 1)
		}
	}

	// Encode each feature column into one or more output columns, preserving
	// original column order.
	var blocks []*mat.Dense
	var names []string
	var nominal []bool

	for c := 0; c < len(header); c++ {
		if c == idCol || c == labelCol {
			continue
		}
		name := strings.TrimSpace(header[c])

		if nominalSet[c] {
			values := make([]string, n)
			for r, row := range data {
				values[r] = strings.TrimSpace(row[c])
			}
			enc := preprocessing.NewNominalEncoder()
			if err := enc.Fit(values); err != nil {
				return nil, adoptmlErrors.Wrap(err, "encode nominal column "+name)
			}
			block, err := enc.Transform(values)
			if err != nil {
				return nil, adoptmlErrors.Wrap(err, "encode nominal column "+name)
			}
			blocks = append(blocks, block)
			names = append(names, enc.ColumnNames(name)...)
			for i := 0; i < enc.Width(); i++ {
				nominal = append(nominal, true)
			}
			continue
		}

		block := mat.NewDense(n, 1, nil)
		for r, row := range data {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
			if err != nil {
				return nil, adoptmlErrors.NewLoadError(path, r+1, name, "not a number: "+row[c])
			}
			block.Set(r, 0, v)
		}
		blocks = append(blocks, block)
		names = append(names, name)
		nominal = append(nominal, false)
	}

	if len(names) == 0 {
		return nil, adoptmlErrors.NewLoadError(path, 0, "", "no feature columns after dropping identifier and label")
	}

	X := mat.NewDense(n, len(names), nil)
	col := 0
	for _, block := range blocks {
		_, w := block.Dims()
		for j := 0; j < w; j++ {
			for i := 0; i < n; i++ {
				X.Set(i, col, block.At(i, j))
			}
			col++
		}
	}

	return &Dataset{
		X:            X,
		Y:            labels,
		FeatureNames: names,
		Nominal:      nominal,
	}, nil
}

// isMissing reports whether a raw cell encodes a missing value.
func isMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "N/A", "NaN", "nan", "null", "NULL":
		return true
	}
	return false
}
