// Package encoding maps raw records into a common numeric vector space
// for distance computation: mean imputation for numeric columns, one-hot
// for categorical ones. One encoder is fitted jointly across every record
// set that will be compared, so a category appearing in only one set
// still gets a stable output column and distances stay comparable.
package encoding

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/inferloop/synthval/pkg/errors"
	"github.com/inferloop/synthval/pkg/models"
)

type columnEncoder struct {
	name        string
	kind        models.ColumnKind
	offset      int
	mean        float64        // numeric imputation value over the union
	categories  []string       // sorted union categories
	index       map[string]int // category -> one-hot slot
	missingSlot int            // one-hot slot for missing values, -1 if unused
}

func (c *columnEncoder) width() int {
	if c.kind == models.KindNumeric {
		return 1
	}
	w := len(c.categories)
	if c.missingSlot >= 0 {
		w++
	}
	return w
}

// Encoder is a fitted transformation from records to fixed-length
// feature vectors. It is immutable after Fit.
type Encoder struct {
	columns []columnEncoder
	width   int
}

// Fit builds an encoder over the union of all given datasets. The first
// dataset defines the schema and the column kinds; every other dataset
// must carry the same columns.
func Fit(datasets ...*models.Dataset) (*Encoder, error) {
	if len(datasets) == 0 {
		return nil, errors.NewUsageError(errors.CodeInvalidConfiguration, "encoder fit requires at least one dataset")
	}
	first := datasets[0]

	enc := &Encoder{}
	for _, name := range first.ColumnNames() {
		col, _ := first.Column(name)
		ce := columnEncoder{name: name, kind: col.InferKind(), offset: enc.width, missingSlot: -1}

		var numbers []float64
		catSet := make(map[string]struct{})
		sawMissing := false
		for _, ds := range datasets {
			dsCol, ok := ds.Column(name)
			if !ok {
				return nil, errors.WrapError(errors.ErrSchemaMismatch, errors.ErrorTypeValidation,
					errors.CodeSchemaMismatch, fmt.Sprintf("dataset is missing column %q", name))
			}
			for _, v := range dsCol.Values {
				if ce.kind == models.KindNumeric {
					if num, ok := v.AsNumber(); ok {
						numbers = append(numbers, num)
					} else {
						sawMissing = true
					}
					continue
				}
				if str, ok := v.AsString(); ok {
					catSet[str] = struct{}{}
				} else {
					sawMissing = true
				}
			}
		}

		if ce.kind == models.KindNumeric {
			if len(numbers) > 0 {
				ce.mean = stat.Mean(numbers, nil)
			}
		} else {
			ce.categories = make([]string, 0, len(catSet))
			for cat := range catSet {
				ce.categories = append(ce.categories, cat)
			}
			sort.Strings(ce.categories)
			ce.index = make(map[string]int, len(ce.categories))
			for i, cat := range ce.categories {
				ce.index[cat] = i
			}
			if sawMissing {
				ce.missingSlot = len(ce.categories)
			}
		}

		enc.width += ce.width()
		enc.columns = append(enc.columns, ce)
	}
	return enc, nil
}

// Width returns the output feature-vector length.
func (e *Encoder) Width() int {
	return e.width
}

// Transform encodes every record of the dataset into a feature matrix of
// Width() columns. The dataset must carry every fitted column.
func (e *Encoder) Transform(ds *models.Dataset) (*mat.Dense, error) {
	if len(e.columns) == 0 {
		return nil, errors.WrapError(errors.ErrEncoderNotFitted, errors.ErrorTypeValidation,
			errors.CodeNotFitted, "Transform called before Fit")
	}

	rows := ds.NumRows()
	out := mat.NewDense(rows, e.width, nil)
	for i := range e.columns {
		ce := &e.columns[i]
		col, ok := ds.Column(ce.name)
		if !ok {
			return nil, errors.WrapError(errors.ErrSchemaMismatch, errors.ErrorTypeValidation,
				errors.CodeSchemaMismatch, fmt.Sprintf("dataset is missing fitted column %q", ce.name))
		}
		for r, v := range col.Values {
			if ce.kind == models.KindNumeric {
				if num, ok := v.AsNumber(); ok {
					out.Set(r, ce.offset, num)
				} else {
					out.Set(r, ce.offset, ce.mean)
				}
				continue
			}
			if str, ok := v.AsString(); ok {
				if slot, found := ce.index[str]; found {
					out.Set(r, ce.offset+slot, 1)
				}
			} else if ce.missingSlot >= 0 {
				out.Set(r, ce.offset+ce.missingSlot, 1)
			}
		}
	}
	return out, nil
}
