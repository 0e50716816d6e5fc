// Package metrics reduces binned datasets to distributional distances.
// The single metric is Total Variation Distance over the outer-joined bin
// label space; accuracy is its complement.
package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/inferloop/synthval/internal/binning"
	"github.com/inferloop/synthval/pkg/constants"
	"github.com/inferloop/synthval/pkg/errors"
	"github.com/inferloop/synthval/pkg/models"
)

// PairKey is the composite label of a bivariate cell.
type PairKey struct {
	A, B binning.Label
}

// String renders the composite label for reports, joining the two bin
// labels with the pair separator.
func (k PairKey) String() string {
	return k.A.String() + constants.PairSeparator + k.B.String()
}

// UnivariateFrequencies computes the relative frequency of every bin
// label in the column. Missing values keep their own label and contribute
// to the distribution.
func UnivariateFrequencies(col *binning.BinnedColumn) map[binning.Label]float64 {
	freq := make(map[binning.Label]float64)
	if len(col.Labels) == 0 {
		return freq
	}
	weight := 1.0 / float64(len(col.Labels))
	for _, l := range col.Labels {
		freq[l] += weight
	}
	return freq
}

// BivariateFrequencies computes the relative frequency of every label
// pair across two columns of the same binned dataset.
func BivariateFrequencies(a, b *binning.BinnedColumn) map[PairKey]float64 {
	freq := make(map[PairKey]float64)
	if len(a.Labels) == 0 {
		return freq
	}
	weight := 1.0 / float64(len(a.Labels))
	for i := range a.Labels {
		freq[PairKey{A: a.Labels[i], B: b.Labels[i]}] += weight
	}
	return freq
}

// TotalVariation computes the Total Variation Distance between two
// relative-frequency tables: half the sum of absolute differences over
// the union of their label spaces. Labels exclusive to either side
// contribute their full frequency.
func TotalVariation[K comparable](p, q map[K]float64) float64 {
	sum := 0.0
	for key, pv := range p {
		sum += math.Abs(pv - q[key])
	}
	for key, qv := range q {
		if _, seen := p[key]; !seen {
			sum += qv
		}
	}
	return sum / 2
}

// Accuracy computes 1 - TVD between the original and synthetic
// distributions of one column (univariate) or an unordered pair of
// distinct columns (bivariate). Higher-order interactions are rejected as
// a usage error. The pair is stored in lexicographic order.
func Accuracy(original, synthetic *binning.BinnedDataset, columns ...string) (models.AccuracyRecord, error) {
	switch len(columns) {
	case 1:
		origCol, synCol, err := resolve(original, synthetic, columns[0])
		if err != nil {
			return models.AccuracyRecord{}, err
		}
		tvd := TotalVariation(UnivariateFrequencies(origCol), UnivariateFrequencies(synCol))
		return models.AccuracyRecord{Column: columns[0], TVD: tvd, Accuracy: 1 - tvd}, nil

	case 2:
		first, second := columns[0], columns[1]
		if first == second {
			return models.AccuracyRecord{}, errors.NewUsageError(errors.CodeUnsupportedInteraction,
				fmt.Sprintf("bivariate accuracy requires two distinct columns, got %q twice", first))
		}
		if first > second {
			first, second = second, first
		}
		origA, synA, err := resolve(original, synthetic, first)
		if err != nil {
			return models.AccuracyRecord{}, err
		}
		origB, synB, err := resolve(original, synthetic, second)
		if err != nil {
			return models.AccuracyRecord{}, err
		}
		tvd := TotalVariation(BivariateFrequencies(origA, origB), BivariateFrequencies(synA, synB))
		return models.AccuracyRecord{Column: first, Column2: second, TVD: tvd, Accuracy: 1 - tvd}, nil

	default:
		return models.AccuracyRecord{}, errors.WrapError(errors.ErrUnsupportedInteraction,
			errors.ErrorTypeUsage, errors.CodeUnsupportedInteraction,
			fmt.Sprintf("requested interaction order %d, supported orders are 1 and 2", len(columns)))
	}
}

func resolve(original, synthetic *binning.BinnedDataset, name string) (*binning.BinnedColumn, *binning.BinnedColumn, error) {
	origCol, ok := original.Column(name)
	if !ok {
		return nil, nil, errors.WrapError(errors.ErrColumnNotFound, errors.ErrorTypeValidation,
			errors.CodeColumnNotFound, fmt.Sprintf("column %q not in original dataset", name))
	}
	synCol, ok := synthetic.Column(name)
	if !ok {
		return nil, nil, errors.WrapError(errors.ErrColumnNotFound, errors.ErrorTypeValidation,
			errors.CodeColumnNotFound, fmt.Sprintf("column %q not in synthetic dataset", name))
	}
	return origCol, synCol, nil
}

// PairGrid builds the joint frequency grids of one column pair for both
// datasets, table-normalized and row-normalized, over the outer-joined
// label spaces of both sides.
func PairGrid(original, synthetic *binning.BinnedDataset, colA, colB string) (*models.PairGrid, error) {
	if colA > colB {
		colA, colB = colB, colA
	}
	origA, synA, err := resolve(original, synthetic, colA)
	if err != nil {
		return nil, err
	}
	origB, synB, err := resolve(original, synthetic, colB)
	if err != nil {
		return nil, err
	}

	origFreq := BivariateFrequencies(origA, origB)
	synFreq := BivariateFrequencies(synA, synB)

	rows := labelAxis(origFreq, synFreq, func(k PairKey) binning.Label { return k.A })
	cols := labelAxis(origFreq, synFreq, func(k PairKey) binning.Label { return k.B })

	grid := &models.PairGrid{
		Column:       colA,
		Column2:      colB,
		RowLabels:    labelStrings(rows),
		ColumnLabels: labelStrings(cols),
	}
	grid.Original, grid.OriginalByRow = fillGrid(origFreq, rows, cols)
	grid.Synthetic, grid.SyntheticByRow = fillGrid(synFreq, rows, cols)
	return grid, nil
}

func labelAxis(origFreq, synFreq map[PairKey]float64, pick func(PairKey) binning.Label) []binning.Label {
	seen := make(map[binning.Label]struct{})
	var labels []binning.Label
	for _, freq := range []map[PairKey]float64{origFreq, synFreq} {
		for key := range freq {
			l := pick(key)
			if _, ok := seen[l]; !ok {
				seen[l] = struct{}{}
				labels = append(labels, l)
			}
		}
	}
	sort.Slice(labels, func(i, j int) bool { return labelLess(labels[i], labels[j]) })
	return labels
}

// labelLess orders intervals by bound, then categories alphabetically,
// with the sentinel labels at the end.
func labelLess(a, b binning.Label) bool {
	if a.Kind != b.Kind {
		return labelRank(a) < labelRank(b)
	}
	switch a.Kind {
	case binning.LabelInterval:
		if a.Low != b.Low {
			return a.Low < b.Low
		}
		return a.High < b.High
	case binning.LabelCategory:
		return a.Category < b.Category
	default:
		return false
	}
}

func labelRank(l binning.Label) int {
	switch l.Kind {
	case binning.LabelInterval:
		return 0
	case binning.LabelCategory:
		return 1
	case binning.LabelOther:
		return 2
	default:
		return 3
	}
}

func labelStrings(labels []binning.Label) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.String()
	}
	return out
}

func fillGrid(freq map[PairKey]float64, rows, cols []binning.Label) (joint, byRow [][]float64) {
	joint = make([][]float64, len(rows))
	byRow = make([][]float64, len(rows))
	for i, r := range rows {
		joint[i] = make([]float64, len(cols))
		byRow[i] = make([]float64, len(cols))
		rowSum := 0.0
		for j, c := range cols {
			joint[i][j] = freq[PairKey{A: r, B: c}]
			rowSum += joint[i][j]
		}
		if rowSum > 0 {
			for j := range byRow[i] {
				byRow[i][j] = joint[i][j] / rowSum
			}
		}
	}
	return joint, byRow
}
