package binning

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/inferloop/synthval/pkg/constants"
	"github.com/inferloop/synthval/pkg/errors"
	"github.com/inferloop/synthval/pkg/models"
)

// LabelKind discriminates the variants of a bin label.
type LabelKind uint8

const (
	// LabelMissing marks an absent or unparseable value.
	LabelMissing LabelKind = iota
	// LabelOther marks a numeric value outside the fitted breakpoint
	// range or a category outside the fitted top-k set.
	LabelOther
	// LabelInterval marks a numeric value inside a fitted quantile
	// interval.
	LabelInterval
	// LabelCategory marks a retained categorical value.
	LabelCategory
)

// Label is the bin assignment of one value. It is a tagged variant rather
// than a string so real data equal to a sentinel token can never collide
// with the sentinel itself. Labels are comparable and usable as map keys.
type Label struct {
	Kind      LabelKind
	Low, High float64 // interval bounds, LabelInterval only
	ClosedLow bool    // the lowest interval is closed on both ends
	Category  string  // LabelCategory only
}

// String renders the label for reports and frequency-table keys.
func (l Label) String() string {
	switch l.Kind {
	case LabelMissing:
		return constants.SentinelMissing
	case LabelOther:
		return constants.SentinelOther
	case LabelCategory:
		return l.Category
	default:
		open := "("
		if l.ClosedLow {
			open = "["
		}
		return open + formatEdge(l.Low) + ", " + formatEdge(l.High) + "]"
	}
}

func formatEdge(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// ColumnScheme is the fitted discretization of one column: quantile
// breakpoints for numeric columns, a top-k category set for categorical
// ones. Schemes are immutable after Fit.
type ColumnScheme struct {
	Name          string
	Kind          models.ColumnKind
	Edges         []float64
	TopCategories []string
	topSet        map[string]struct{}
}

// Assign maps a value to its bin label. Assignment depends only on the
// fitted breakpoints and categories, never on the dataset being
// transformed.
func (s *ColumnScheme) Assign(v models.Value) Label {
	if v.IsMissing() {
		return Label{Kind: LabelMissing}
	}
	if s.Kind == models.KindCategorical {
		str, _ := v.AsString()
		if _, ok := s.topSet[str]; ok {
			return Label{Kind: LabelCategory, Category: str}
		}
		return Label{Kind: LabelOther}
	}

	num, ok := v.AsNumber()
	if !ok {
		// Non-numeric coercion failure in a numeric column.
		return Label{Kind: LabelMissing}
	}
	switch {
	case len(s.Edges) == 0:
		return Label{Kind: LabelOther}
	case len(s.Edges) == 1:
		// Degenerate column: a single breakpoint is a single bin.
		if num == s.Edges[0] {
			return Label{Kind: LabelInterval, Low: num, High: num, ClosedLow: true}
		}
		return Label{Kind: LabelOther}
	case num < s.Edges[0] || num > s.Edges[len(s.Edges)-1]:
		return Label{Kind: LabelOther}
	case num == s.Edges[0]:
		return Label{Kind: LabelInterval, Low: s.Edges[0], High: s.Edges[1], ClosedLow: true}
	}
	// First index with edge >= num; num sits in (Edges[i-1], Edges[i]].
	i := sort.SearchFloat64s(s.Edges, num)
	return Label{Kind: LabelInterval, Low: s.Edges[i-1], High: s.Edges[i], ClosedLow: i == 1}
}

// Scheme is the fitted discretization of a whole dataset.
type Scheme struct {
	bins    int
	columns []ColumnScheme
	index   map[string]int
}

// Bins returns the configured bin count.
func (s *Scheme) Bins() int {
	return s.bins
}

// Column returns the fitted scheme for the named column.
func (s *Scheme) Column(name string) (*ColumnScheme, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return &s.columns[i], true
}

// Transform bins every column of the dataset against the fitted scheme.
// The dataset must contain every fitted column.
func (s *Scheme) Transform(ds *models.Dataset) (*BinnedDataset, error) {
	out := &BinnedDataset{
		columns: make([]BinnedColumn, len(s.columns)),
		index:   make(map[string]int, len(s.columns)),
	}
	for i := range s.columns {
		cs := &s.columns[i]
		col, ok := ds.Column(cs.Name)
		if !ok {
			return nil, errors.WrapError(errors.ErrSchemaMismatch, errors.ErrorTypeValidation,
				errors.CodeSchemaMismatch, fmt.Sprintf("dataset is missing fitted column %q", cs.Name))
		}
		labels := make([]Label, col.Len())
		for j, v := range col.Values {
			labels[j] = cs.Assign(v)
		}
		out.columns[i] = BinnedColumn{Name: cs.Name, Labels: labels}
		out.index[cs.Name] = i
	}
	return out, nil
}

// BinnedColumn is a column reduced to bin labels.
type BinnedColumn struct {
	Name   string
	Labels []Label
}

// BinnedDataset holds the binned form of a dataset, with the same row
// count and column order as its input.
type BinnedDataset struct {
	columns []BinnedColumn
	index   map[string]int
}

// NumRows returns the number of records.
func (d *BinnedDataset) NumRows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Labels)
}

// ColumnNames returns the column names in dataset order.
func (d *BinnedDataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named binned column.
func (d *BinnedDataset) Column(name string) (*BinnedColumn, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return &d.columns[i], true
}

// Binner fits binning schemes on an original dataset.
type Binner struct {
	bins   int
	logger *logrus.Logger
}

// NewBinner creates a binner. A non-positive bin count falls back to the
// default.
func NewBinner(bins int, logger *logrus.Logger) *Binner {
	if bins <= 0 {
		bins = constants.DefaultBins
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Binner{bins: bins, logger: logger}
}

// Fit derives breakpoints and top-category sets from the original dataset
// only, so a synthetic dataset transformed later cannot bias the
// discretization.
func (b *Binner) Fit(original *models.Dataset) (*Scheme, error) {
	if original.NumRows() == 0 {
		return nil, errors.WrapError(errors.ErrEmptyDataset, errors.ErrorTypeValidation,
			errors.CodeEmptyDataset, "cannot fit binning scheme on an empty dataset")
	}

	scheme := &Scheme{
		bins:  b.bins,
		index: make(map[string]int, original.NumColumns()),
	}
	for _, name := range original.ColumnNames() {
		col, _ := original.Column(name)
		kind := col.InferKind()

		cs := ColumnScheme{Name: name, Kind: kind}
		if kind == models.KindNumeric {
			cs.Edges = b.quantileEdges(col)
		} else {
			cs.TopCategories = b.topCategories(col)
			cs.topSet = make(map[string]struct{}, len(cs.TopCategories))
			for _, cat := range cs.TopCategories {
				cs.topSet[cat] = struct{}{}
			}
		}

		scheme.index[name] = len(scheme.columns)
		scheme.columns = append(scheme.columns, cs)

		b.logger.WithFields(logrus.Fields{
			"column":     name,
			"kind":       kind,
			"edges":      len(cs.Edges),
			"categories": len(cs.TopCategories),
		}).Debug("Fitted column scheme")
	}
	return scheme, nil
}

// quantileEdges computes bins+1 linearly spaced quantile breakpoints and
// deduplicates identical ones, so sparse or constant columns still yield
// a valid scheme with fewer bins.
func (b *Binner) quantileEdges(col *models.Column) []float64 {
	values := make([]float64, 0, col.Len())
	for _, v := range col.Values {
		if num, ok := v.AsNumber(); ok {
			values = append(values, num)
		}
	}
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)

	edges := make([]float64, 0, b.bins+1)
	for i := 0; i <= b.bins; i++ {
		q := stat.Quantile(float64(i)/float64(b.bins), stat.LinInterp, values, nil)
		if len(edges) == 0 || q != edges[len(edges)-1] {
			edges = append(edges, q)
		}
	}
	return edges
}

// topCategories returns the bins most frequent non-missing values, ties
// broken by value for determinism.
func (b *Binner) topCategories(col *models.Column) []string {
	counts := make(map[string]int)
	for _, v := range col.Values {
		if str, ok := v.AsString(); ok {
			counts[str]++
		}
	}
	categories := make([]string, 0, len(counts))
	for cat := range counts {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > b.bins {
		categories = categories[:b.bins]
	}
	return categories
}
