package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/synthval/pkg/models"
)

func dataset(t *testing.T, columns ...models.Column) *models.Dataset {
	t.Helper()
	ds, err := models.NewDataset(columns)
	require.NoError(t, err)
	return ds
}

func TestWidthConsistentAcrossSets(t *testing.T) {
	reference := dataset(t,
		models.Column{Name: "age", Values: []models.Value{models.Number(30), models.Number(40)}},
		models.Column{Name: "color", Values: []models.Value{models.Text("red"), models.Text("blue")}},
	)
	holdout := dataset(t,
		models.Column{Name: "age", Values: []models.Value{models.Number(50), models.Number(60)}},
		models.Column{Name: "color", Values: []models.Value{models.Text("red"), models.Text("green")}},
	)
	synthetic := dataset(t,
		models.Column{Name: "age", Values: []models.Value{models.Number(35), models.Number(45)}},
		models.Column{Name: "color", Values: []models.Value{models.Text("purple"), models.Text("red")}},
	)

	enc, err := Fit(reference, holdout, synthetic)
	require.NoError(t, err)

	// One numeric feature plus one-hot over the union
	// {blue, green, purple, red}.
	assert.Equal(t, 5, enc.Width())

	for _, ds := range []*models.Dataset{reference, holdout, synthetic} {
		vecs, err := enc.Transform(ds)
		require.NoError(t, err)
		rows, cols := vecs.Dims()
		assert.Equal(t, ds.NumRows(), rows)
		assert.Equal(t, enc.Width(), cols)
	}
}

func TestCategoryOnlyInSyntheticGetsStableColumn(t *testing.T) {
	reference := dataset(t, models.Column{Name: "c", Values: []models.Value{models.Text("a")}})
	synthetic := dataset(t, models.Column{Name: "c", Values: []models.Value{models.Text("b")}})

	enc, err := Fit(reference, synthetic)
	require.NoError(t, err)
	assert.Equal(t, 2, enc.Width())

	refVecs, err := enc.Transform(reference)
	require.NoError(t, err)
	synVecs, err := enc.Transform(synthetic)
	require.NoError(t, err)

	// Sorted union order: a then b.
	assert.Equal(t, []float64{1, 0}, refVecs.RawRowView(0))
	assert.Equal(t, []float64{0, 1}, synVecs.RawRowView(0))
}

func TestNumericMeanImputationOverUnion(t *testing.T) {
	a := dataset(t, models.Column{Name: "x", Values: []models.Value{models.Number(1), models.Missing()}})
	b := dataset(t, models.Column{Name: "x", Values: []models.Value{models.Number(3)}})

	enc, err := Fit(a, b)
	require.NoError(t, err)

	vecs, err := enc.Transform(a)
	require.NoError(t, err)
	// Mean over the union {1, 3} = 2.
	assert.Equal(t, 1.0, vecs.At(0, 0))
	assert.Equal(t, 2.0, vecs.At(1, 0))
}

func TestMissingCategoricalGetsOwnSlot(t *testing.T) {
	ds := dataset(t, models.Column{Name: "c", Values: []models.Value{
		models.Text("a"), models.Missing(),
	}})

	enc, err := Fit(ds)
	require.NoError(t, err)
	assert.Equal(t, 2, enc.Width())

	vecs, err := enc.Transform(ds)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, vecs.RawRowView(0))
	assert.Equal(t, []float64{0, 1}, vecs.RawRowView(1))
}

func TestTransformMissingColumnFails(t *testing.T) {
	ds := dataset(t, models.Column{Name: "c", Values: []models.Value{models.Text("a")}})
	enc, err := Fit(ds)
	require.NoError(t, err)

	other := dataset(t, models.Column{Name: "d", Values: []models.Value{models.Text("a")}})
	_, err = enc.Transform(other)
	require.Error(t, err)
}

func TestNumericColumnCoercesSyntheticText(t *testing.T) {
	// Kind comes from the first dataset: numeric. Text in the second
	// set is a coercion failure and imputes to the mean.
	a := dataset(t, models.Column{Name: "x", Values: []models.Value{models.Number(2), models.Number(4)}})
	b := dataset(t, models.Column{Name: "x", Values: []models.Value{models.Text("oops")}})

	enc, err := Fit(a, b)
	require.NoError(t, err)

	vecs, err := enc.Transform(b)
	require.NoError(t, err)
	assert.Equal(t, 3.0, vecs.At(0, 0))
}
