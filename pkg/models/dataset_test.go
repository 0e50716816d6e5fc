package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueCoercion(t *testing.T) {
	n, ok := Number(2.5).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)

	_, ok = Text("2.5").AsNumber()
	assert.False(t, ok, "text never coerces to a number")

	s, ok := Number(2.5).AsString()
	assert.True(t, ok)
	assert.Equal(t, "2.5", s)

	s, ok = Number(3).AsString()
	assert.True(t, ok)
	assert.Equal(t, "3", s)

	_, ok = Missing().AsString()
	assert.False(t, ok)
	assert.True(t, Missing().IsMissing())
}

func TestInferKind(t *testing.T) {
	numeric := Column{Name: "n", Values: []Value{Number(1), Missing(), Number(2)}}
	assert.Equal(t, KindNumeric, numeric.InferKind())

	mixed := Column{Name: "m", Values: []Value{Number(1), Text("two")}}
	assert.Equal(t, KindCategorical, mixed.InferKind())

	allMissing := Column{Name: "x", Values: []Value{Missing(), Missing()}}
	assert.Equal(t, KindCategorical, allMissing.InferKind())
}

func TestNewDatasetValidation(t *testing.T) {
	_, err := NewDataset([]Column{
		{Name: "a", Values: []Value{Number(1)}},
		{Name: "a", Values: []Value{Number(2)}},
	})
	assert.Error(t, err)

	_, err = NewDataset([]Column{
		{Name: "a", Values: []Value{Number(1), Number(2)}},
		{Name: "b", Values: []Value{Number(1)}},
	})
	assert.Error(t, err)
}

func buildDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewDataset([]Column{
		{Name: "a", Values: []Value{Number(1), Number(2), Number(3), Number(4)}},
		{Name: "b", Values: []Value{Text("w"), Text("x"), Text("y"), Text("z")}},
	})
	require.NoError(t, err)
	return ds
}

func TestDatasetAccessors(t *testing.T) {
	ds := buildDataset(t)

	assert.Equal(t, 4, ds.NumRows())
	assert.Equal(t, 2, ds.NumColumns())
	assert.Equal(t, []string{"a", "b"}, ds.ColumnNames())
	assert.True(t, ds.HasColumn("b"))
	assert.False(t, ds.HasColumn("c"))

	col, ok := ds.Column("a")
	require.True(t, ok)
	assert.Equal(t, 4, col.Len())

	_, ok = ds.Column("c")
	assert.False(t, ok)
}

func TestSubsetPreservesOrder(t *testing.T) {
	ds := buildDataset(t)
	sub := ds.Subset([]int{3, 1})

	assert.Equal(t, 2, sub.NumRows())
	a, _ := sub.Column("a")
	assert.Equal(t, []Value{Number(4), Number(2)}, a.Values)
	b, _ := sub.Column("b")
	assert.Equal(t, []Value{Text("z"), Text("x")}, b.Values)
}

func TestSampleWithoutReplacement(t *testing.T) {
	ds := buildDataset(t)
	rng := rand.New(rand.NewSource(7))

	sampled := ds.Sample(3, rng)
	assert.Equal(t, 3, sampled.NumRows())

	a, _ := sampled.Column("a")
	seen := make(map[float64]bool)
	for _, v := range a.Values {
		n, ok := v.AsNumber()
		require.True(t, ok)
		assert.False(t, seen[n], "sampled rows must be distinct")
		seen[n] = true
	}

	// Requests at or above the row count return the dataset unchanged.
	assert.Same(t, ds, ds.Sample(4, rng))
	assert.Same(t, ds, ds.Sample(10, rng))
}
