package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/synthval/pkg/errors"
	"github.com/inferloop/synthval/pkg/models"
)

func TestReadCSVParsesTypedCells(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("age,city\n34,berlin\n,paris\n41,NA\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, []string{"age", "city"}, ds.ColumnNames())

	age, ok := ds.Column("age")
	require.True(t, ok)
	assert.Equal(t, models.Number(34), age.Values[0])
	assert.True(t, age.Values[1].IsMissing())
	assert.Equal(t, models.KindNumeric, age.InferKind())

	city, ok := ds.Column("city")
	require.True(t, ok)
	assert.Equal(t, models.Text("berlin"), city.Values[0])
	assert.True(t, city.Values[2].IsMissing(), "NA is a missing token")
	assert.Equal(t, models.KindCategorical, city.InferKind())
}

func TestReadCSVRejectsDuplicateHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,a\n1,2\n"))
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeDuplicateColumn, appErr.Code)
}

func TestReadCSVRejectsEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, errors.ErrEmptyDataset)
}

func TestReadCSVRejectsRaggedRecord(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2\n3\n"))
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeRaggedRecord, appErr.Code)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.NumRows())
	assert.Equal(t, 2, ds.NumColumns())
}

func TestLoadCSVFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n1\n2\n"), 0o644))

	ds, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumRows())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
