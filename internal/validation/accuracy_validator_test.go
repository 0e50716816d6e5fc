package validation

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/synthval/pkg/errors"
	"github.com/inferloop/synthval/pkg/models"
)

var palette = []string{"red", "green", "blue", "yellow"}

func generateDataset(t *testing.T, rows int, seed int64) *models.Dataset {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	age := models.Column{Name: "age"}
	income := models.Column{Name: "income"}
	color := models.Column{Name: "color"}
	for i := 0; i < rows; i++ {
		age.Values = append(age.Values, models.Number(rng.NormFloat64()*10+40))
		income.Values = append(income.Values, models.Number(rng.NormFloat64()*1000+5000))
		color.Values = append(color.Values, models.Text(palette[rng.Intn(len(palette))]))
	}
	ds, err := models.NewDataset([]models.Column{age, income, color})
	require.NoError(t, err)
	return ds
}

func TestIdenticalDatasetsScorePerfectly(t *testing.T) {
	ds := generateDataset(t, 1000, 3)
	validator := NewAccuracyValidator(nil, nil).(*AccuracyValidator)

	report, err := validator.EvaluateAccuracy(context.Background(), ds, ds)
	require.NoError(t, err)

	assert.Equal(t, 1.0, report.UnivariateMean)
	assert.Equal(t, 1.0, report.BivariateMean)
	assert.Equal(t, 1.0, report.Overall)
	for _, rec := range report.Univariate {
		assert.Equal(t, 1.0, rec.Accuracy)
	}
}

func TestBivariateTableIsMirrored(t *testing.T) {
	original := generateDataset(t, 300, 3)
	synthetic := generateDataset(t, 300, 4)
	validator := NewAccuracyValidator(nil, nil).(*AccuracyValidator)

	report, err := validator.EvaluateAccuracy(context.Background(), original, synthetic)
	require.NoError(t, err)

	// 3 columns, 3 unordered pairs, mirrored into 6 ordered records.
	require.Len(t, report.Bivariate, 6)
	byPair := make(map[[2]string]float64)
	for _, rec := range report.Bivariate {
		byPair[[2]string{rec.Column, rec.Column2}] = rec.Accuracy
	}
	for pair, acc := range byPair {
		mirror, ok := byPair[[2]string{pair[1], pair[0]}]
		require.True(t, ok, "missing mirrored orientation for %v", pair)
		assert.Equal(t, acc, mirror)
	}
}

func TestAccuracyAlwaysInUnitInterval(t *testing.T) {
	original := generateDataset(t, 200, 5)
	synthetic := generateDataset(t, 200, 99)
	validator := NewAccuracyValidator(nil, nil).(*AccuracyValidator)

	report, err := validator.EvaluateAccuracy(context.Background(), original, synthetic)
	require.NoError(t, err)

	records := append(append([]models.AccuracyRecord{}, report.Univariate...), report.Bivariate...)
	for _, rec := range records {
		assert.GreaterOrEqual(t, rec.Accuracy, 0.0)
		assert.LessOrEqual(t, rec.Accuracy, 1.0)
	}
}

func TestSingleColumnHasNoPairs(t *testing.T) {
	col := models.Column{Name: "x"}
	for i := 0; i < 50; i++ {
		col.Values = append(col.Values, models.Number(float64(i)))
	}
	ds, err := models.NewDataset([]models.Column{col})
	require.NoError(t, err)

	validator := NewAccuracyValidator(nil, nil).(*AccuracyValidator)
	report, err := validator.EvaluateAccuracy(context.Background(), ds, ds)
	require.NoError(t, err)

	assert.Empty(t, report.Bivariate)
	assert.Equal(t, report.UnivariateMean, report.Overall)
}

func TestSubsamplingCapsRows(t *testing.T) {
	original := generateDataset(t, 300, 3)
	synthetic := generateDataset(t, 250, 4)
	validator := NewAccuracyValidator(&AccuracyValidatorConfig{Bins: 10, MaxRecords: 100, Seed: 1}, nil).(*AccuracyValidator)

	report, err := validator.EvaluateAccuracy(context.Background(), original, synthetic)
	require.NoError(t, err)
	assert.Equal(t, 100, report.OriginalRows)
	assert.Equal(t, 100, report.SyntheticRows)
}

func TestPairGridsOnRequest(t *testing.T) {
	ds := generateDataset(t, 100, 3)
	validator := NewAccuracyValidator(&AccuracyValidatorConfig{Bins: 5, MaxRecords: 1000, Seed: 1, IncludePairGrids: true}, nil).(*AccuracyValidator)

	report, err := validator.EvaluateAccuracy(context.Background(), ds, ds)
	require.NoError(t, err)
	assert.Len(t, report.PairGrids, 3)
}

func TestValidateRejectsSchemaMismatch(t *testing.T) {
	original := generateDataset(t, 50, 3)
	narrow, err := models.NewDataset([]models.Column{{Name: "age", Values: make([]models.Value, 50)}})
	require.NoError(t, err)

	validator := NewAccuracyValidator(nil, nil)
	_, err = validator.Validate(context.Background(), &models.EvaluationRequest{
		ID: "t", Original: original, Synthetic: narrow,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSchemaMismatch)
}

func TestValidateCancelled(t *testing.T) {
	ds := generateDataset(t, 100, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	validator := NewAccuracyValidator(nil, nil)
	_, err := validator.Validate(ctx, &models.EvaluationRequest{ID: "t", Original: ds, Synthetic: ds})
	require.ErrorIs(t, err, context.Canceled)
}
