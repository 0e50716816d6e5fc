package validation

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inferloop/synthval/internal/binning"
	"github.com/inferloop/synthval/internal/validation/metrics"
	"github.com/inferloop/synthval/pkg/constants"
	"github.com/inferloop/synthval/pkg/errors"
	"github.com/inferloop/synthval/pkg/interfaces"
	"github.com/inferloop/synthval/pkg/models"
)

// AccuracyValidator scores how closely the synthetic dataset reproduces
// the original's univariate and bivariate distributions after binning.
type AccuracyValidator struct {
	logger *logrus.Logger
	config *AccuracyValidatorConfig
}

// AccuracyValidatorConfig contains configuration for accuracy validation
type AccuracyValidatorConfig struct {
	Bins             int   `json:"bins"`
	MaxRecords       int   `json:"max_records"`
	Seed             int64 `json:"seed"`
	IncludePairGrids bool  `json:"include_pair_grids"`
}

// NewAccuracyValidator creates a new accuracy validator
func NewAccuracyValidator(config *AccuracyValidatorConfig, logger *logrus.Logger) interfaces.Validator {
	if config == nil {
		config = getDefaultAccuracyValidatorConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &AccuracyValidator{logger: logger, config: config}
}

// GetType returns the validator type
func (v *AccuracyValidator) GetType() string {
	return constants.ValidatorTypeAccuracy
}

// GetName returns a human-readable name for the validator
func (v *AccuracyValidator) GetName() string {
	return "Accuracy Validator"
}

// GetDescription returns a description of the validator
func (v *AccuracyValidator) GetDescription() string {
	return "Scores distributional fidelity of synthetic data via Total Variation Distance over binned columns and column pairs"
}

// ValidateParameters validates the evaluation request
func (v *AccuracyValidator) ValidateParameters(req *models.EvaluationRequest) error {
	if req == nil || req.Original == nil {
		return errors.NewValidationError("MISSING_ORIGINAL", "original dataset is required for accuracy validation")
	}
	if req.Synthetic == nil {
		return errors.NewValidationError("MISSING_SYNTHETIC", "synthetic dataset is required for accuracy validation")
	}
	if req.Original.NumRows() == 0 || req.Synthetic.NumRows() == 0 {
		return errors.WrapError(errors.ErrEmptyDataset, errors.ErrorTypeValidation,
			errors.CodeEmptyDataset, "both datasets must contain records")
	}
	return CheckSchema(req.Original, req.Synthetic)
}

// Validate runs the accuracy engine over the request datasets.
func (v *AccuracyValidator) Validate(ctx context.Context, req *models.EvaluationRequest) (*models.EvaluationResult, error) {
	if err := v.ValidateParameters(req); err != nil {
		return nil, err
	}

	v.logger.WithFields(logrus.Fields{
		"request_id":     req.ID,
		"original_rows":  req.Original.NumRows(),
		"synthetic_rows": req.Synthetic.NumRows(),
		"bins":           v.config.Bins,
	}).Info("Starting accuracy validation")

	start := time.Now()
	report, err := v.EvaluateAccuracy(ctx, req.Original, req.Synthetic)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	v.logger.WithFields(logrus.Fields{
		"request_id":      req.ID,
		"overall":         report.Overall,
		"univariate_mean": report.UnivariateMean,
		"bivariate_mean":  report.BivariateMean,
		"duration":        duration,
	}).Info("Accuracy validation completed")

	return &models.EvaluationResult{
		ID:            req.ID,
		ValidatorType: v.GetType(),
		Accuracy:      report,
		Duration:      duration,
		EvaluatedAt:   time.Now(),
	}, nil
}

// EvaluateAccuracy bins both datasets with a scheme fitted on the
// original only and reduces every column and every unordered column pair
// to an accuracy record.
func (v *AccuracyValidator) EvaluateAccuracy(ctx context.Context, original, synthetic *models.Dataset) (*models.AccuracyReport, error) {
	if v.config.MaxRecords > 0 {
		rng := rand.New(rand.NewSource(v.config.Seed))
		original = original.Sample(v.config.MaxRecords, rng)
		synthetic = synthetic.Sample(v.config.MaxRecords, rng)
	}

	scheme, err := binning.NewBinner(v.config.Bins, v.logger).Fit(original)
	if err != nil {
		return nil, err
	}
	binnedOrig, err := scheme.Transform(original)
	if err != nil {
		return nil, err
	}
	binnedSyn, err := scheme.Transform(synthetic)
	if err != nil {
		return nil, err
	}

	names := append([]string(nil), original.ColumnNames()...)
	sort.Strings(names)

	report := &models.AccuracyReport{
		OriginalRows:  original.NumRows(),
		SyntheticRows: synthetic.NumRows(),
		Bins:          scheme.Bins(),
	}

	univariate := make(map[string]float64, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := metrics.Accuracy(binnedOrig, binnedSyn, name)
		if err != nil {
			return nil, err
		}
		report.Univariate = append(report.Univariate, rec)
		univariate[name] = rec.Accuracy
	}

	// Each unordered pair is computed once and mirrored into both
	// orientations so per-column summaries can group on either member.
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rec, err := metrics.Accuracy(binnedOrig, binnedSyn, names[i], names[j])
			if err != nil {
				return nil, err
			}
			mirrored := models.AccuracyRecord{
				Column: rec.Column2, Column2: rec.Column,
				TVD: rec.TVD, Accuracy: rec.Accuracy,
			}
			report.Bivariate = append(report.Bivariate, rec, mirrored)

			if v.config.IncludePairGrids {
				grid, err := metrics.PairGrid(binnedOrig, binnedSyn, names[i], names[j])
				if err != nil {
					return nil, err
				}
				report.PairGrids = append(report.PairGrids, grid)
			}
		}
	}

	v.summarize(report, names, univariate)
	return report, nil
}

func (v *AccuracyValidator) summarize(report *models.AccuracyReport, names []string, univariate map[string]float64) {
	bivariateSums := make(map[string]float64, len(names))
	bivariateCounts := make(map[string]int, len(names))
	for _, rec := range report.Bivariate {
		bivariateSums[rec.Column] += rec.Accuracy
		bivariateCounts[rec.Column]++
	}

	for _, name := range names {
		col := models.ColumnAccuracy{Column: name, Univariate: univariate[name]}
		if bivariateCounts[name] > 0 {
			col.Bivariate = bivariateSums[name] / float64(bivariateCounts[name])
		}
		report.Columns = append(report.Columns, col)
	}

	report.UnivariateMean = meanAccuracy(report.Univariate)
	if len(report.Bivariate) > 0 {
		report.BivariateMean = meanAccuracy(report.Bivariate)
		report.Overall = (report.UnivariateMean + report.BivariateMean) / 2
	} else {
		// Single-column datasets have no pairs; the univariate figure
		// stands alone.
		report.Overall = report.UnivariateMean
	}
}

func meanAccuracy(records []models.AccuracyRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, rec := range records {
		sum += rec.Accuracy
	}
	return sum / float64(len(records))
}

// Close cleans up resources
func (v *AccuracyValidator) Close() error {
	return nil
}

func getDefaultAccuracyValidatorConfig() *AccuracyValidatorConfig {
	return &AccuracyValidatorConfig{
		Bins:       constants.DefaultBins,
		MaxRecords: constants.DefaultAccuracyMaxRecords,
		Seed:       constants.DefaultSeed,
	}
}
