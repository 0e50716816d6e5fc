package validation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/inferloop/synthval/internal/encoding"
	"github.com/inferloop/synthval/internal/knn"
	"github.com/inferloop/synthval/pkg/constants"
	"github.com/inferloop/synthval/pkg/errors"
	"github.com/inferloop/synthval/pkg/interfaces"
	"github.com/inferloop/synthval/pkg/models"
)

// PrivacyValidator quantifies whether synthetic records sit abnormally
// close to original records, compared to how close held-out original
// records sit to the rest of the original data. Closeness beyond the
// holdout baseline is a memorization signal.
type PrivacyValidator struct {
	logger *logrus.Logger
	config *PrivacyValidatorConfig
}

// PrivacyValidatorConfig contains configuration for privacy validation
type PrivacyValidatorConfig struct {
	// MaxSamples caps the derived per-group sample size.
	MaxSamples int `json:"max_samples"`
	// SampleSize forces an exact per-group sample size; 0 derives it
	// from the input sizes and MaxSamples.
	SampleSize int   `json:"sample_size"`
	Seed       int64 `json:"seed"`
}

// NewPrivacyValidator creates a new privacy validator
func NewPrivacyValidator(config *PrivacyValidatorConfig, logger *logrus.Logger) interfaces.Validator {
	if config == nil {
		config = getDefaultPrivacyValidatorConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &PrivacyValidator{logger: logger, config: config}
}

// GetType returns the validator type
func (v *PrivacyValidator) GetType() string {
	return constants.ValidatorTypePrivacy
}

// GetName returns a human-readable name for the validator
func (v *PrivacyValidator) GetName() string {
	return "Privacy Validator"
}

// GetDescription returns a description of the validator
func (v *PrivacyValidator) GetDescription() string {
	return "Estimates memorization risk via nearest-neighbor distance and distance-ratio quantiles against a holdout baseline"
}

// ValidateParameters validates the evaluation request
func (v *PrivacyValidator) ValidateParameters(req *models.EvaluationRequest) error {
	if req == nil || req.Original == nil {
		return errors.NewValidationError("MISSING_ORIGINAL", "original dataset is required for privacy validation")
	}
	if req.Synthetic == nil {
		return errors.NewValidationError("MISSING_SYNTHETIC", "synthetic dataset is required for privacy validation")
	}
	if req.Original.NumRows() == 0 || req.Synthetic.NumRows() == 0 {
		return errors.WrapError(errors.ErrEmptyDataset, errors.ErrorTypeValidation,
			errors.CodeEmptyDataset, "both datasets must contain records")
	}
	if err := CheckSchema(req.Original, req.Synthetic); err != nil {
		return err
	}
	if _, err := v.sampleSize(req.Original, req.Synthetic); err != nil {
		return err
	}
	return nil
}

// Validate runs the privacy engine over the request datasets.
func (v *PrivacyValidator) Validate(ctx context.Context, req *models.EvaluationRequest) (*models.EvaluationResult, error) {
	if err := v.ValidateParameters(req); err != nil {
		return nil, err
	}

	v.logger.WithFields(logrus.Fields{
		"request_id":     req.ID,
		"original_rows":  req.Original.NumRows(),
		"synthetic_rows": req.Synthetic.NumRows(),
	}).Info("Starting privacy validation")

	start := time.Now()
	report, err := v.EvaluatePrivacy(ctx, req.Original, req.Synthetic)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	v.logger.WithFields(logrus.Fields{
		"request_id":     req.ID,
		"sample_size":    report.SampleSize,
		"dcr_holdout":    report.DCRHoldout,
		"dcr_synthetic":  report.DCRSynthetic,
		"nndr_holdout":   report.NNDRHoldout,
		"nndr_synthetic": report.NNDRSynthetic,
		"duration":       duration,
	}).Info("Privacy validation completed")

	return &models.EvaluationResult{
		ID:            req.ID,
		ValidatorType: v.GetType(),
		Privacy:       report,
		Duration:      duration,
		EvaluatedAt:   time.Now(),
	}, nil
}

// EvaluatePrivacy partitions the original into disjoint reference and
// holdout samples, encodes all three record groups with one jointly
// fitted encoder, and compares nearest-neighbor distance quantiles of
// the holdout and synthetic queries against the reference index.
func (v *PrivacyValidator) EvaluatePrivacy(ctx context.Context, original, synthetic *models.Dataset) (*models.PrivacyReport, error) {
	n, err := v.sampleSize(original, synthetic)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(v.config.Seed))
	perm := rng.Perm(original.NumRows())
	reference := original.Subset(perm[:n])
	holdout := original.Subset(perm[n : 2*n])
	synSample := synthetic.Sample(n, rng)

	encoder, err := encoding.Fit(reference, holdout, synSample)
	if err != nil {
		return nil, err
	}
	refVecs, err := encoder.Transform(reference)
	if err != nil {
		return nil, err
	}
	holdVecs, err := encoder.Transform(holdout)
	if err != nil {
		return nil, err
	}
	synVecs, err := encoder.Transform(synSample)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index := knn.NewIndex(refVecs)
	holdNeighbors, err := index.Query(holdVecs, constants.NeighborCount)
	if err != nil {
		return nil, err
	}
	synNeighbors, err := index.Query(synVecs, constants.NeighborCount)
	if err != nil {
		return nil, err
	}

	holdDCR, holdNNDR := distanceStats(holdNeighbors)
	synDCR, synNNDR := distanceStats(synNeighbors)

	// The floor keeps the bound positive when reference records are
	// heavily duplicated and the holdout tail distance is zero.
	bound, err := stats.Percentile(holdDCR, constants.BoundQuantile)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeInternal, errors.CodeInternalError, "holdout DCR percentile")
	}
	if bound < constants.DCRNormalizationFloor {
		bound = constants.DCRNormalizationFloor
	}

	report := &models.PrivacyReport{SampleSize: n, NormalizationBound: bound}
	if report.DCRHoldout, err = tailQuantile(scale(holdDCR, 1/bound)); err != nil {
		return nil, err
	}
	if report.DCRSynthetic, err = tailQuantile(scale(synDCR, 1/bound)); err != nil {
		return nil, err
	}
	if report.NNDRHoldout, err = tailQuantile(holdNNDR); err != nil {
		return nil, err
	}
	if report.NNDRSynthetic, err = tailQuantile(synNNDR); err != nil {
		return nil, err
	}
	return report, nil
}

// sampleSize derives the per-group sample size n: each of reference,
// holdout and synthetic gets exactly n records, with reference and
// holdout strictly disjoint halves of the original.
func (v *PrivacyValidator) sampleSize(original, synthetic *models.Dataset) (int, error) {
	n := v.config.SampleSize
	if n == 0 {
		n = original.NumRows() / 2
		if synthetic.NumRows() < n {
			n = synthetic.NumRows()
		}
		if v.config.MaxSamples > 0 && n > v.config.MaxSamples {
			n = v.config.MaxSamples
		}
	}
	if n < constants.NeighborCount {
		return 0, errors.WrapError(errors.ErrInsufficientData, errors.ErrorTypeValidation,
			errors.CodeInsufficientData,
			fmt.Sprintf("privacy evaluation needs at least %d records per partition, derived %d", constants.NeighborCount, n))
	}
	if original.NumRows() < 2*n {
		return 0, errors.WrapError(errors.ErrInsufficientData, errors.ErrorTypeValidation,
			errors.CodeInsufficientData,
			fmt.Sprintf("original has %d records, disjoint reference/holdout partitions need %d", original.NumRows(), 2*n))
	}
	if synthetic.NumRows() < n {
		return 0, errors.WrapError(errors.ErrInsufficientData, errors.ErrorTypeValidation,
			errors.CodeInsufficientData,
			fmt.Sprintf("synthetic has %d records, sample size is %d", synthetic.NumRows(), n))
	}
	return n, nil
}

// distanceStats extracts per-query DCR (squared rank-1 distance) and NNDR
// (rank-1 over rank-2 distance). When both ranks are zero the query sits
// on duplicated reference records and the ratio is taken as 1.
func distanceStats(neighbors [][]float64) (dcr, nndr []float64) {
	dcr = make([]float64, len(neighbors))
	nndr = make([]float64, len(neighbors))
	for i, dists := range neighbors {
		dcr[i] = dists[0]
		if dists[1] > 0 {
			nndr[i] = dists[0] / dists[1]
		} else {
			nndr[i] = 1
		}
	}
	return dcr, nndr
}

func scale(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out
}

func tailQuantile(values []float64) (float64, error) {
	q, err := stats.Percentile(values, constants.TailQuantile)
	if err != nil {
		return 0, errors.WrapError(err, errors.ErrorTypeInternal, errors.CodeInternalError, "tail percentile")
	}
	return q, nil
}

// Close cleans up resources
func (v *PrivacyValidator) Close() error {
	return nil
}

func getDefaultPrivacyValidatorConfig() *PrivacyValidatorConfig {
	return &PrivacyValidatorConfig{
		MaxSamples: constants.DefaultPrivacyMaxSamples,
		Seed:       constants.DefaultSeed,
	}
}
