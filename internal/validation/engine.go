package validation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inferloop/synthval/pkg/constants"
	"github.com/inferloop/synthval/pkg/errors"
	"github.com/inferloop/synthval/pkg/interfaces"
	"github.com/inferloop/synthval/pkg/models"
)

// EngineConfig configures the evaluation engine and its validators.
type EngineConfig struct {
	Validators []string                 `json:"validators"`
	Accuracy   *AccuracyValidatorConfig `json:"accuracy"`
	Privacy    *PrivacyValidatorConfig  `json:"privacy"`
}

// Engine orchestrates the metric validators over one original/synthetic
// dataset pair. Validators run sequentially; the whole evaluation is a
// single deterministic pass.
type Engine struct {
	config     *EngineConfig
	logger     *logrus.Logger
	validators map[string]interfaces.Validator
}

// NewEngine creates an evaluation engine with the configured validators
// registered.
func NewEngine(config *EngineConfig, logger *logrus.Logger) *Engine {
	if config == nil {
		config = getDefaultEngineConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	engine := &Engine{
		config:     config,
		logger:     logger,
		validators: make(map[string]interfaces.Validator),
	}
	for _, validatorType := range config.Validators {
		switch validatorType {
		case constants.ValidatorTypeAccuracy:
			engine.validators[validatorType] = NewAccuracyValidator(config.Accuracy, logger)
		case constants.ValidatorTypePrivacy:
			engine.validators[validatorType] = NewPrivacyValidator(config.Privacy, logger)
		default:
			logger.Warnf("Unknown validator type: %s", validatorType)
		}
	}
	return engine
}

// RegisterValidator adds or replaces a validator.
func (e *Engine) RegisterValidator(validatorType string, validator interfaces.Validator) error {
	if validator == nil {
		return errors.NewUsageError(errors.CodeInvalidConfiguration, "validator cannot be nil")
	}
	e.validators[validatorType] = validator
	e.logger.WithField("validator", validatorType).Info("Validator registered")
	return nil
}

// GetRegisteredValidators returns the registered validator types.
func (e *Engine) GetRegisteredValidators() []string {
	validators := make([]string, 0, len(e.validators))
	for validatorType := range e.validators {
		validators = append(validators, validatorType)
	}
	sort.Strings(validators)
	return validators
}

// Evaluate runs the requested validators (all registered ones when none
// are named) against the dataset pair and assembles a combined summary.
// Any validator failure aborts the run; no partial report is returned.
func (e *Engine) Evaluate(ctx context.Context, original, synthetic *models.Dataset, validators []string) (*models.EvaluationSummary, error) {
	if original == nil || original.NumRows() == 0 {
		return nil, errors.WrapError(errors.ErrEmptyDataset, errors.ErrorTypeValidation,
			errors.CodeEmptyDataset, "original dataset is empty")
	}
	if synthetic == nil || synthetic.NumRows() == 0 {
		return nil, errors.WrapError(errors.ErrEmptyDataset, errors.ErrorTypeValidation,
			errors.CodeEmptyDataset, "synthetic dataset is empty")
	}
	if err := CheckSchema(original, synthetic); err != nil {
		return nil, err
	}

	if len(validators) == 0 {
		validators = e.GetRegisteredValidators()
	}

	req := &models.EvaluationRequest{
		ID:         uuid.New().String(),
		Original:   original,
		Synthetic:  synthetic,
		Validators: validators,
	}

	e.logger.WithFields(logrus.Fields{
		"request_id":     req.ID,
		"original_rows":  original.NumRows(),
		"synthetic_rows": synthetic.NumRows(),
		"validators":     validators,
	}).Info("Starting evaluation")

	start := time.Now()
	summary := &models.EvaluationSummary{
		ID:            req.ID,
		OriginalRows:  original.NumRows(),
		SyntheticRows: synthetic.NumRows(),
		Results:       make(map[string]*models.EvaluationResult, len(validators)),
	}

	for _, validatorType := range validators {
		validator, ok := e.validators[validatorType]
		if !ok {
			return nil, errors.WrapError(errors.ErrValidatorNotFound, errors.ErrorTypeUsage,
				errors.CodeValidatorNotFound, fmt.Sprintf("validator %q is not registered", validatorType))
		}
		result, err := validator.Validate(ctx, req)
		if err != nil {
			return nil, err
		}
		summary.Results[validatorType] = result
		if result.Accuracy != nil {
			summary.Accuracy = result.Accuracy
		}
		if result.Privacy != nil {
			summary.Privacy = result.Privacy
		}
	}

	summary.Duration = time.Since(start)
	summary.EvaluatedAt = time.Now()

	e.logger.WithFields(logrus.Fields{
		"request_id": req.ID,
		"validators": len(summary.Results),
		"duration":   summary.Duration,
	}).Info("Evaluation completed")

	return summary, nil
}

// Close closes all registered validators.
func (e *Engine) Close() error {
	for _, validator := range e.validators {
		if err := validator.Close(); err != nil {
			return err
		}
	}
	return nil
}

// CheckSchema verifies that the synthetic dataset carries every column of
// the original. Extra synthetic columns are ignored; the original defines
// the schema.
func CheckSchema(original, synthetic *models.Dataset) error {
	var missing []string
	for _, name := range original.ColumnNames() {
		if !synthetic.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.WrapError(errors.ErrSchemaMismatch, errors.ErrorTypeValidation,
			errors.CodeSchemaMismatch, fmt.Sprintf("synthetic dataset is missing columns %v", missing))
	}
	return nil
}

func getDefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Validators: []string{constants.ValidatorTypeAccuracy, constants.ValidatorTypePrivacy},
	}
}
