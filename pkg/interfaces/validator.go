package interfaces

import (
	"context"

	"github.com/inferloop/synthval/pkg/models"
)

// Validator is implemented by the metric engines that score a synthetic
// dataset against its original.
type Validator interface {
	// GetType returns the validator type identifier
	GetType() string

	// GetName returns a human-readable name for the validator
	GetName() string

	// GetDescription returns a description of the validator
	GetDescription() string

	// ValidateParameters checks the request before any computation
	ValidateParameters(req *models.EvaluationRequest) error

	// Validate scores the synthetic dataset against the original
	Validate(ctx context.Context, req *models.EvaluationRequest) (*models.EvaluationResult, error)

	// Close cleans up resources
	Close() error
}
