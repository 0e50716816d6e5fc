package models

import "time"

// AccuracyRecord is the accuracy of one column or one column pair:
// Accuracy = 1 - TVD over the binned label space.
type AccuracyRecord struct {
	Column   string  `json:"column"`
	Column2  string  `json:"column2,omitempty"`
	TVD      float64 `json:"tvd"`
	Accuracy float64 `json:"accuracy"`
}

// ColumnAccuracy summarizes one column: its univariate accuracy and the
// mean bivariate accuracy across all pairs involving the column.
type ColumnAccuracy struct {
	Column     string  `json:"column"`
	Univariate float64 `json:"univariate_accuracy"`
	Bivariate  float64 `json:"bivariate_accuracy"`
}

// PairGrid carries the joint frequency grids of one column pair for the
// external plotting collaborator. Grids are indexed [row][col] over the
// outer-joined label spaces of both datasets.
type PairGrid struct {
	Column        string      `json:"column"`
	Column2       string      `json:"column2"`
	RowLabels     []string    `json:"row_labels"`
	ColumnLabels  []string    `json:"column_labels"`
	Original      [][]float64 `json:"original"`
	Synthetic     [][]float64 `json:"synthetic"`
	OriginalByRow [][]float64 `json:"original_by_row"`
	SyntheticByRow [][]float64 `json:"synthetic_by_row"`
}

// AccuracyReport is the full output of the accuracy engine.
type AccuracyReport struct {
	Univariate     []AccuracyRecord `json:"univariate"`
	Bivariate      []AccuracyRecord `json:"bivariate"`
	Columns        []ColumnAccuracy `json:"columns"`
	UnivariateMean float64          `json:"univariate_mean"`
	BivariateMean  float64          `json:"bivariate_mean"`
	Overall        float64          `json:"overall"`
	PairGrids      []*PairGrid      `json:"pair_grids,omitempty"`
	OriginalRows   int              `json:"original_rows"`
	SyntheticRows  int              `json:"synthetic_rows"`
	Bins           int              `json:"bins"`
}

// PrivacyReport is the full output of the privacy engine. DCR figures are
// 5th percentiles of squared nearest-neighbor distances normalized by the
// holdout 95th percentile; NNDR figures are 5th percentiles of the
// nearest to second-nearest distance ratio.
type PrivacyReport struct {
	SampleSize         int     `json:"sample_size"`
	DCRHoldout         float64 `json:"dcr_holdout"`
	DCRSynthetic       float64 `json:"dcr_synthetic"`
	NNDRHoldout        float64 `json:"nndr_holdout"`
	NNDRSynthetic      float64 `json:"nndr_synthetic"`
	NormalizationBound float64 `json:"normalization_bound"`
}

// EvaluationRequest asks the engine to evaluate a synthetic dataset
// against its original.
type EvaluationRequest struct {
	ID         string   `json:"id"`
	Original   *Dataset `json:"-"`
	Synthetic  *Dataset `json:"-"`
	Validators []string `json:"validators,omitempty"`
}

// EvaluationResult is the output of a single validator.
type EvaluationResult struct {
	ID            string          `json:"id"`
	ValidatorType string          `json:"validator_type"`
	Accuracy      *AccuracyReport `json:"accuracy,omitempty"`
	Privacy       *PrivacyReport  `json:"privacy,omitempty"`
	Duration      time.Duration   `json:"duration"`
	EvaluatedAt   time.Time       `json:"evaluated_at"`
}

// EvaluationSummary combines the results of all validators in one run.
type EvaluationSummary struct {
	ID            string                       `json:"id"`
	OriginalRows  int                          `json:"original_rows"`
	SyntheticRows int                          `json:"synthetic_rows"`
	Results       map[string]*EvaluationResult `json:"results"`
	Accuracy      *AccuracyReport              `json:"accuracy,omitempty"`
	Privacy       *PrivacyReport               `json:"privacy,omitempty"`
	Duration      time.Duration                `json:"duration"`
	EvaluatedAt   time.Time                    `json:"evaluated_at"`
}
