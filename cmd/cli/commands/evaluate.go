package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inferloop/synthval/cmd/cli/config"
	"github.com/inferloop/synthval/internal/loader"
	"github.com/inferloop/synthval/internal/report"
	"github.com/inferloop/synthval/internal/validation"
	"github.com/inferloop/synthval/pkg/constants"
)

type EvaluateOptions struct {
	OriginalFile   string
	SyntheticFile  string
	Bins           int
	Seed           int64
	MaxRecords     int
	PrivacySamples int
	PairGrids      bool
	OutputFormat   string
	OutputFile     string
}

func NewEvaluateCmd() *cobra.Command {
	opts := &EvaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate synthetic data accuracy and privacy",
		Long: `Evaluate a synthetic tabular dataset against its original: binned
distributional accuracy plus nearest-neighbor privacy risk.`,
		Example: `  # Full evaluation
  synthval evaluate --original real.csv --synthetic synth.csv

  # JSON report with custom binning
  synthval evaluate -O real.csv -S synth.csv --bins 20 --format json --output report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts, nil)
		},
	}

	addEvaluateFlags(cmd, opts)
	return cmd
}

func addEvaluateFlags(cmd *cobra.Command, opts *EvaluateOptions) {
	cmd.Flags().StringVarP(&opts.OriginalFile, "original", "O", "", "Original dataset CSV (required)")
	cmd.Flags().StringVarP(&opts.SyntheticFile, "synthetic", "S", "", "Synthetic dataset CSV (required)")
	cmd.Flags().IntVar(&opts.Bins, "bins", constants.DefaultBins, "Quantile bins / top categories per column")
	cmd.Flags().Int64Var(&opts.Seed, "seed", constants.DefaultSeed, "Random seed for subsampling")
	cmd.Flags().IntVar(&opts.MaxRecords, "max-records", constants.DefaultAccuracyMaxRecords, "Per-dataset row cap for accuracy")
	cmd.Flags().IntVar(&opts.PrivacySamples, "privacy-samples", constants.DefaultPrivacyMaxSamples, "Per-group sample cap for privacy")
	cmd.Flags().BoolVar(&opts.PairGrids, "pair-grids", false, "Include per-pair frequency grids in the report")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "", "Report format (text, json)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file for report (- for stdout)")

	cmd.MarkFlagRequired("original")
	cmd.MarkFlagRequired("synthetic")
}

func runEvaluate(cmd *cobra.Command, opts *EvaluateOptions, validators []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	applyConfigDefaults(cmd, opts, cfg)

	logger := newLogger()

	original, err := loader.LoadCSV(opts.OriginalFile)
	if err != nil {
		return fmt.Errorf("failed to load original data: %w", err)
	}
	synthetic, err := loader.LoadCSV(opts.SyntheticFile)
	if err != nil {
		return fmt.Errorf("failed to load synthetic data: %w", err)
	}

	engine := validation.NewEngine(&validation.EngineConfig{
		Validators: []string{constants.ValidatorTypeAccuracy, constants.ValidatorTypePrivacy},
		Accuracy: &validation.AccuracyValidatorConfig{
			Bins:             opts.Bins,
			MaxRecords:       opts.MaxRecords,
			Seed:             opts.Seed,
			IncludePairGrids: opts.PairGrids,
		},
		Privacy: &validation.PrivacyValidatorConfig{
			MaxSamples: opts.PrivacySamples,
			Seed:       opts.Seed,
		},
	}, logger)
	defer engine.Close()

	summary, err := engine.Evaluate(context.Background(), original, synthetic, validators)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	return report.Write(summary, opts.OutputFormat, opts.OutputFile)
}

// applyConfigDefaults lets the config file and environment supply values
// for flags the user did not set on the command line.
func applyConfigDefaults(cmd *cobra.Command, opts *EvaluateOptions, cfg *config.CLIConfig) {
	if !cmd.Flags().Changed("bins") {
		opts.Bins = cfg.Bins
	}
	if !cmd.Flags().Changed("seed") {
		opts.Seed = cfg.Seed
	}
	if !cmd.Flags().Changed("max-records") {
		opts.MaxRecords = cfg.AccuracyMaxRecords
	}
	if !cmd.Flags().Changed("privacy-samples") {
		opts.PrivacySamples = cfg.PrivacyMaxSamples
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = cfg.OutputFormat
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	if viper.GetBool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}
