package commands

import (
	"github.com/spf13/cobra"

	"github.com/inferloop/synthval/pkg/constants"
)

func NewPrivacyCmd() *cobra.Command {
	opts := &EvaluateOptions{}

	cmd := &cobra.Command{
		Use:   "privacy",
		Short: "Evaluate nearest-neighbor privacy risk only",
		Long: `Compute distance-to-closest-record and nearest-neighbor distance
ratio quantiles for the synthetic data against a holdout baseline,
without the accuracy engine.`,
		Example: `  synthval privacy --original real.csv --synthetic synth.csv --privacy-samples 5000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts, []string{constants.ValidatorTypePrivacy})
		},
	}

	addEvaluateFlags(cmd, opts)
	return cmd
}
