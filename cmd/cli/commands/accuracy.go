package commands

import (
	"github.com/spf13/cobra"

	"github.com/inferloop/synthval/pkg/constants"
)

func NewAccuracyCmd() *cobra.Command {
	opts := &EvaluateOptions{}

	cmd := &cobra.Command{
		Use:   "accuracy",
		Short: "Evaluate distributional accuracy only",
		Long: `Compute univariate and bivariate accuracy (1 - Total Variation
Distance over binned columns) without the privacy engine.`,
		Example: `  synthval accuracy --original real.csv --synthetic synth.csv --bins 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts, []string{constants.ValidatorTypeAccuracy})
		},
	}

	addEvaluateFlags(cmd, opts)
	return cmd
}
