package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inferloop/synthval/cmd/cli/commands"
	"github.com/inferloop/synthval/pkg/constants"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Synthetic tabular data fidelity and privacy evaluator",
		Long: `Evaluates a synthetic tabular dataset against the original it was
derived from: distributional accuracy over binned columns and column
pairs, and nearest-neighbor privacy risk against a holdout baseline.`,
		Version: constants.AppVersion,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.synthval.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Initialize Viper
	cobra.OnInitialize(initConfig)

	// Add commands
	rootCmd.AddCommand(commands.NewEvaluateCmd())
	rootCmd.AddCommand(commands.NewAccuracyCmd())
	rootCmd.AddCommand(commands.NewPrivacyCmd())

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".synthval")
	}

	viper.SetEnvPrefix("SYNTHVAL")
	viper.AutomaticEnv()
	viper.Set("verbose", verbose)

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
