package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/blend/pkg/errors"
)

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "blend",
	Short: "Out-of-fold blended regression ensembles",
	Long: `blend fits a stacked ensemble on a CSV file: every base learner is
cross-validated to produce out-of-fold predictions, a meta-model is fitted on
them, and the base learners are refitted on the full data.

The ensemble layout (meta-model, cases, transformers, learners) and the
settings below are read from a YAML file, flags, or BLEND_* variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "layout and settings file (default is ./blend.yaml)")
	pf.String("train", "", "training CSV with a header row")
	pf.String("target", "y", "name of the target column")
	pf.Int("folds", 10, "number of out-of-fold splits")
	pf.Bool("shuffle", true, "shuffle rows before splitting")
	pf.Uint64("seed", 0, "seed of the shuffle permutation")
	pf.Int("workers", 0, "parallel fit units (0 means all CPUs)")
	pf.Bool("tabular", false, "hand the meta-model a named frame")
	pf.CountP("verbose", "v", "log progress (repeat for debug output)")

	for _, name := range []string{"train", "target", "folds", "shuffle", "seed", "workers", "tabular", "verbose"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("blend")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BLEND")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}
}
