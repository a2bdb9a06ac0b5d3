package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/regquant/drcsa/config"
)

var rootCmd = &cobra.Command{
	Use:   "drcsa",
	Short: "Default Risk Charge (standardised approach) calculator",
	Long: `drcsa computes the jump-to-default component of a Default Risk Charge
for scenarios of exposures under a named regulatory policy, and compares
alternate scenarios against a baseline.

Policy bundles are YAML directories under the regdata path; every loaded
artefact is content-hashed so exported results carry their own lineage.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	cfgPath     string
	regdataPath string
	logLevel    string

	cfg *config.Config
	log zerolog.Logger
)

// Execute runs the root command tree.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (YAML or JSON, optional)")
	rootCmd.PersistentFlags().StringVar(&regdataPath, "regdata", "", "policy bundle base directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			cfg, err = config.LoadFromFile(cfgPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}
		if regdataPath != "" {
			cfg.Regdata = regdataPath
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		level, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		if cfg.Log.Console {
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
		} else {
			log = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
		}
		return nil
	}
}
