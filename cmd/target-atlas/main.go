// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the target-atlas CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/target-atlas/internal/logging"
	"github.com/pdiddy/target-atlas/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the target-atlas CLI.
var rootCmd = &cobra.Command{
	Use:   "target-atlas",
	Short: "Build approved-drug, drug-target and protein-keyword tables",
	Long: `target-atlas joins the ChEMBL drug registry with UniProt protein annotations.

It runs three stages, each writing one CSV table:
  drugs     approved drugs with their first approval year
  targets   protein accessions targeted by recently approved drugs
  keywords  UniProt keywords for every targeted protein

Each stage reloads the previous stage's table from disk, so stages can be
run one at a time with the matching subcommand, or all at once with run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(logging.Config{
			Level:  viper.GetString("log.level"),
			Pretty: viper.GetBool("log.pretty"),
			Output: os.Stderr,
		})
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./target-atlas.yaml or ~/.config/target-atlas/config.yaml)")
	pf.String("out-dir", ".", "directory for the CSV tables")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Bool("log-pretty", true, "human-readable log output instead of JSON lines")
	pf.String("metrics-file", "", "write Prometheus metrics in textfile format to this path after the run")

	viper.BindPFlag("output.dir", pf.Lookup("out-dir"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.pretty", pf.Lookup("log-pretty"))
	viper.BindPFlag("metrics_file", pf.Lookup("metrics-file"))

	setDefaults(types.DefaultPipelineConfig())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("target-atlas")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "target-atlas"))
		}
	}

	viper.SetEnvPrefix("TARGET_ATLAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
