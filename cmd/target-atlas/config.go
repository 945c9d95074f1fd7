// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/target-atlas/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration a run would use after merging defaults,
the config file, TARGET_ATLAS_* environment variables and flags. The output
is a valid target-atlas.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(loadConfig())
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// setDefaults registers every config key with viper so environment
// variables and config files can override it.
func setDefaults(d types.PipelineConfig) {
	viper.SetDefault("collect.base_url", d.Collect.BaseURL)
	viper.SetDefault("collect.timeout", d.Collect.Timeout)
	viper.SetDefault("collect.user_agent", d.Collect.UserAgent)
	viper.SetDefault("collect.max_phase", d.Collect.MaxPhase)
	viper.SetDefault("collect.page_size", d.Collect.PageSize)

	viper.SetDefault("join.year_cutoff", d.Join.YearCutoff)

	viper.SetDefault("enrich.base_url", d.Enrich.BaseURL)
	viper.SetDefault("enrich.timeout", d.Enrich.Timeout)
	viper.SetDefault("enrich.user_agent", d.Enrich.UserAgent)
	viper.SetDefault("enrich.concurrency", d.Enrich.Concurrency)

	viper.SetDefault("output.dir", d.Output.Dir)
	viper.SetDefault("output.drugs_file", d.Output.DrugsFile)
	viper.SetDefault("output.targets_file", d.Output.TargetsFile)
	viper.SetDefault("output.keywords_file", d.Output.KeywordsFile)
}

// loadConfig builds the pipeline configuration from viper.
func loadConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Collect: types.CollectConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("collect.timeout"),
				UserAgent: viper.GetString("collect.user_agent"),
			},
			BaseURL:  viper.GetString("collect.base_url"),
			MaxPhase: viper.GetInt("collect.max_phase"),
			PageSize: viper.GetInt("collect.page_size"),
		},
		Join: types.JoinConfig{
			YearCutoff: viper.GetInt("join.year_cutoff"),
		},
		Enrich: types.EnrichConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("enrich.timeout"),
				UserAgent: viper.GetString("enrich.user_agent"),
			},
			BaseURL:     viper.GetString("enrich.base_url"),
			Concurrency: viper.GetInt("enrich.concurrency"),
		},
		Output: types.OutputConfig{
			Dir:          viper.GetString("output.dir"),
			DrugsFile:    viper.GetString("output.drugs_file"),
			TargetsFile:  viper.GetString("output.targets_file"),
			KeywordsFile: viper.GetString("output.keywords_file"),
		},
	}
}

// bindFlags binds a command's flags to config keys. It is called from RunE
// so that only the running command's flags are bound.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}
