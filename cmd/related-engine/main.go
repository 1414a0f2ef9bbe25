// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the related-engine CLI.
// Subcommands cover the ranking entry point (related), share
// maintenance on the bundled provider (share), cache invalidation
// (cache flush), and the HTTP front-end (serve).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/related-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the related-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "related-engine",
	Short: "Rank resources shared with the same audience as a seed item",
	Long: `related-engine discovers resources likely to interest the same people as
a given item, based purely on sharing relationships. Providers adapt each
resource type into a common shape; the engine fans out across them,
keeps candidates shared with exactly the seed's audience, scores them
through a weighting pipeline, and returns the best matches.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./related-engine.yaml or ~/.config/related-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("related-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "related-engine"))
		}
	}

	viper.SetEnvPrefix("RELATED_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig unmarshals the viper state into the engine configuration,
// applies defaults, and validates.
func loadConfig() (types.EngineConfig, error) {
	var cfg types.EngineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
