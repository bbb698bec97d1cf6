// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the covenant-tracker CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the covenant-tracker CLI.
var rootCmd = &cobra.Command{
	Use:   "covenant-tracker",
	Short: "Extract and track borrower obligations from loan agreements",
	Long: `covenant-tracker extracts structured borrower obligations (financial
covenants, reporting duties, notification requirements) from loan agreement
text, scores each for risk, and derives compliance status against an as-of
date.

The pipeline is deterministic and rule-based: classification, deadlines, and
scoring all come from configurable pattern tables, so rule sets can be tuned
without code changes. Analysis itself is stateless; the store subcommand
persists run history on the side.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./covenant-tracker.yaml or ~/.config/covenant-tracker/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("covenant-tracker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "covenant-tracker"))
		}
	}

	viper.SetEnvPrefix("COVENANT_TRACKER")
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
