// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/covenant-tracker/pkg/types"
)

const dateLayout = "2006-01-02"

// loadPipelineConfig assembles the pipeline configuration: built-in
// defaults, overlaid with a rules file if one is given, with anchor dates
// and the due-soon window overridable by flags.
func loadPipelineConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	cfg := types.DefaultConfig()

	rulesPath, _ := cmd.Flags().GetString("rules")
	if rulesPath == "" {
		rulesPath = viper.GetString("rules")
	}
	if rulesPath != "" {
		data, err := os.ReadFile(rulesPath)
		if err != nil {
			return cfg, fmt.Errorf("reading rules file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing rules file %s: %w", rulesPath, err)
		}
	}

	if v, _ := cmd.Flags().GetString("agreement-date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return cfg, fmt.Errorf("invalid --agreement-date %q: want YYYY-MM-DD", v)
		}
		cfg.Deadline.AgreementDate = t
	}
	if v, _ := cmd.Flags().GetString("fiscal-year-end"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return cfg, fmt.Errorf("invalid --fiscal-year-end %q: want YYYY-MM-DD", v)
		}
		cfg.Deadline.FiscalYearEnd = t
	}
	if cmd.Flags().Changed("window") {
		w, _ := cmd.Flags().GetInt("window")
		cfg.Compliance.DueSoonWindowDays = w
	}

	return cfg, nil
}

// asOfDate parses the --as-of flag, defaulting to today.
func asOfDate(cmd *cobra.Command) (time.Time, error) {
	v, _ := cmd.Flags().GetString("as-of")
	if v == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: want YYYY-MM-DD", v)
	}
	return t, nil
}

// addPipelineFlags registers the flags shared by commands that run the
// analysis pipeline.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("rules", "", "YAML rules file overriding the built-in tables")
	cmd.Flags().String("as-of", "", "reference date for compliance status (YYYY-MM-DD, default today)")
	cmd.Flags().String("agreement-date", "", "agreement/closing date anchor (YYYY-MM-DD)")
	cmd.Flags().String("fiscal-year-end", "", "fiscal year end anchor (YYYY-MM-DD)")
	cmd.Flags().Int("window", 14, "due-soon window in calendar days")
}
