// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/covenant-tracker/internal/ingest"
	"github.com/pdiddy/covenant-tracker/internal/pipeline"
	"github.com/pdiddy/covenant-tracker/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract scored obligations from a loan agreement",
	Long: `Extract reads a loan agreement (plain text, or PDF via pdftotext),
segments it into clauses, classifies each against the rule table, parses
deadlines, assigns risk scores, and derives compliance status for the
as-of date. Output is a table by default or JSON with --json.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	res, err := runPipeline(cmd, args[0])
	if err != nil {
		return err
	}

	for _, d := range res.Diagnostics {
		fmt.Fprintf(os.Stderr, "diagnostic [%s %d-%d]: %s (%q)\n",
			d.Stage, d.Span.Start, d.Span.End, d.Message, d.SourceText)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printObligations(res.Obligations)
	printSummary(res.Summary)
	return nil
}

// runPipeline builds a pipeline from the command's flags and runs it on the
// document at path.
func runPipeline(cmd *cobra.Command, path string) (pipeline.Result, error) {
	cfg, err := loadPipelineConfig(cmd)
	if err != nil {
		return pipeline.Result{}, err
	}
	asOf, err := asOfDate(cmd)
	if err != nil {
		return pipeline.Result{}, err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return pipeline.Result{}, err
	}

	text, err := ingest.FromFile(path)
	if err != nil {
		return pipeline.Result{}, err
	}

	return p.Run(text, asOf)
}

func printObligations(obs []types.Obligation) {
	if len(obs) == 0 {
		fmt.Println("No obligations found.")
		return
	}

	fmt.Printf("%-22s  %-10s  %-6s  %-5s  %-14s  %s\n",
		"Category", "Frequency", "Score", "Tier", "Status", "Description")
	fmt.Println(strings.Repeat("-", 110))
	for _, ob := range obs {
		desc := ob.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		fmt.Printf("%-22s  %-10s  %-6d  %-5s  %-14s  %s\n",
			ob.Category, ob.Frequency, ob.RiskScore, ob.RiskTier, ob.Status, desc)
	}
}

func printSummary(s types.PortfolioSummary) {
	fmt.Printf("\n%d obligation(s), risk index %.1f", s.Total, s.RiskIndex)
	if s.HasAlerts() {
		fmt.Printf(" (%d missed, %d due soon)", s.Missed, s.DueSoon)
	}
	fmt.Println()
}

func init() {
	addPipelineFlags(extractCmd)
	extractCmd.Flags().Bool("json", false, "emit the full result as JSON")

	rootCmd.AddCommand(extractCmd)
}
