// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/covenant-tracker/pkg/types"
)

var trackCmd = &cobra.Command{
	Use:   "track <document>",
	Short: "Report compliance status and headline alerts for an agreement",
	Long: `Track runs the same analysis as extract but reports from the
compliance angle: per-status counts, the portfolio risk index, and the
obligations that are missed or due soon as of the reference date.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func runTrack(cmd *cobra.Command, args []string) error {
	res, err := runPipeline(cmd, args[0])
	if err != nil {
		return err
	}

	s := res.Summary
	fmt.Printf("Obligations: %d  (risk index %.1f)\n", s.Total, s.RiskIndex)
	for _, st := range []types.ComplianceStatus{
		types.StatusMissed, types.StatusDueSoon, types.StatusCompliant, types.StatusNotApplicable,
	} {
		if n := s.ByStatus[st]; n > 0 {
			fmt.Printf("  %-14s %d\n", st, n)
		}
	}

	if !s.HasAlerts() {
		fmt.Println("No missed or upcoming deadlines.")
		return nil
	}

	fmt.Println("\nAlerts:")
	for _, ob := range res.Obligations {
		if ob.Status != types.StatusMissed && ob.Status != types.StatusDueSoon {
			continue
		}
		desc := ob.Description
		if len(desc) > 70 {
			desc = desc[:67] + "..."
		}
		fmt.Printf("  [%s] %s: %s\n", ob.Status, ob.Category, desc)
	}
	return nil
}

func init() {
	addPipelineFlags(trackCmd)

	rootCmd.AddCommand(trackCmd)
}
