// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/covenant-tracker/internal/store"
	"github.com/pdiddy/covenant-tracker/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the run history database (ingest, runs, retrieve, export)",
	Long: `Store persists analysis runs in a local SQLite database. The
analysis pipeline itself is stateless; store is the collaborator that
keeps history so runs can be compared and filtered across sessions.`,
}

// openStore opens the database named by --db or the config file.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = viper.GetString("db")
	}
	if path == "" {
		path = "covenant-tracker.db"
	}
	return store.Open(path)
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest <document>",
	Short: "Run the pipeline on a document and persist the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	res, err := runPipeline(cmd, args[0])
	if err != nil {
		return err
	}

	asOf, err := asOfDate(cmd)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.SaveRun(context.Background(), filepath.Base(args[0]), asOf, res)
	if err != nil {
		return err
	}
	fmt.Printf("Stored run %d: %d obligation(s), %d missed, %d due soon\n",
		runID, res.Summary.Total, res.Summary.Missed, res.Summary.DueSoon)
	return nil
}

// --- runs subcommand ---

var storeRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs, newest first",
	RunE:  runStoreRuns,
}

func runStoreRuns(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs stored yet.")
		return nil
	}

	fmt.Printf("%-4s  %-30s  %-10s  %-5s  %-6s  %-8s  %s\n",
		"ID", "Document", "As-of", "Total", "Missed", "DueSoon", "RiskIdx")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Printf("%-4d  %-30s  %-10s  %-5d  %-6d  %-8d  %.1f\n",
			r.ID, r.Document, r.AsOf, r.Total, r.Missed, r.DueSoon, r.RiskIndex)
	}
	return nil
}

// --- retrieve subcommand ---

var storeRetrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Query stored obligations with structured filters",
	Long: `Retrieve queries a stored run (the latest by default) with
category, tier, and status filters, e.g. the high-risk obligations or the
ones currently due soon.`,
	RunE: runStoreRetrieve,
}

func runStoreRetrieve(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	results, err := s.Retrieve(context.Background(), f)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	obs := make([]types.Obligation, len(results))
	for i, r := range results {
		obs[i] = r.Obligation
	}
	printObligations(obs)
	return nil
}

func filterFromFlags(cmd *cobra.Command) (store.Filter, error) {
	var f store.Filter
	f.RunID, _ = cmd.Flags().GetInt64("run")
	f.Limit, _ = cmd.Flags().GetInt("limit")

	if v, _ := cmd.Flags().GetString("category"); v != "" {
		f.Category = types.ObligationCategory(v)
	}
	if v, _ := cmd.Flags().GetString("tier"); v != "" {
		f.Tier = types.RiskTier(v)
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		f.Status = types.ComplianceStatus(v)
	}
	return f, nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run as JSON",
	RunE:  runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runID, _ := cmd.Flags().GetInt64("run")
	outPath, _ := cmd.Flags().GetString("output")

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	return s.Export(context.Background(), runID, out)
}

func init() {
	storeCmd.PersistentFlags().String("db", "", "SQLite database path (default: covenant-tracker.db)")

	addPipelineFlags(storeIngestCmd)

	storeRetrieveCmd.Flags().Int64("run", 0, "run ID (default: latest)")
	storeRetrieveCmd.Flags().String("category", "", "filter by obligation category")
	storeRetrieveCmd.Flags().String("tier", "", "filter by risk tier (low, medium, high)")
	storeRetrieveCmd.Flags().String("status", "", "filter by compliance status")
	storeRetrieveCmd.Flags().Int("limit", 0, "maximum results")
	storeRetrieveCmd.Flags().Bool("json", false, "emit results as JSON")

	storeExportCmd.Flags().Int64("run", 0, "run ID (default: latest)")
	storeExportCmd.Flags().String("output", "", "write to file instead of stdout")

	storeCmd.AddCommand(storeIngestCmd, storeRunsCmd, storeRetrieveCmd, storeExportCmd)
	rootCmd.AddCommand(storeCmd)
}
