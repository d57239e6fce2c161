// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/starsession/internal/logging"
	"github.com/tomtom215/starsession/internal/recommend/evaluation"
)

type evaluateFlags struct {
	data      string
	k         int
	batchSize int
	workers   int
	asJSON    bool
}

func (a *app) newEvaluateCmd() *cobra.Command {
	f := &evaluateFlags{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a holdout session file",
		Long: `Evaluate ranks every item for each holdout session and reports
HR@K and MRR@K in percent, the popularity bias phi and the mean
cross-entropy loss.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runEvaluate(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.data, "data", "", "holdout JSON-lines file (default: data.test_path)")
	cmd.Flags().IntVar(&f.k, "k", 0, "ranking cutoff (default: evaluation.k)")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "sessions per forward pass (default: evaluation.batch_size)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent batches (default: evaluation.workers)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (a *app) runEvaluate(cmd *cobra.Command, f *evaluateFlags) error {
	cfg := *a.cfg
	if f.data != "" {
		cfg.Data.TestPath = f.data
	}
	if cfg.Data.TestPath == "" {
		return fmt.Errorf("no holdout data: pass --data or set DATA_TEST_PATH")
	}
	if f.k > 0 {
		cfg.Evaluation.K = f.k
	}
	if f.batchSize > 0 {
		cfg.Evaluation.BatchSize = f.batchSize
	}
	if f.workers > 0 {
		cfg.Evaluation.Workers = f.workers
	}

	comps, err := initEngine(&cfg, logging.Logger())
	if err != nil {
		return err
	}

	result, err := comps.Engine.Evaluate(cmd.Context(), comps.Holdout)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if f.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

func printResult(w io.Writer, r evaluation.Result) {
	_, _ = fmt.Fprintf(w, "sessions  %d\n", r.Sessions)
	_, _ = fmt.Fprintf(w, "HR@%-5d  %.4f\n", r.K, r.HitRate)
	_, _ = fmt.Fprintf(w, "MRR@%-4d  %.4f\n", r.K, r.MRR)
	_, _ = fmt.Fprintf(w, "phi       %.4f\n", r.Phi)
	_, _ = fmt.Fprintf(w, "loss      %.4f\n", r.Loss)
}
