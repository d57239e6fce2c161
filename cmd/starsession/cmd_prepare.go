// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/starsession/internal/logging"
	"github.com/tomtom215/starsession/internal/recommend/dataset"
)

type prepareFlags struct {
	events       string
	trainOut     string
	testOut      string
	vocabOut     string
	testFraction float64
	gap          time.Duration
	minLength    int
}

func (a *app) newPrepareCmd() *cobra.Command {
	f := &prepareFlags{}
	defaults := dataset.DefaultSessionizeOptions()
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Build train and test session files from click events",
		Long: `Prepare groups JSON-lines click events into sessions, splits them
chronologically into train and test, maps raw item ids onto a dense
vocabulary learned from the train split and expands every session into
(prefix, next item) examples.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrepare(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.events, "events", "", "JSON-lines click events (required)")
	cmd.Flags().StringVar(&f.trainOut, "train-out", "train.jsonl", "training sessions output")
	cmd.Flags().StringVar(&f.testOut, "test-out", "test.jsonl", "test sessions output")
	cmd.Flags().StringVar(&f.vocabOut, "vocab-out", "", "optional dense-to-raw id mapping output")
	cmd.Flags().Float64Var(&f.testFraction, "test-fraction", 0.1, "share of the latest sessions held out")
	cmd.Flags().DurationVar(&f.gap, "gap", defaults.Gap, "inactivity gap that starts a new session")
	cmd.Flags().IntVar(&f.minLength, "min-length", defaults.MinLength, "drop shorter sessions")
	_ = cmd.MarkFlagRequired("events")
	return cmd
}

// prepared is the output of prepareSessions.
type prepared struct {
	Train    []dataset.Session
	Test     []dataset.Session
	Vocab    *dataset.Vocabulary
	Sessions int
}

// prepareSessions sessionizes events, holds out the latest testFraction of
// sessions and augments both splits. Test items unseen in train are
// dropped.
func prepareSessions(events []dataset.Event, opts dataset.SessionizeOptions, testFraction float64) (*prepared, error) {
	if testFraction < 0 || testFraction >= 1 {
		return nil, fmt.Errorf("test fraction must be in [0, 1), got %v", testFraction)
	}

	sequences := dataset.Sessionize(events, opts)
	if len(sequences) == 0 {
		return nil, fmt.Errorf("no sessions with at least %d events", opts.MinLength)
	}
	cut := len(sequences) - int(math.Round(testFraction*float64(len(sequences))))

	vocab := dataset.NewVocabulary()
	trainSeqs := make([][]int, 0, cut)
	for _, seq := range sequences[:cut] {
		trainSeqs = append(trainSeqs, vocab.Encode(seq, true))
	}
	testSeqs := make([][]int, 0, len(sequences)-cut)
	for _, seq := range sequences[cut:] {
		if encoded := vocab.Encode(seq, false); len(encoded) >= 2 {
			testSeqs = append(testSeqs, encoded)
		}
	}

	return &prepared{
		Train:    dataset.Augment(trainSeqs),
		Test:     dataset.Augment(testSeqs),
		Vocab:    vocab,
		Sessions: len(sequences),
	}, nil
}

func runPrepare(cmd *cobra.Command, f *prepareFlags) error {
	in, err := os.Open(f.events)
	if err != nil {
		return fmt.Errorf("failed to open events: %w", err)
	}
	defer in.Close()

	events, err := dataset.LoadEvents(in)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	p, err := prepareSessions(events, dataset.SessionizeOptions{Gap: f.gap, MinLength: f.minLength}, f.testFraction)
	if err != nil {
		return err
	}

	if err := writeSessions(f.trainOut, p.Train); err != nil {
		return err
	}
	if err := writeSessions(f.testOut, p.Test); err != nil {
		return err
	}
	if f.vocabOut != "" {
		if err := writeVocabulary(f.vocabOut, p.Vocab); err != nil {
			return err
		}
	}

	logging.Info().
		Int("events", len(events)).
		Int("sessions", p.Sessions).
		Int("items", p.Vocab.Size()-1).
		Int("train_examples", len(p.Train)).
		Int("test_examples", len(p.Test)).
		Msg("sessions prepared")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "items %d, train %d, test %d (num_items=%d)\n",
		p.Vocab.Size()-1, len(p.Train), len(p.Test), p.Vocab.Size())
	return nil
}

func writeSessions(path string, sessions []dataset.Session) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := dataset.WriteJSONLines(out, sessions); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return out.Close()
}

// vocabEntry is one line of the vocabulary file.
type vocabEntry struct {
	ID  int `json:"id"`
	Raw int `json:"raw"`
}

func writeVocabulary(path string, vocab *dataset.Vocabulary) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	enc := json.NewEncoder(out)
	for id := 1; id < vocab.Size(); id++ {
		raw, _ := vocab.Raw(id)
		if err := enc.Encode(vocabEntry{ID: id, Raw: raw}); err != nil {
			_ = out.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return out.Close()
}
