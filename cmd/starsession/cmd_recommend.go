// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/starsession/internal/logging"
	"github.com/tomtom215/starsession/internal/recommend"
)

type recommendFlags struct {
	k           int
	excludeSeen bool
	exclude     []int
}

func (a *app) newRecommendCmd() *cobra.Command {
	f := &recommendFlags{}
	cmd := &cobra.Command{
		Use:     "recommend ITEM...",
		Short:   "Rank next items for one session",
		Example: `  starsession recommend 12 7 12 --k 5 --exclude-seen`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRecommend(cmd.Context(), cmd, f, args)
		},
	}
	cmd.Flags().IntVar(&f.k, "k", 0, "number of recommendations (default: limits.default_k)")
	cmd.Flags().BoolVar(&f.excludeSeen, "exclude-seen", false, "drop the session's own items")
	cmd.Flags().IntSliceVar(&f.exclude, "exclude", nil, "item ids never to recommend")
	return cmd
}

func (a *app) runRecommend(ctx context.Context, cmd *cobra.Command, f *recommendFlags, args []string) error {
	items, err := parseItemIDs(args)
	if err != nil {
		return err
	}

	comps, err := initEngine(a.cfg, logging.Logger())
	if err != nil {
		return err
	}

	resp, err := comps.Engine.Recommend(ctx, recommend.Request{
		Items:       items,
		K:           f.k,
		ExcludeIDs:  f.exclude,
		ExcludeSeen: f.excludeSeen,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func parseItemIDs(args []string) ([]int, error) {
	items := make([]int, len(args))
	for i, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("item %q is not an integer id", arg)
		}
		items[i] = id
	}
	return items, nil
}
