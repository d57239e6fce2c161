// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/starsession/internal/api"
	"github.com/tomtom215/starsession/internal/logging"
	"github.com/tomtom215/starsession/internal/metrics"
	"github.com/tomtom215/starsession/internal/supervisor"
	"github.com/tomtom215/starsession/internal/supervisor/services"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	cfg := a.cfg
	logging.Info().Str("version", version).Msg("starting starsession with supervisor tree")
	metrics.SetAppInfo(version)

	comps, err := initEngine(cfg, logging.Logger())
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	handler := api.NewHandler(comps.Engine, version)
	mw := api.NewChiMiddlewareFromServer(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitReqs,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	)
	addr := cfg.Server.Address()
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler, mw).SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))

	if comps.Holdout != nil {
		tree.AddModelService(services.NewEvaluationService(comps.Engine, services.EvaluationServiceConfig{
			EvaluateOnStartup: cfg.Evaluation.OnStartup,
			Interval:          cfg.Evaluation.Interval,
			Timeout:           cfg.Evaluation.Timeout,
		}, logging.WithComponent("evaluation")))
		logging.Info().
			Int("holdout_sessions", comps.Holdout.Len()).
			Dur("interval", cfg.Evaluation.Interval).
			Msg("evaluation service added to supervisor tree")
	} else {
		logging.Info().Msg("no holdout data configured, scheduled evaluation disabled")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", addr).Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// The tree sends exactly one value on errCh and never closes it.
	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received, waiting for supervisor to finish")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}

	logging.Info().Msg("starsession stopped gracefully")
	return nil
}
