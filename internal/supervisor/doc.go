// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

/*
Package supervisor provides process supervision for the recommendation server
using suture v4.

# Overview

Long-running services are grouped into two layers:

	RootSupervisor ("starsession")
	├── ModelSupervisor ("model-layer")
	│   └── EvaluationService (if a holdout set is configured)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's decaying failure counter. When
the counter exceeds FailureThreshold the supervisor waits FailureBackoff
before the next restart.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second, logger))
	tree.AddModelService(services.NewEvaluationService(engine, evalCfg, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Service Interface

Return behavior of Serve:
  - nil: the service stopped cleanly and is not restarted
  - error: the service crashed and is restarted
  - ctx.Err(): shutdown was requested

Supervisor events are logged through slog via sutureslog; the slog handler
is backed by the zerolog global logger (see package logging).

# Debugging Shutdown Issues

UnstoppedServiceReport lists services that did not return within
ShutdownTimeout.
*/
package supervisor
