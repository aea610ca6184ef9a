// Package server assembles the proxy: it builds the engine registry, the
// upstream client and the optional telemetry and audit components from
// configuration, routes them behind the middleware chain and runs the HTTP
// server together with its background workers.
//
// Routes:
//
//	GET|POST /api/generate   generation stream (rate limited when enabled)
//	GET /health              liveness
//	GET /ready               readiness (engines, prompt templates, audit storage)
//	GET /version             build information
//	GET /metrics             Prometheus metrics, when enabled
//	GET /                    static files, when server.static_dir is set
//
// Typical use:
//
//	components, err := server.Build(cfg, version)
//	if err != nil {
//	    return err
//	}
//	defer components.Close(context.Background())
//
//	srv := server.New(cfg, components, health.NewVersionInfo(version, commit, date))
//	return srv.Run(ctx)
//
// Run returns once ctx is cancelled and in-flight requests have drained, or
// the shutdown timeout has passed.
package server
