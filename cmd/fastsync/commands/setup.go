package commands

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openedge/fastsync/pkg/config"
	"github.com/openedge/fastsync/pkg/engine"
	"github.com/openedge/fastsync/pkg/fastly"
	"github.com/openedge/fastsync/pkg/telemetry"
)

// runMetrics is the collector for the current invocation. It is built in
// newEnforcer and reported by the commands after their run completes.
var runMetrics *telemetry.Metrics

// newEnforcer wires a reconciler from the loaded manifest and the global
// flags: the API key from the manifest or the environment, component child
// loggers for the client and the engine, and a shared metrics collector
// attached to both.
func newEnforcer(manifest *config.Manifest) (*engine.Enforcer, error) {
	apiKey, err := manifest.ResolveAPIKey()
	if err != nil {
		return nil, err
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	runMetrics = telemetry.NewMetrics(telemetry.MetricsConfig{Enabled: metricsEnabled})

	opts := []fastly.Option{
		fastly.WithLogger(telemetry.Component(log.Logger, "client")),
		fastly.WithMetrics(runMetrics),
	}
	if apiEndpoint != "" {
		opts = append(opts, fastly.WithBaseURL(apiEndpoint))
	}
	client := fastly.NewClient(apiKey, opts...)

	return engine.New(client,
		engine.WithLogger(telemetry.Component(log.Logger, "engine")),
		engine.WithMetrics(runMetrics),
	), nil
}

// reportMetrics logs the collected counters for the finished run.
func reportMetrics() {
	runMetrics.LogSummary(log.Logger)
}
