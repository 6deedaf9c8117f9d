package commands

import (
	"testing"

	"github.com/openedge/fastsync/pkg/config"
)

func TestNewEnforcer_BuildsMetricsCollector(t *testing.T) {
	metricsEnabled = true
	defer func() {
		metricsEnabled = false
		runMetrics = nil
	}()

	manifest := &config.Manifest{Name: "test-service", APIKey: "test-key"}
	enforcer, err := newEnforcer(manifest)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if enforcer == nil {
		t.Fatal("Expected an enforcer")
	}
	if runMetrics == nil {
		t.Fatal("Expected a metrics collector to be built for the run")
	}

	// Disabled reporting must also be safe.
	reportMetrics()
}

func TestNewEnforcer_MissingAPIKey(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	manifest := &config.Manifest{Name: "test-service"}
	if _, err := newEnforcer(manifest); err == nil {
		t.Fatal("Expected error without an API key")
	}
}
