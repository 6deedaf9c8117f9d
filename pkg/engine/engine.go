// Package engine implements the reconciliation engine: it compares a
// declared desired configuration against the live configuration of a remote
// service and drives the minimal create/update/delete sequence inside a
// draft version, activating it only once every planned mutation has
// succeeded.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openedge/fastsync/pkg/config"
	"github.com/openedge/fastsync/pkg/fastly"
	"github.com/openedge/fastsync/pkg/telemetry"
)

// Client is the remote API surface the engine drives. *fastly.Client
// implements it; tests substitute an in-memory fake.
type Client interface {
	GetServiceByName(ctx context.Context, name string) (*fastly.Service, error)
	GetService(ctx context.Context, serviceID string) (*fastly.Service, error)
	CreateService(ctx context.Context, name string) (*fastly.Service, error)
	DeleteService(ctx context.Context, name string, deactivateFirst bool) (bool, error)
	CreateVersion(ctx context.Context, serviceID string) (int, error)
	CloneVersion(ctx context.Context, serviceID string, version int) (int, error)
	ActivateVersion(ctx context.Context, serviceID string, version int) error
	CreateResource(ctx context.Context, serviceID string, version int, res config.Resource) error
	UpdateResource(ctx context.Context, serviceID string, version int, oldName string, res config.Resource) error
	DeleteResource(ctx context.Context, serviceID string, version int, kind config.Kind, name string) error
	UpdateSettings(ctx context.Context, serviceID string, version int, settings *config.Settings) error
}

// Result reports the outcome of one reconciliation run.
type Result struct {
	// RunID uniquely identifies the run in logs and reports.
	RunID string

	// Changed reports whether any remote mutation was performed.
	Changed bool

	// Actions lists the mutations performed (or planned, for a dry run)
	// in execution order.
	Actions []string

	// Service is the service state after the run. For Delete it is the
	// pre-deletion snapshot; nil when the service never existed.
	Service *fastly.Service
}

// Enforcer reconciles desired configurations against the remote system. It
// owns no persistent state; every call rebuilds its view of the world from
// the remote API. Concurrent reconciliation of the same service name from
// two callers is unsafe (both may clone the same baseline and race to
// activate); running at most one reconciler per service name at a time is
// the caller's obligation.
type Enforcer struct {
	client  Client
	log     zerolog.Logger
	metrics *telemetry.Metrics
}

// Option customizes an Enforcer.
type Option func(*Enforcer)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Enforcer) { e.log = log }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Enforcer) { e.metrics = m }
}

// New creates an Enforcer driving the given client.
func New(client Client, opts ...Option) *Enforcer {
	e := &Enforcer{client: client, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply reconciles the desired configuration for the named service. The
// service is created when absent. The baseline for comparison is the active
// version when activate is set, the latest version otherwise. When the
// desired configuration already matches the baseline, nothing is mutated and
// Changed is false.
//
// Any remote error aborts the run immediately and propagates unmodified; no
// rollback is attempted. A partially mutated draft version stays behind
// inactive, which is safe: activation is always the last step, so a version
// that has not completed every planned mutation is never activated.
func (e *Enforcer) Apply(ctx context.Context, serviceName string, desired *config.Configuration, activate bool) (result *Result, err error) {
	runID := uuid.NewString()
	log := e.log.With().Str("run_id", runID).Str("service", serviceName).Logger()
	defer func() {
		if err != nil {
			e.metrics.RecordReconciliation("error")
		}
	}()

	svc, err := e.client.GetServiceByName(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	var actions []string
	if svc == nil {
		log.Info().Msg("service not found, creating")
		if svc, err = e.client.CreateService(ctx, serviceName); err != nil {
			return nil, err
		}
		actions = append(actions, fmt.Sprintf("created service %q", serviceName))
	}

	baseline := svc.LatestVersion
	if activate {
		baseline = svc.ActiveVersion
	}

	var current *config.Configuration
	if baseline != nil {
		if desired.Equal(baseline.Configuration) {
			log.Info().Int("version", baseline.Number).Msg("configuration up to date")
			fresh, err := e.client.GetService(ctx, svc.ID)
			if err != nil {
				return nil, err
			}
			e.metrics.RecordReconciliation("unchanged")
			return &Result{RunID: runID, Changed: false, Service: fresh}, nil
		}
		current = baseline.Configuration
	}

	var draft int
	if baseline == nil {
		if draft, err = e.client.CreateVersion(ctx, svc.ID); err != nil {
			return nil, err
		}
		actions = append(actions, fmt.Sprintf("created empty version %d", draft))
	} else {
		if draft, err = e.client.CloneVersion(ctx, svc.ID, baseline.Number); err != nil {
			return nil, err
		}
		actions = append(actions, fmt.Sprintf("cloned version %d into draft version %d", baseline.Number, draft))
	}
	log.Info().Int("draft", draft).Msg("reconciling draft version")

	for _, plan := range buildPlan(desired, current) {
		applied, err := e.applyKindPlan(ctx, svc.ID, draft, plan)
		actions = append(actions, applied...)
		if err != nil {
			return nil, err
		}
	}

	if err = e.client.UpdateSettings(ctx, svc.ID, draft, desired.Settings); err != nil {
		return nil, err
	}
	actions = append(actions, fmt.Sprintf("applied settings to version %d", draft))

	// Activation is always last: a draft that failed any earlier step
	// never serves traffic.
	if activate {
		if err = e.client.ActivateVersion(ctx, svc.ID, draft); err != nil {
			return nil, err
		}
		actions = append(actions, fmt.Sprintf("activated version %d", draft))
	}

	fresh, err := e.client.GetService(ctx, svc.ID)
	if err != nil {
		return nil, err
	}
	log.Info().Int("version", draft).Int("mutations", len(actions)).Msg("reconciliation complete")
	e.metrics.RecordReconciliation("changed")
	return &Result{RunID: runID, Changed: true, Actions: actions, Service: fresh}, nil
}

// applyKindPlan executes one kind's mutations against the draft version and
// returns the action strings for everything that was applied before any
// failure.
func (e *Enforcer) applyKindPlan(ctx context.Context, serviceID string, draft int, plan kindPlan) ([]string, error) {
	var actions []string
	for _, res := range plan.creates {
		if err := e.client.CreateResource(ctx, serviceID, draft, res); err != nil {
			return actions, err
		}
		e.metrics.RecordMutation(string(plan.kind), "create")
		actions = append(actions, fmt.Sprintf("created %s %q", plan.kind, res.ResourceName()))
	}
	for _, up := range plan.updates {
		if err := e.client.UpdateResource(ctx, serviceID, draft, up.oldName, up.resource); err != nil {
			return actions, err
		}
		e.metrics.RecordMutation(string(plan.kind), "update")
		actions = append(actions, fmt.Sprintf("updated %s %q", plan.kind, up.oldName))
	}
	for _, name := range plan.deletes {
		if err := e.client.DeleteResource(ctx, serviceID, draft, plan.kind, name); err != nil {
			return actions, err
		}
		e.metrics.RecordMutation(string(plan.kind), "delete")
		actions = append(actions, fmt.Sprintf("deleted %s %q", plan.kind, name))
	}
	return actions, nil
}

// Plan computes the mutations Apply would perform, without executing any of
// them. The returned actions are phrased as planned work; Changed reports
// whether a run is needed at all.
func (e *Enforcer) Plan(ctx context.Context, serviceName string, desired *config.Configuration, activate bool) (*Result, error) {
	runID := uuid.NewString()

	svc, err := e.client.GetServiceByName(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	var actions []string
	var current *config.Configuration
	if svc == nil {
		actions = append(actions, fmt.Sprintf("create service %q", serviceName), "create a new version")
	} else {
		baseline := svc.LatestVersion
		if activate {
			baseline = svc.ActiveVersion
		}
		if baseline != nil {
			if desired.Equal(baseline.Configuration) {
				return &Result{RunID: runID, Changed: false, Service: svc}, nil
			}
			current = baseline.Configuration
			actions = append(actions, fmt.Sprintf("clone version %d", baseline.Number))
		} else {
			actions = append(actions, "create a new version")
		}
	}

	for _, plan := range buildPlan(desired, current) {
		actions = append(actions, plan.describe()...)
	}
	actions = append(actions, "apply settings")
	if activate {
		actions = append(actions, "activate the new version")
	}
	return &Result{RunID: runID, Changed: true, Actions: actions, Service: svc}, nil
}

// Delete removes the named service, deactivating its active version first.
// A missing service is a no-op. The returned Result carries the pre-deletion
// service snapshot for reporting.
func (e *Enforcer) Delete(ctx context.Context, serviceName string) (*Result, error) {
	runID := uuid.NewString()
	log := e.log.With().Str("run_id", runID).Str("service", serviceName).Logger()

	svc, err := e.client.GetServiceByName(ctx, serviceName)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return &Result{RunID: runID, Changed: false}, nil
	}

	deleted, err := e.client.DeleteService(ctx, serviceName, true)
	if err != nil {
		return nil, err
	}

	var actions []string
	if deleted {
		actions = append(actions, fmt.Sprintf("deleted service %q", serviceName))
		log.Info().Str("service_id", svc.ID).Msg("service deleted")
	}
	return &Result{RunID: runID, Changed: deleted, Actions: actions, Service: svc}, nil
}
