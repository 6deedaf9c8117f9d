package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/openedge/fastsync/pkg/config"
	"github.com/openedge/fastsync/pkg/fastly"
)

// mockClient is an in-memory Client that records every mutating call in
// order and serves scripted service lookups.
type mockClient struct {
	services map[string]*fastly.Service
	nextVer  int
	calls    []string

	failOn string
}

func newMockClient() *mockClient {
	return &mockClient{services: map[string]*fastly.Service{}, nextVer: 1}
}

func (m *mockClient) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	m.calls = append(m.calls, call)
	if m.failOn != "" && call == m.failOn {
		return errors.New("scripted failure: " + call)
	}
	return nil
}

func (m *mockClient) GetServiceByName(ctx context.Context, name string) (*fastly.Service, error) {
	return m.services[name], nil
}

func (m *mockClient) GetService(ctx context.Context, serviceID string) (*fastly.Service, error) {
	for _, svc := range m.services {
		if svc.ID == serviceID {
			return svc, nil
		}
	}
	return nil, nil
}

func (m *mockClient) CreateService(ctx context.Context, name string) (*fastly.Service, error) {
	if err := m.record("create service %s", name); err != nil {
		return nil, err
	}
	svc := &fastly.Service{ID: "id-" + name, Name: name}
	m.services[name] = svc
	return svc, nil
}

func (m *mockClient) DeleteService(ctx context.Context, name string, deactivateFirst bool) (bool, error) {
	if m.services[name] == nil {
		return false, nil
	}
	if err := m.record("delete service %s deactivate=%v", name, deactivateFirst); err != nil {
		return false, err
	}
	delete(m.services, name)
	return true, nil
}

func (m *mockClient) CreateVersion(ctx context.Context, serviceID string) (int, error) {
	v := m.nextVer
	m.nextVer++
	return v, m.record("create version %d", v)
}

func (m *mockClient) CloneVersion(ctx context.Context, serviceID string, version int) (int, error) {
	v := m.nextVer
	m.nextVer++
	return v, m.record("clone version %d -> %d", version, v)
}

func (m *mockClient) ActivateVersion(ctx context.Context, serviceID string, version int) error {
	return m.record("activate version %d", version)
}

func (m *mockClient) CreateResource(ctx context.Context, serviceID string, version int, res config.Resource) error {
	return m.record("create %s %s", res.Kind(), res.ResourceName())
}

func (m *mockClient) UpdateResource(ctx context.Context, serviceID string, version int, oldName string, res config.Resource) error {
	return m.record("update %s %s", res.Kind(), oldName)
}

func (m *mockClient) DeleteResource(ctx context.Context, serviceID string, version int, kind config.Kind, name string) error {
	return m.record("delete %s %s", kind, name)
}

func (m *mockClient) UpdateSettings(ctx context.Context, serviceID string, version int, settings *config.Settings) error {
	return m.record("update settings")
}

// addService seeds a service whose baseline versions share one lenient-built
// configuration.
func (m *mockClient) addService(t *testing.T, name string, raw map[string]any, active bool) {
	t.Helper()
	cfg, err := config.Build(raw, config.Lenient)
	if err != nil {
		t.Fatalf("building seeded configuration: %v", err)
	}
	version := &fastly.Version{Number: m.nextVer, Active: active, Configuration: cfg}
	m.nextVer++
	svc := &fastly.Service{ID: "id-" + name, Name: name, LatestVersion: version}
	if active {
		svc.ActiveVersion = version
	}
	m.services[name] = svc
}

func desiredConfig(t *testing.T, raw map[string]any) *config.Configuration {
	t.Helper()
	cfg, err := config.Build(raw, config.Strict)
	if err != nil {
		t.Fatalf("building desired configuration: %v", err)
	}
	return cfg
}

func callsContain(calls []string, want string) bool {
	for _, c := range calls {
		if c == want {
			return true
		}
	}
	return false
}

func TestEnforcer_Apply_CreatesMissingService(t *testing.T) {
	client := newMockClient()
	enforcer := New(client)

	desired := desiredConfig(t, map[string]any{
		"domains":  []any{map[string]any{"name": "www.example.net"}},
		"backends": []any{map[string]any{"name": "origin", "address": "origin.example.net"}},
	})

	result, err := enforcer.Apply(context.Background(), "test-service", desired, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !result.Changed {
		t.Error("Expected the run to report changes")
	}
	if result.RunID == "" {
		t.Error("Expected a run ID")
	}

	want := []string{
		"create service test-service",
		"create version 1",
		"create domain www.example.net",
		"create backend origin",
		"update settings",
		"activate version 1",
	}
	if len(client.calls) != len(want) {
		t.Fatalf("Expected %d calls, got %d: %v", len(want), len(client.calls), client.calls)
	}
	for i, w := range want {
		if client.calls[i] != w {
			t.Errorf("Expected call %d to be %q, got %q", i, w, client.calls[i])
		}
	}
}

func TestEnforcer_Apply_Idempotent(t *testing.T) {
	raw := map[string]any{
		"domains": []any{map[string]any{"name": "www.example.net"}},
	}
	client := newMockClient()
	client.addService(t, "test-service", raw, true)
	enforcer := New(client)

	result, err := enforcer.Apply(context.Background(), "test-service", desiredConfig(t, raw), true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Changed {
		t.Error("Expected no changes for a matching configuration")
	}
	if len(client.calls) != 0 {
		t.Errorf("Expected no mutating calls, got: %v", client.calls)
	}
	if result.Service == nil {
		t.Error("Expected the result to carry the service state")
	}
}

func TestEnforcer_Apply_DiffClonesAndUpdates(t *testing.T) {
	client := newMockClient()
	client.addService(t, "test-service", map[string]any{
		"domains": []any{
			map[string]any{"name": "keep.example.net"},
			map[string]any{"name": "drop.example.net"},
		},
	}, true)
	enforcer := New(client)

	desired := desiredConfig(t, map[string]any{
		"domains": []any{
			map[string]any{"name": "keep.example.net", "comment": "primary"},
			map[string]any{"name": "add.example.net"},
		},
	})

	result, err := enforcer.Apply(context.Background(), "test-service", desired, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !result.Changed {
		t.Fatal("Expected changes")
	}

	want := []string{
		"clone version 1 -> 2",
		"create domain add.example.net",
		"update domain keep.example.net",
		"delete domain drop.example.net",
		"update settings",
		"activate version 2",
	}
	if len(client.calls) != len(want) {
		t.Fatalf("Expected %d calls, got %d: %v", len(want), len(client.calls), client.calls)
	}
	for i, w := range want {
		if client.calls[i] != w {
			t.Errorf("Expected call %d to be %q, got %q", i, w, client.calls[i])
		}
	}
}

func TestEnforcer_Apply_NoActivate(t *testing.T) {
	client := newMockClient()
	enforcer := New(client)

	desired := desiredConfig(t, map[string]any{
		"domains": []any{map[string]any{"name": "www.example.net"}},
	})

	if _, err := enforcer.Apply(context.Background(), "test-service", desired, false); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for _, call := range client.calls {
		if call == "activate version 1" {
			t.Error("Expected no activation when activate is false")
		}
	}
}

// An inactive service's baseline is the latest version even when no version
// was ever activated.
func TestEnforcer_Apply_InactiveBaselineIsLatest(t *testing.T) {
	raw := map[string]any{
		"domains": []any{map[string]any{"name": "www.example.net"}},
	}
	client := newMockClient()
	client.addService(t, "test-service", raw, false)
	enforcer := New(client)

	result, err := enforcer.Apply(context.Background(), "test-service", desiredConfig(t, raw), false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Changed {
		t.Errorf("Expected the latest version to serve as baseline, calls: %v", client.calls)
	}
}

func TestEnforcer_Apply_FailureAbortsBeforeActivation(t *testing.T) {
	client := newMockClient()
	client.failOn = "create backend origin"
	enforcer := New(client)

	desired := desiredConfig(t, map[string]any{
		"domains":  []any{map[string]any{"name": "www.example.net"}},
		"backends": []any{map[string]any{"name": "origin", "address": "origin.example.net"}},
	})

	_, err := enforcer.Apply(context.Background(), "test-service", desired, true)
	if err == nil {
		t.Fatal("Expected the scripted failure to propagate")
	}

	if callsContain(client.calls, "activate version 1") {
		t.Error("Expected no activation after a failed mutation")
	}
	if callsContain(client.calls, "update settings") {
		t.Error("Expected no settings update after a failed mutation")
	}
}

func TestEnforcer_Plan_DryRun(t *testing.T) {
	client := newMockClient()
	client.addService(t, "test-service", map[string]any{
		"domains": []any{map[string]any{"name": "old.example.net"}},
	}, true)
	enforcer := New(client)

	desired := desiredConfig(t, map[string]any{
		"domains": []any{map[string]any{"name": "new.example.net"}},
	})

	result, err := enforcer.Plan(context.Background(), "test-service", desired, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !result.Changed {
		t.Fatal("Expected the plan to report pending changes")
	}
	if len(client.calls) != 0 {
		t.Errorf("Expected a dry run to perform no mutations, got: %v", client.calls)
	}
	if !callsContain(result.Actions, `create domain "new.example.net"`) {
		t.Errorf("Expected a create action, got: %v", result.Actions)
	}
	if !callsContain(result.Actions, `delete domain "old.example.net"`) {
		t.Errorf("Expected a delete action, got: %v", result.Actions)
	}
}

func TestEnforcer_Plan_UpToDate(t *testing.T) {
	raw := map[string]any{
		"domains": []any{map[string]any{"name": "www.example.net"}},
	}
	client := newMockClient()
	client.addService(t, "test-service", raw, true)
	enforcer := New(client)

	result, err := enforcer.Plan(context.Background(), "test-service", desiredConfig(t, raw), true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Changed {
		t.Errorf("Expected no pending changes, got: %v", result.Actions)
	}
}

func TestEnforcer_Delete(t *testing.T) {
	client := newMockClient()
	client.addService(t, "test-service", map[string]any{}, true)
	enforcer := New(client)

	result, err := enforcer.Delete(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !result.Changed {
		t.Error("Expected the deletion to report a change")
	}
	if result.Service == nil || result.Service.Name != "test-service" {
		t.Error("Expected the pre-deletion snapshot in the result")
	}
	if !callsContain(client.calls, "delete service test-service deactivate=true") {
		t.Errorf("Expected a deactivating delete, got: %v", client.calls)
	}
}

func TestEnforcer_Delete_Missing(t *testing.T) {
	client := newMockClient()
	enforcer := New(client)

	result, err := enforcer.Delete(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Changed {
		t.Error("Expected no change for a missing service")
	}
	if len(client.calls) != 0 {
		t.Errorf("Expected no calls, got: %v", client.calls)
	}
}
