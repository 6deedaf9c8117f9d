package config

import (
	"errors"
	"testing"
)

func domainEntry(name string) map[string]any {
	return map[string]any{"name": name}
}

func backendEntry(name, address string) map[string]any {
	return map[string]any{"name": name, "address": address}
}

func TestBuild_EmptyInput(t *testing.T) {
	cfg, err := Build(map[string]any{}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(cfg.Domains) != 0 || len(cfg.Backends) != 0 {
		t.Error("Expected empty resource lists")
	}
	if cfg.Settings == nil {
		t.Fatal("Expected settings singleton to be present")
	}
	if cfg.Settings.DefaultTTL != 3600 {
		t.Errorf("Expected default TTL 3600, got %d", cfg.Settings.DefaultTTL)
	}
}

func TestBuild_NullListTreatedAsEmpty(t *testing.T) {
	cfg, err := Build(map[string]any{"domains": nil}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(cfg.Domains) != 0 {
		t.Errorf("Expected no domains, got %d", len(cfg.Domains))
	}
}

func TestBuild_UnknownKeysIgnored(t *testing.T) {
	cfg, err := Build(map[string]any{
		"domains":      []any{domainEntry("www.example.net")},
		"updated_at":   "2020-01-01T00:00:00Z",
		"service_id":   "abc123",
		"unrecognized": 42,
	}, Lenient)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(cfg.Domains) != 1 {
		t.Fatalf("Expected 1 domain, got %d", len(cfg.Domains))
	}
}

func TestBuild_DuplicateNamesRejectedInStrict(t *testing.T) {
	raw := map[string]any{
		"domains": []any{domainEntry("www.example.net"), domainEntry("www.example.net")},
	}

	_, err := Build(raw, Strict)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
	if verr.Kind != KindDomain {
		t.Errorf("Expected domain kind, got %s", verr.Kind)
	}

	if _, err := Build(raw, Lenient); err != nil {
		t.Errorf("Expected lenient mode to accept duplicates, got: %v", err)
	}
}

func TestBuild_SameNameAcrossKindsAllowed(t *testing.T) {
	_, err := Build(map[string]any{
		"domains":  []any{domainEntry("shared")},
		"backends": []any{backendEntry("shared", "origin.example.net")},
	}, Strict)
	if err != nil {
		t.Errorf("Expected name reuse across kinds to be allowed, got: %v", err)
	}
}

func TestBuild_NonListEntryRejected(t *testing.T) {
	_, err := Build(map[string]any{"domains": "www.example.net"}, Strict)
	if err == nil {
		t.Fatal("Expected error for non-list resource entry")
	}
}

func TestConfiguration_EqualIgnoresOrder(t *testing.T) {
	a, err := Build(map[string]any{
		"domains": []any{domainEntry("a.example.net"), domainEntry("b.example.net")},
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	b, err := Build(map[string]any{
		"domains": []any{domainEntry("b.example.net"), domainEntry("a.example.net")},
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !a.Equal(b) {
		t.Error("Expected configurations differing only in declaration order to be equal")
	}
}

// A manifest that spells out a default and one that omits it must build
// identical configurations, otherwise every apply would see phantom drift.
func TestConfiguration_EqualAfterDefaultResolution(t *testing.T) {
	explicit, err := Build(map[string]any{
		"backends": []any{map[string]any{
			"name":    "origin",
			"address": "origin.example.net",
			"port":    80,
			"weight":  100,
		}},
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	implicit, err := Build(map[string]any{
		"backends": []any{backendEntry("origin", "origin.example.net")},
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !explicit.Equal(implicit) {
		t.Error("Expected explicit defaults and omitted defaults to compare equal")
	}
}

func TestConfiguration_EqualDetectsFieldDrift(t *testing.T) {
	a, _ := Build(map[string]any{
		"backends": []any{backendEntry("origin", "origin.example.net")},
	}, Strict)
	b, _ := Build(map[string]any{
		"backends": []any{map[string]any{
			"name":    "origin",
			"address": "origin.example.net",
			"weight":  50,
		}},
	}, Strict)

	if a.Equal(b) {
		t.Error("Expected differing weights to break equality")
	}
}

func TestConfiguration_EqualSettings(t *testing.T) {
	a, _ := Build(map[string]any{}, Strict)
	b, _ := Build(map[string]any{
		"settings": map[string]any{"general.default_ttl": 60},
	}, Strict)

	if a.Equal(b) {
		t.Error("Expected differing settings to break equality")
	}
}

func TestConfiguration_EqualNil(t *testing.T) {
	var a *Configuration
	b, _ := Build(map[string]any{}, Strict)

	if a.Equal(b) {
		t.Error("Expected nil and non-nil configurations to differ")
	}
	if !a.Equal(nil) {
		t.Error("Expected two nil configurations to be equal")
	}
}

func TestConfiguration_Items(t *testing.T) {
	cfg, err := Build(map[string]any{
		"domains":  []any{domainEntry("www.example.net")},
		"backends": []any{backendEntry("origin", "origin.example.net")},
	}, Strict)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	domains := cfg.Items(KindDomain)
	if len(domains) != 1 || domains[0].ResourceName() != "www.example.net" {
		t.Errorf("Expected one domain item, got %v", domains)
	}
	if items := cfg.Items(KindGzip); items != nil {
		t.Errorf("Expected nil for empty kind, got %v", items)
	}
	if items := cfg.Items(KindSettings); items != nil {
		t.Errorf("Expected nil for the settings singleton, got %v", items)
	}
}

func TestKindOrder_SettingsExcluded(t *testing.T) {
	for _, kind := range KindOrder {
		if kind == KindSettings {
			t.Fatal("Expected settings to be excluded from the kind order")
		}
	}
	if KindOrder[0] != KindDomain {
		t.Errorf("Expected domains first, got %s", KindOrder[0])
	}
	if KindOrder[len(KindOrder)-1] != KindDictionary {
		t.Errorf("Expected dictionaries last, got %s", KindOrder[len(KindOrder)-1])
	}
}
