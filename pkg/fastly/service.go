package fastly

import (
	"fmt"

	"github.com/openedge/fastsync/pkg/config"
)

// Version is a remote, numbered container holding one configuration.
// Versions are immutable once activated; a draft version is a version that
// has not been activated yet.
type Version struct {
	// Number is the server-assigned version number.
	Number int

	// Active reports whether this version serves production traffic.
	Active bool

	// Configuration is the version's resource state, reconstructed
	// leniently from the remote payload.
	Configuration *config.Configuration
}

// Service is a remote CDN service. A service has at most one active version
// and one latest (most recently created) version; these may coincide.
type Service struct {
	// ID is the server-assigned service identifier.
	ID string

	// Name is the unique service name.
	Name string

	// ActiveVersion is the currently activated version, nil when none has
	// ever been activated.
	ActiveVersion *Version

	// LatestVersion is the most recently created version, nil for a
	// service with no versions.
	LatestVersion *Version
}

// versionFromPayload reconstructs a Version from a remote version object.
// The details payload embeds every resource-kind list inside the version, so
// the configuration is rebuilt in lenient mode: the remote system may return
// values the local schema no longer lists as valid choices.
func versionFromPayload(payload map[string]any) (*Version, error) {
	number, err := payloadInt(payload, "number")
	if err != nil {
		return nil, fmt.Errorf("fastly: version payload: %w", err)
	}
	active, _ := payload["active"].(bool)

	cfg, err := config.Build(payload, config.Lenient)
	if err != nil {
		return nil, fmt.Errorf("fastly: version %d payload: %w", number, err)
	}
	return &Version{Number: number, Active: active, Configuration: cfg}, nil
}

// serviceFromPayload reconstructs a Service from a service-details payload.
func serviceFromPayload(payload map[string]any) (*Service, error) {
	id, _ := payload["id"].(string)
	name, _ := payload["name"].(string)
	svc := &Service{ID: id, Name: name}

	if raw, ok := payload["active_version"].(map[string]any); ok {
		v, err := versionFromPayload(raw)
		if err != nil {
			return nil, err
		}
		svc.ActiveVersion = v
	}
	if raw, ok := payload["version"].(map[string]any); ok {
		v, err := versionFromPayload(raw)
		if err != nil {
			return nil, err
		}
		svc.LatestVersion = v
	}
	return svc, nil
}

// payloadInt reads a numeric field from a decoded JSON payload, where
// numbers arrive as float64.
func payloadInt(payload map[string]any, key string) (int, error) {
	switch v := payload[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	}
	return 0, fmt.Errorf("field %q is missing or not a number", key)
}
