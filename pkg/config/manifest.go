package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvAPIKey is the environment variable consulted when the manifest does not
// carry an API key.
const EnvAPIKey = "FASTLY_API_KEY"

// Manifest is the declared desired state for one service, as read from a
// YAML document: the service identity parameters plus the strict-validated
// configuration.
type Manifest struct {
	// Name is the unique service name.
	Name string

	// APIKey is the bearer credential, resolved from the manifest or the
	// FASTLY_API_KEY environment variable.
	APIKey string

	// ActivateNewVersion controls whether a reconciled draft version is
	// activated. Defaults to true.
	ActivateNewVersion bool

	// Config is the desired configuration aggregate.
	Config *Configuration
}

// manifestDoc is the YAML shape of a manifest. Resource lists stay raw here;
// the descriptor layer owns their validation.
type manifestDoc struct {
	Name               string           `yaml:"name" validate:"required"`
	APIKey             string           `yaml:"fastly_api_key"`
	ActivateNewVersion *bool            `yaml:"activate_new_version"`
	Domains            []any            `yaml:"domains"`
	Healthchecks       []any            `yaml:"healthchecks"`
	Conditions         []any            `yaml:"conditions"`
	Backends           []any            `yaml:"backends"`
	Directors          []any            `yaml:"directors"`
	CacheSettings      []any            `yaml:"cache_settings"`
	Gzips              []any            `yaml:"gzips"`
	Headers            []any            `yaml:"headers"`
	RequestSettings    []any            `yaml:"request_settings"`
	ResponseObjects    []any            `yaml:"response_objects"`
	VclSnippets        []any            `yaml:"vcl_snippets"`
	Vcls               []any            `yaml:"vcls"`
	S3s                []any            `yaml:"s3s"`
	Syslogs            []any            `yaml:"syslogs"`
	CloudFiles         []any            `yaml:"cloudfiles"`
	Dictionaries       []any            `yaml:"dictionaries"`
	Settings           map[string]any   `yaml:"settings"`
}

// LoadManifest reads and strict-validates a manifest file. No remote call is
// made; a failure here leaves remote state untouched.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes and strict-validates a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	if err := validator.New().Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	cfg, err := Build(rawConfigMap(&doc), Strict)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Name:               doc.Name,
		APIKey:             doc.APIKey,
		ActivateNewVersion: true,
		Config:             cfg,
	}
	if doc.ActivateNewVersion != nil {
		m.ActivateNewVersion = *doc.ActivateNewVersion
	}
	return m, nil
}

// rawConfigMap maps manifest keys onto the canonical configuration keys; the
// manifest calls the snippet list vcl_snippets.
func rawConfigMap(doc *manifestDoc) map[string]any {
	raw := map[string]any{
		"domains":          doc.Domains,
		"healthchecks":     doc.Healthchecks,
		"conditions":       doc.Conditions,
		"backends":         doc.Backends,
		"directors":        doc.Directors,
		"cache_settings":   doc.CacheSettings,
		"gzips":            doc.Gzips,
		"headers":          doc.Headers,
		"request_settings": doc.RequestSettings,
		"response_objects": doc.ResponseObjects,
		"snippets":         doc.VclSnippets,
		"vcls":             doc.Vcls,
		"s3s":              doc.S3s,
		"syslogs":          doc.Syslogs,
		"cloudfiles":       doc.CloudFiles,
		"dictionaries":     doc.Dictionaries,
	}
	if doc.Settings != nil {
		raw["settings"] = doc.Settings
	}
	return raw
}

// ResolveAPIKey returns the manifest credential, falling back to the
// FASTLY_API_KEY environment variable. A missing credential is fatal for any
// command that talks to the remote API.
func (m *Manifest) ResolveAPIKey() (string, error) {
	if m.APIKey != "" {
		return m.APIKey, nil
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("an API key is required: set fastly_api_key in the manifest or the %s environment variable", EnvAPIKey)
}
