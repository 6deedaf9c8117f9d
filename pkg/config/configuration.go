package config

import (
	"slices"
	"strings"
)

// Configuration is the full desired or actual state of one service version:
// one ordered list per resource kind plus the settings singleton. Local
// configurations are transient value objects; all durable state lives in the
// remote system.
type Configuration struct {
	Domains         []*Domain
	Healthchecks    []*Healthcheck
	Conditions      []*Condition
	Backends        []*Backend
	Directors       []*Director
	CacheSettings   []*CacheSettings
	Gzips           []*Gzip
	Headers         []*Header
	RequestSettings []*RequestSetting
	ResponseObjects []*ResponseObject
	Snippets        []*VclSnippet
	Vcls            []*Vcl
	S3s             []*S3Logger
	Syslogs         []*SyslogLogger
	CloudFiles      []*CloudFilesLogger
	Dictionaries    []*Dictionary
	Settings        *Settings
}

// Build constructs a Configuration from a raw map keyed by resource-kind
// list name. Keys that are absent or explicitly null are treated as empty
// lists; unknown top-level keys are ignored. In Strict mode duplicate
// resource names within a kind are rejected, since the reconciliation diff
// matches resources by name and duplicates would mismatch silently.
func Build(raw map[string]any, mode ValidateMode) (*Configuration, error) {
	cfg := &Configuration{}
	var err error

	if cfg.Domains, err = buildList(raw, "domains", mode, NewDomain); err != nil {
		return nil, err
	}
	if cfg.Healthchecks, err = buildList(raw, "healthchecks", mode, NewHealthcheck); err != nil {
		return nil, err
	}
	if cfg.Conditions, err = buildList(raw, "conditions", mode, NewCondition); err != nil {
		return nil, err
	}
	if cfg.Backends, err = buildList(raw, "backends", mode, NewBackend); err != nil {
		return nil, err
	}
	if cfg.Directors, err = buildList(raw, "directors", mode, NewDirector); err != nil {
		return nil, err
	}
	if cfg.CacheSettings, err = buildList(raw, "cache_settings", mode, NewCacheSettings); err != nil {
		return nil, err
	}
	if cfg.Gzips, err = buildList(raw, "gzips", mode, NewGzip); err != nil {
		return nil, err
	}
	if cfg.Headers, err = buildList(raw, "headers", mode, NewHeader); err != nil {
		return nil, err
	}
	if cfg.RequestSettings, err = buildList(raw, "request_settings", mode, NewRequestSetting); err != nil {
		return nil, err
	}
	if cfg.ResponseObjects, err = buildList(raw, "response_objects", mode, NewResponseObject); err != nil {
		return nil, err
	}
	if cfg.Snippets, err = buildList(raw, "snippets", mode, NewVclSnippet); err != nil {
		return nil, err
	}
	if cfg.Vcls, err = buildList(raw, "vcls", mode, NewVcl); err != nil {
		return nil, err
	}
	if cfg.S3s, err = buildList(raw, "s3s", mode, NewS3Logger); err != nil {
		return nil, err
	}
	if cfg.Syslogs, err = buildList(raw, "syslogs", mode, NewSyslogLogger); err != nil {
		return nil, err
	}
	if cfg.CloudFiles, err = buildList(raw, "cloudfiles", mode, NewCloudFilesLogger); err != nil {
		return nil, err
	}
	if cfg.Dictionaries, err = buildList(raw, "dictionaries", mode, NewDictionary); err != nil {
		return nil, err
	}

	settingsRaw, _ := raw["settings"].(map[string]any)
	if cfg.Settings, err = NewSettings(settingsRaw, mode); err != nil {
		return nil, err
	}

	if mode == Strict {
		for _, kind := range KindOrder {
			if err := rejectDuplicateNames(kind, cfg.Items(kind)); err != nil {
				return nil, err
			}
		}
	}
	return cfg, nil
}

// buildList constructs one resource-kind list from the raw entry under key.
func buildList[T Resource](raw map[string]any, key string, mode ValidateMode, ctor func(map[string]any, ValidateMode) (T, error)) ([]T, error) {
	entry, ok := raw[key]
	if !ok || entry == nil {
		return nil, nil
	}
	items, ok := entry.([]any)
	if !ok {
		var zero T
		return nil, newValidationError(zero.Kind(), key, "with value '%v' is not a list", entry)
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			var zero T
			return nil, newValidationError(zero.Kind(), key, "entry '%v' is not a mapping", item)
		}
		res, err := ctor(m, mode)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func rejectDuplicateNames(kind Kind, items []Resource) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		name := item.ResourceName()
		if _, dup := seen[name]; dup {
			return newValidationError(kind, "name", "%q is used by more than one %s", name, kind)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Items returns the resource list for one kind as the shared Resource
// interface, in declaration order. The settings singleton is not a named
// resource and has no item list.
func (c *Configuration) Items(kind Kind) []Resource {
	switch kind {
	case KindDomain:
		return asResources(c.Domains)
	case KindHealthcheck:
		return asResources(c.Healthchecks)
	case KindCondition:
		return asResources(c.Conditions)
	case KindBackend:
		return asResources(c.Backends)
	case KindDirector:
		return asResources(c.Directors)
	case KindCacheSettings:
		return asResources(c.CacheSettings)
	case KindGzip:
		return asResources(c.Gzips)
	case KindHeader:
		return asResources(c.Headers)
	case KindRequestSetting:
		return asResources(c.RequestSettings)
	case KindResponseObject:
		return asResources(c.ResponseObjects)
	case KindVclSnippet:
		return asResources(c.Snippets)
	case KindVcl:
		return asResources(c.Vcls)
	case KindS3Logger:
		return asResources(c.S3s)
	case KindSyslogLogger:
		return asResources(c.Syslogs)
	case KindCloudFiles:
		return asResources(c.CloudFiles)
	case KindDictionary:
		return asResources(c.Dictionaries)
	}
	return nil
}

func asResources[T Resource](items []T) []Resource {
	if len(items) == 0 {
		return nil
	}
	out := make([]Resource, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Equal reports structural equality between two configurations: for every
// resource kind the lists must hold the same resources by full field
// equality once sorted by name; order within a kind is not significant.
// Comparison is always scoped to one kind's list, so resources of different
// kinds sharing a name never collide.
func (c *Configuration) Equal(other *Configuration) bool {
	if c == nil || other == nil {
		return c == other
	}
	for _, kind := range KindOrder {
		if !sortedEqual(c.Items(kind), other.Items(kind)) {
			return false
		}
	}
	return c.Settings.Equal(other.Settings)
}

func sortedEqual(a, b []Resource) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	byName := func(x, y Resource) int {
		return strings.Compare(x.ResourceName(), y.ResourceName())
	}
	slices.SortStableFunc(as, byName)
	slices.SortStableFunc(bs, byName)
	for i := range as {
		if !as[i].Equal(bs[i]) {
			return false
		}
	}
	return true
}
