package config

import "reflect"

// Kind identifies one category of sub-configuration within a service
// version. Kind values double as the resource path segment names used by the
// remote API (logging destinations carry their logging/ prefix separately in
// the client).
type Kind string

const (
	KindDomain         Kind = "domain"
	KindHealthcheck    Kind = "healthcheck"
	KindCondition      Kind = "condition"
	KindBackend        Kind = "backend"
	KindDirector       Kind = "director"
	KindCacheSettings  Kind = "cache_settings"
	KindGzip           Kind = "gzip"
	KindHeader         Kind = "header"
	KindRequestSetting Kind = "request_settings"
	KindResponseObject Kind = "response_object"
	KindVclSnippet     Kind = "snippet"
	KindVcl            Kind = "vcl"
	KindS3Logger       Kind = "logging_s3"
	KindSyslogLogger   Kind = "logging_syslog"
	KindCloudFiles     Kind = "logging_cloudfiles"
	KindDictionary     Kind = "dictionary"
	KindSettings       Kind = "settings"
)

// KindOrder is the fixed dependency order in which resource kinds are
// reconciled within a draft version. Domains have no dependencies;
// healthchecks must exist before the backends that reference them;
// conditions must exist before everything that carries a condition
// reference; directors follow the backends they aggregate. The settings
// singleton is not part of this list; the engine applies it last.
var KindOrder = []Kind{
	KindDomain,
	KindHealthcheck,
	KindCondition,
	KindBackend,
	KindDirector,
	KindCacheSettings,
	KindGzip,
	KindHeader,
	KindRequestSetting,
	KindResponseObject,
	KindVclSnippet,
	KindVcl,
	KindS3Logger,
	KindSyslogLogger,
	KindCloudFiles,
	KindDictionary,
}

// Resource is the interface shared by every resource kind except the
// settings singleton. Resources are plain records of typed, validated
// fields; they are immutable once constructed.
type Resource interface {
	// Kind returns the resource kind tag.
	Kind() Kind

	// ResourceName returns the unique name of the resource within its
	// kind and version.
	ResourceName() string

	// Equal reports full field equality with another resource of the
	// same kind.
	Equal(other Resource) bool
}

// resourceEqual is the shared equality used by every kind: same concrete
// type and all fields equal.
func resourceEqual(a, b Resource) bool {
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}
