// Package config defines the declarative model for an edge service: the
// typed resource kinds, the field descriptors that validate them, and the
// manifest loader that turns a YAML document into a Configuration.
//
// # Overview
//
// A Configuration aggregates every resource kind a service version carries
// (domains, backends, conditions, loggers, and so on) plus the version
// settings. The same model is built from two sources:
//
//   - A manifest file, validated in Strict mode: unknown enum values and
//     missing required fields are errors.
//   - A remote version payload, validated in Lenient mode: the remote side
//     is trusted, so choice checks are skipped and extra fields ignored.
//
// # Field descriptors
//
// Each resource kind declares a table of FieldSpec descriptors naming its
// fields, their types, defaults, and allowed choices. Constructors read raw
// key/value maps through the descriptor table, so both manifest input and
// remote payloads resolve defaults identically. Two configurations built
// from equivalent sources compare equal even when one spelled out a default
// and the other omitted it.
//
// # Usage Example
//
//	manifest, err := config.LoadManifest("service.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// manifest.Config is fully validated and default-resolved.
//	for _, d := range manifest.Config.Domains {
//	    fmt.Println(d.Name)
//	}
//
// # Equality
//
// Configuration.Equal compares per kind, ignoring declaration order: each
// kind's resources are sorted by name before comparison. Resource names are
// unique within a kind (enforced in Strict mode) but may repeat across
// kinds, so a backend and a condition may share a name.
//
// # Thread Safety
//
// All types in this package are immutable after construction and safe for
// concurrent use.
package config
