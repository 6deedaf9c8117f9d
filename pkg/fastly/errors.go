// Package fastly implements the typed remote client for the Fastly versioned
// configuration API: per-kind resource CRUD inside a numbered version, plus
// service and version lifecycle operations.
package fastly

import (
	"errors"
	"fmt"

	"github.com/openedge/fastsync/pkg/config"
)

// RemoteError reports a non-success response from the remote API. It carries
// enough context to name the failing call: the operation, the resource kind
// if one was involved, the service and version being mutated, and the remote
// system's own detail text. Remote errors are never retried; one failed call
// aborts the whole reconciliation.
type RemoteError struct {
	// Operation is the client operation that failed (e.g. "create backend").
	Operation string

	// Kind is the resource kind involved, empty for lifecycle calls.
	Kind config.Kind

	// ServiceID identifies the service, when known.
	ServiceID string

	// Version is the version number being mutated, zero for service-level
	// calls.
	Version int

	// Status is the HTTP status returned by the remote system.
	Status int

	// Detail is the remote system's human-readable failure reason.
	Detail string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("fastly: %s failed", e.Operation)
	if e.ServiceID != "" {
		msg += fmt.Sprintf(" for service %s", e.ServiceID)
	}
	if e.Version != 0 {
		msg += fmt.Sprintf(" version %d", e.Version)
	}
	msg += fmt.Sprintf(" (status %d)", e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsRemote reports whether err is a RemoteError.
func IsRemote(err error) bool {
	var e *RemoteError
	return errors.As(err, &e)
}
