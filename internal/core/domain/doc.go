// Package domain defines the core business entities for Cadence.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - UserSyncState: Per-user scheduling state, with activity and signal sub-states
//   - DomainResult: Uniform outcome of syncing one domain for one user
//   - ActivityEvent: Interaction and external-signal trigger kinds
//   - SyncDomain: The closed set of polled external domains
//
// ComputeInterval, the adaptive interval controller, also lives here: it
// is a pure function over UserSyncState and belongs with the state it
// reads.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
