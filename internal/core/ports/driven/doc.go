// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the scheduler to function:
//
//   - DomainSyncer: Reconciles one external domain for one user
//   - SyncerSet: One DomainSyncer per domain, validated at wiring time
//   - SignalSource: Seeds the external-signal sub-state at Start
//
// # Optional Interfaces
//
// These can be nil - the scheduler degrades gracefully:
//
//   - RoundHistoryStore: Round diagnostics persistence. Without it, rounds
//     are not recorded.
//   - ConfigStore: Tunable overrides. Without it, defaults apply.
//
// CredentialsStore sits outside the scheduler entirely: the connector
// credential provider uses it to persist per-user OAuth tokens and API
// keys.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
