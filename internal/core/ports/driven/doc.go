// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - FeedClient: Fetches bounded pages of raw records from the remote feed
//   - Normaliser: Maps one raw record into the store's row shape
//   - RecordStore: Batch upsert, filtered queries and raw lookups
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SyncRunStore: Sync run history. Without it, runs are only logged.
//   - SchedulerStore: Scheduled task state. Only needed by the scheduler.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
