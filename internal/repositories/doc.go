// Package repositories implements SQLite persistence for stored sessions and the track cache.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [SessionRepository] : sessions saved by "auth login" and reused by later commands
//   - [TrackRepository] : library songs cached by their remote song id
//
// Lookups that match nothing return an error wrapping [shared.ErrNotFound].
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
