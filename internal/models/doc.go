// Package models defines the domain values and persistence interfaces for the playx client.
//
// The package contains three categories of types:
//
// 1. Session values: the result of the two-stage login handshake
//   - [Session] : immutable xt/sjsaid cookie pair plus the bearer token
//   - [LoginOutcome] : [LoginResult] tag with a Session present only on success
//
// 2. Data Transfer Objects (DTOs): JSON shapes exchanged with the service
//   - [Song], [Playlist], [SearchResults], [SearchRequest], [StreamingURL]
//
// 3. Persistent Entities: database-backed models with full lifecycle management
//   - [StoredSession] : a Session saved for reuse across CLI invocations
//   - [CachedSong] : a Song cached locally by its remote id
//
// All persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
