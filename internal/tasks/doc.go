// Package tasks runs multi-step library operations with real-time progress reporting.
//
// # Operations
//
// [LibraryEngine] offers two operations:
//
//  1. [LibraryEngine.CacheLibrary] : load every track and upsert it into a [TrackCacher]
//  2. [LibraryEngine.BulkExport] : load every playlist and write each to a file using a worker pool,
//     then write an export_manifest.json summarizing the run
//
// # Progress Reporting
//
// Both operations accept an optional send-only channel of [ProgressUpdate]. Sends use select with
// default, so a slow or absent reader never blocks the operation.
package tasks
