// Package tasks composes qBittorrent calls into the operations the web, CLI and TUI layers expose.
//
// # Core Operations
//
// The [Engine] interface defines four operations:
//
//  1. [Engine.Overview] : Fetch and classify the task list
//     - Authenticates (an auth failure continues with an empty session)
//     - Fetches torrents/info with optional filters
//     - Splits the list into in-progress and completed buckets
//     - A rejected fetch degrades to an empty overview carrying a notice
//
//  2. [Engine.Submit] : Submit one download URL
//     - Authenticates, then posts the URL unvalidated
//     - Maps the answer to "Torrent added successfully." or "Failed to add torrent."
//     - Records the outcome when a [SubmissionStore] is configured
//
//  3. [Engine.Status] : Report whether login works and which qBittorrent version answers
//
//  4. [Engine.History] : Return recent submissions from the [SubmissionStore]
//
// [TorrentEngine.BulkSubmit] submits many URLs over a small rate-limited worker pool.
//
// # Progress Reporting
//
// Bulk submissions report progress on a non-blocking channel of [ProgressUpdate] values.
// Updates use select with default so a slow reader never stalls the pool.
//
// # Errors
//
// Nothing is retried. Network failures and undecodable bodies are returned to the caller,
// which for the web layer means a 502 page. Recording failures are logged and swallowed.
package tasks
