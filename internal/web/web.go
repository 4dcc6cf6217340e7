// Package web serves the qbx browser front-end and its JSON twin.
//
// # Routes
//
//	GET  /                    → both task buckets (plus recent submissions when history is on)
//	POST /                    → submit form field "url", render the fixed result message
//	GET  /api/torrents        → the same overview as JSON
//	POST /api/torrents        → submit form field "url", answer with the result as JSON
//	GET  /api/torrents/{hash} → properties and files of one torrent as JSON
//	GET  /health              → {"status":"ok"}
//
// Every request logs in to qBittorrent afresh through [tasks.Engine]; nothing is cached between requests.
//
// # Errors
//
// A rejected login or list degrades to an empty page with a notice. When qBittorrent cannot be reached,
// or answers with something that is not a task list, the HTML routes render error.html and the JSON
// routes answer {"error": ...}, both with 502 Bad Gateway.
//
// # Server
//
// [Server] wraps [http.Server] with timeouts and shuts down gracefully when its context is canceled.
package web
