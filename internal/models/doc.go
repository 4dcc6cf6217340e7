// Package models defines domain entities and persistence interfaces for qbx.
//
// The package contains two categories of types:
//
// 1. Collaborator records: decoded straight from the qBittorrent Web API
//   - [Torrent] : one entry of /api/v2/torrents/info
//   - [TorrentState] and [StatusGroup] : state enumeration and its display grouping
//   - [Collections] : the in-progress / completed partition built by [Classify]
//
// 2. Persistent entities: database-backed models
//   - [Submission] : one URL handed to /api/v2/torrents/add and how it was answered
//
// Persistent entities implement the [Model] interface; [Repository] defines CRUD access.
package models
