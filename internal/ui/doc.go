// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The dashboard has two views:
//  1. [ListView] : Two tabs (in progress, completed) listing torrents with progress, size, speeds and ETA
//  2. [AddView] : A text input that submits a magnet link or torrent URL
//
// The [Model] implements bubbletea's Init/Update/View pattern, receiving results via the Msg union type.
// Every refresh and submission goes through [tasks.Engine], so each one logs in to qBittorrent afresh.
//
// Keys: tab switches buckets, r refreshes, a opens the add view, enter submits, esc goes back, q quits.
// Help is rendered with charmbracelet/bubbles/help.
package ui
