package models

import (
	"path"
	"strings"
)

// Collections is the per-request partition of a torrent list.
//
// Both slices keep the collaborator's order; together they hold every input record exactly once.
type Collections struct {
	InProgress []Torrent `json:"in_progress"`
	Completed  []Torrent `json:"completed"`
}

// Classify splits torrents by progress alone: progress >= 1 is completed, everything else is in progress.
//
// State plays no part, so paused, queued and errored torrents are never dropped.
func Classify(torrents []Torrent) Collections {
	c := Collections{
		InProgress: []Torrent{},
		Completed:  []Torrent{},
	}
	for _, t := range torrents {
		if t.IsComplete() {
			c.Completed = append(c.Completed, t)
		} else {
			c.InProgress = append(c.InProgress, t)
		}
	}
	return c
}

// Total returns the number of classified torrents.
func (c Collections) Total() int {
	return len(c.InProgress) + len(c.Completed)
}

// Empty reports whether both buckets are empty.
func (c Collections) Empty() bool {
	return c.Total() == 0
}

// GroupStat is a count and byte total for one sidebar bucket.
type GroupStat struct {
	Count int   `json:"count"`
	Size  int64 `json:"size"`
}

// Summary aggregates torrents the way the web UI sidebar does: by status group, tracker host
// and save-path folder.
//
// Folders is keyed by slash-joined path prefix, so "/data/isos/" counts towards both "data" and
// "data/isos".
type Summary struct {
	Groups   map[StatusGroup]GroupStat `json:"groups"`
	Trackers map[string]GroupStat      `json:"trackers"`
	Folders  map[string]GroupStat      `json:"folders"`
	Active   int                       `json:"active"`
}

// Summarize builds a [Summary]. Torrents without a tracker are counted under "".
func Summarize(torrents []Torrent) Summary {
	s := Summary{
		Groups:   map[StatusGroup]GroupStat{},
		Trackers: map[string]GroupStat{},
		Folders:  map[string]GroupStat{},
	}
	for _, t := range torrents {
		s.Groups[t.Group()] = s.Groups[t.Group()].add(t)
		host := t.TrackerHost()
		s.Trackers[host] = s.Trackers[host].add(t)

		for _, folder := range FolderPrefixes(t.SavePath) {
			s.Folders[folder] = s.Folders[folder].add(t)
		}

		if t.State.IsActive() {
			s.Active++
		}
	}
	return s
}

func (g GroupStat) add(t Torrent) GroupStat {
	g.Count++
	g.Size += t.Size
	return g
}

// FolderPrefixes splits a save path into its cumulative folders: "/data/isos/" gives
// ["data", "data/isos"]. Backslashes separate folders too.
func FolderPrefixes(savePath string) []string {
	parts := strings.FieldsFunc(savePath, func(r rune) bool { return r == '/' || r == '\\' })
	prefixes := make([]string, 0, len(parts))
	prefix := ""
	for _, part := range parts {
		prefix = path.Join(prefix, part)
		prefixes = append(prefixes, prefix)
	}
	return prefixes
}
