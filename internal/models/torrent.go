package models

import (
	"net/url"
	"slices"
)

// TorrentState is the qBittorrent "state" enumeration.
type TorrentState string

const (
	StateError              TorrentState = "error"
	StateMissingFiles       TorrentState = "missingFiles"
	StateUploading          TorrentState = "uploading"
	StatePausedUP           TorrentState = "pausedUP"
	StateQueuedUP           TorrentState = "queuedUP"
	StateStalledUP          TorrentState = "stalledUP"
	StateCheckingUP         TorrentState = "checkingUP"
	StateForcedUP           TorrentState = "forcedUP"
	StateAllocating         TorrentState = "allocating"
	StateDownloading        TorrentState = "downloading"
	StateMetaDL             TorrentState = "metaDL"
	StatePausedDL           TorrentState = "pausedDL"
	StateQueuedDL           TorrentState = "queuedDL"
	StateStalledDL          TorrentState = "stalledDL"
	StateCheckingDL         TorrentState = "checkingDL"
	StateForcedDL           TorrentState = "forcedDL"
	StateCheckingResumeData TorrentState = "checkingResumeData"
	StateMoving             TorrentState = "moving"
	StateUnknown            TorrentState = "unknown"
)

// StatusGroup buckets states the way the web UI labels them.
type StatusGroup string

const (
	GroupDownload StatusGroup = "download"
	GroupPause    StatusGroup = "pause"
	GroupUpload   StatusGroup = "upload"
	GroupCheck    StatusGroup = "check"
	GroupError    StatusGroup = "error"
	GroupOther    StatusGroup = "other"
)

var statusGroups = []struct {
	group  StatusGroup
	states []TorrentState
}{
	{GroupDownload, []TorrentState{StateDownloading, StateMetaDL, StateStalledDL, StateQueuedDL, StateForcedDL}},
	{GroupPause, []TorrentState{StatePausedDL, StatePausedUP}},
	{GroupUpload, []TorrentState{StateUploading, StateStalledUP, StateQueuedUP, StateForcedUP}},
	{GroupCheck, []TorrentState{StateCheckingUP, StateCheckingDL, StateCheckingResumeData}},
	{GroupError, []TorrentState{StateError, StateMissingFiles}},
}

// StatusGroups returns every group in sidebar order.
func StatusGroups() []StatusGroup {
	return []StatusGroup{GroupDownload, GroupPause, GroupUpload, GroupCheck, GroupError, GroupOther}
}

// Filter returns the torrents/info filter value selecting g, or "" for [GroupOther].
func (g StatusGroup) Filter() string {
	switch g {
	case GroupDownload:
		return "downloading"
	case GroupPause:
		return "paused"
	case GroupUpload:
		return "seeding"
	case GroupCheck:
		return "checking"
	case GroupError:
		return "errored"
	default:
		return ""
	}
}

// StatusGroupOf returns the display group for s. States outside the table (allocating, moving, unknown)
// map to [GroupOther].
func StatusGroupOf(s TorrentState) StatusGroup {
	for _, g := range statusGroups {
		if slices.Contains(g.states, s) {
			return g.group
		}
	}
	return GroupOther
}

// IsActive reports whether s is transferring data right now.
func (s TorrentState) IsActive() bool {
	return s == StateDownloading || s == StateMetaDL || s == StateUploading
}

// Torrent is one task record from /api/v2/torrents/info.
//
// Only State and Progress drive any logic; the rest is passed through to rendering.
type Torrent struct {
	Hash          string       `json:"hash"`
	Name          string       `json:"name"`
	State         TorrentState `json:"state"`
	Progress      float64      `json:"progress"`
	Size          int64        `json:"size"`
	TotalSize     int64        `json:"total_size"`
	AmountLeft    int64        `json:"amount_left"`
	Downloaded    int64        `json:"downloaded"`
	Uploaded      int64        `json:"uploaded"`
	DlSpeed       int64        `json:"dlspeed"`
	UpSpeed       int64        `json:"upspeed"`
	ETA           int64        `json:"eta"`
	Ratio         float64      `json:"ratio"`
	NumSeeds      int          `json:"num_seeds"`
	NumLeechs     int          `json:"num_leechs"`
	Category      string       `json:"category"`
	Tags          string       `json:"tags"`
	SavePath      string       `json:"save_path"`
	ContentPath   string       `json:"content_path"`
	MagnetURI     string       `json:"magnet_uri"`
	Tracker       string       `json:"tracker"`
	AddedOn       int64        `json:"added_on"`
	CompletionOn  int64        `json:"completion_on"`
	LastActivity  int64        `json:"last_activity"`
	Availability  float64      `json:"availability"`
	SeqDL         bool         `json:"seq_dl"`
	ForceStart    bool         `json:"force_start"`
	SuperSeeding  bool         `json:"super_seeding"`
	Priority      int          `json:"priority"`
	TimeActive    int64        `json:"time_active"`
	SeedingTime   int64        `json:"seeding_time"`
	AutoTMM       bool         `json:"auto_tmm"`
	DownloadLimit int64        `json:"dl_limit"`
	UploadLimit   int64        `json:"up_limit"`
}

// IsComplete reports whether the torrent has finished downloading (progress reached 1).
func (t Torrent) IsComplete() bool {
	return t.Progress >= 1
}

// Group returns the [StatusGroup] of the torrent's state.
func (t Torrent) Group() StatusGroup {
	return StatusGroupOf(t.State)
}

// TrackerHost returns the hostname of the current tracker, or "" when there is none.
func (t Torrent) TrackerHost() string {
	if t.Tracker == "" {
		return ""
	}
	u, err := url.Parse(t.Tracker)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
