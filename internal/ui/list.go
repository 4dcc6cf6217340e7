package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/qbx/internal/formatter"
	"github.com/desertthunder/qbx/internal/models"
)

var _ list.Item = torrentItem{}

// torrentItem wraps [models.Torrent] to implement [list.Item].
type torrentItem struct {
	torrent models.Torrent
}

func (i torrentItem) FilterValue() string { return i.torrent.Name }
func (i torrentItem) Title() string       { return i.torrent.Name }
func (i torrentItem) Description() string {
	t := i.torrent
	if t.IsComplete() {
		return fmt.Sprintf("%s • %s • ratio %s • ↑ %s",
			t.State, formatter.FormatSize(t.TotalSize), formatter.FormatRatio(t.Ratio), formatter.FormatSpeed(t.UpSpeed))
	}
	return fmt.Sprintf("%s • %s of %s • ↓ %s ↑ %s • ETA %s",
		t.State,
		formatter.FormatProgress(t.Progress),
		formatter.FormatSize(t.TotalSize),
		formatter.FormatSpeed(t.DlSpeed),
		formatter.FormatSpeed(t.UpSpeed),
		formatter.FormatETA(t.ETA),
	)
}

func torrentItems(torrents []models.Torrent) []list.Item {
	items := make([]list.Item, len(torrents))
	for i, t := range torrents {
		items[i] = torrentItem{torrent: t}
	}
	return items
}
