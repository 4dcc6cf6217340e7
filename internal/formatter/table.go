package formatter

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/qbx/internal/models"
)

const nameWidth = 48

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// TorrentTable renders torrents as a bordered terminal table.
func TorrentTable(torrents []models.Torrent) string {
	t := newTable("Name", "State", "Progress", "Size", "Down", "Up", "ETA", "Ratio")
	for _, tr := range torrents {
		t.Row(
			Truncate(tr.Name, nameWidth),
			string(tr.State),
			FormatProgress(tr.Progress),
			FormatSize(tr.TotalSize),
			FormatSpeed(tr.DlSpeed),
			FormatSpeed(tr.UpSpeed),
			FormatETA(tr.ETA),
			FormatRatio(tr.Ratio),
		)
	}
	return t.String()
}

// HistoryTable renders submissions as a bordered terminal table.
func HistoryTable(submissions []*models.Submission) string {
	t := newTable("#", "When", "Status", "Result", "URL")
	for _, s := range submissions {
		t.Row(
			strconv.Itoa(s.Sequence()),
			FormatEpoch(s.CreatedAt().Unix()),
			strconv.Itoa(s.StatusCode()),
			s.Message(),
			Truncate(s.URL(), 64),
		)
	}
	return t.String()
}

// FileTable renders a torrent's files as a bordered terminal table.
func FileTable(files []models.TorrentFile) string {
	t := newTable("#", "Name", "Size", "Progress", "Priority")
	for _, f := range files {
		t.Row(
			strconv.Itoa(f.Index),
			Truncate(f.Name, nameWidth),
			FormatSize(f.Size),
			FormatProgress(f.Progress),
			strconv.Itoa(f.Priority),
		)
	}
	return t.String()
}
