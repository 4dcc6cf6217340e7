package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/qbx/internal/models"
)

var csvHeaders = []string{
	"Hash", "Name", "State", "Progress", "Size", "Total Size", "Down Speed", "Up Speed",
	"ETA", "Ratio", "Seeds", "Leechers", "Category", "Tracker", "Added On", "Save Path",
}

// ExportToCSV converts torrents to CSV, one row per torrent in the given order.
//
// Numeric columns carry raw values (bytes, seconds, epoch) so the file stays machine-readable.
func ExportToCSV(torrents []models.Torrent) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, t := range torrents {
		record := []string{
			t.Hash,
			t.Name,
			string(t.State),
			strconv.FormatFloat(t.Progress, 'f', 4, 64),
			strconv.FormatInt(t.Size, 10),
			strconv.FormatInt(t.TotalSize, 10),
			strconv.FormatInt(t.DlSpeed, 10),
			strconv.FormatInt(t.UpSpeed, 10),
			strconv.FormatInt(t.ETA, 10),
			strconv.FormatFloat(t.Ratio, 'f', 2, 64),
			strconv.Itoa(t.NumSeeds),
			strconv.Itoa(t.NumLeechs),
			t.Category,
			t.TrackerHost(),
			strconv.FormatInt(t.AddedOn, 10),
			t.SavePath,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSVExport writes torrents to path, defaulting to torrents.csv.
func WriteCSVExport(torrents []models.Torrent, path string) (string, error) {
	if path == "" {
		path = "torrents.csv"
	}

	data, err := ExportToCSV(torrents)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return path, nil
}
