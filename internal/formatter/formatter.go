// package formatter renders torrent values for people: sizes, speeds, durations, CSV exports and terminal tables
package formatter

import (
	"fmt"
	"strings"
	"time"
)

// InfiniteETA is the sentinel qBittorrent reports when a torrent will never finish.
const InfiniteETA = 8640000

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatSize renders a byte count in 1024 steps with two decimals, e.g. "1.50 GB".
//
// A value of exactly 1024 stays in the lower unit ("1024.00 B").
func FormatSize(bytes int64) string {
	size := float64(bytes)
	unit := 0
	for size > 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", size, sizeUnits[unit])
}

// FormatSpeed renders a bytes-per-second rate, e.g. "3.20 MB/s".
func FormatSpeed(bytesPerSec int64) string {
	return FormatSize(bytesPerSec) + "/s"
}

// FormatETA renders an ETA in seconds as its two largest units, or "∞" for [InfiniteETA].
func FormatETA(seconds int64) string {
	if seconds == InfiniteETA {
		return "∞"
	}
	return FormatDuration(seconds, 2)
}

var durationUnits = []struct {
	suffix string
	secs   int64
}{
	{"d", 86400},
	{"h", 3600},
	{"m", 60},
	{"s", 1},
}

// FormatDuration renders seconds using at most parts adjacent units, largest first: 3661 with two parts is "1h 1m",
// 3601 is "1h".
func FormatDuration(seconds int64, parts int) string {
	if seconds <= 0 || parts <= 0 {
		return "0s"
	}

	out := make([]string, 0, parts)
	for _, u := range durationUnits {
		if len(out) == parts {
			break
		}
		if n := seconds / u.secs; n > 0 {
			out = append(out, fmt.Sprintf("%d%s", n, u.suffix))
			seconds -= n * u.secs
		} else if len(out) > 0 {
			break
		}
	}
	return strings.Join(out, " ")
}

// FormatProgress renders a [0,1] fraction as a percentage with two decimals.
func FormatProgress(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

// FormatRatio renders a share ratio with two decimals.
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.2f", r)
}

// FormatEpoch renders a Unix timestamp in local time. Zero and negative values mean "never" and render as "-".
func FormatEpoch(epoch int64) string {
	if epoch <= 0 {
		return "-"
	}
	return time.Unix(epoch, 0).Local().Format(time.DateTime)
}

// Truncate shortens s to n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
