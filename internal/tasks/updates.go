package tasks

import "fmt"

// ProgressUpdate represents a progress event during a bulk submission.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Authenticate Phase = iota
	SubmitTorrent
	Complete
)

func (p Phase) String() string {
	switch p {
	case Authenticate:
		return "authenticate"
	case SubmitTorrent:
		return "submit_torrent"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func authenticateUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authenticate,
		Step:    1,
		Total:   1,
		Message: "Logging in to qBittorrent...",
	}
}

func submittingUpdate(step, total int, rawURL string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitTorrent,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Submitting: %s...", step, total, shorten(rawURL)),
	}
}

func submittedUpdate(step, total int, res *SubmitResult) ProgressUpdate {
	mark := "✓"
	if !res.Accepted {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   SubmitTorrent,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s (%d)", step, total, mark, shorten(res.URL), res.StatusCode),
		Data:    res,
	}
}

func submitFailedUpdate(step, total int, rawURL string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitTorrent,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, shorten(rawURL), err),
	}
}

func completeUpdate(r *BulkSubmitResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    r.Total,
		Total:   r.Total,
		Message: fmt.Sprintf("Done: %d accepted, %d rejected, %d failed", r.Accepted, r.Rejected, r.Failed),
		Data:    r,
	}
}

// shorten keeps magnet links readable in a single progress line.
func shorten(s string) string {
	const limit = 60
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
