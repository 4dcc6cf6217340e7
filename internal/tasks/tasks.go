// package tasks implements the request-scoped operations behind every qbx surface.
//
// The core abstraction is Engine: each call logs in afresh, talks to qBittorrent and hands back a
// view-ready result. No session survives between calls.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/services"
	"github.com/desertthunder/qbx/internal/shared"
)

const (
	noticeForbidden = "qBittorrent refused the request; check QB_USERNAME and QB_PASSWORD."
	noticeStatus    = "qBittorrent answered with status %d; the list is empty."
)

// Overview is the classified task list for one request.
type Overview struct {
	models.Collections
	Summary   models.Summary `json:"summary"`
	Notice    string         `json:"notice,omitempty"` // set when the list was degraded to empty
	FetchedAt time.Time      `json:"fetched_at"`
}

// SubmitResult is the outcome of one submission, including the user-facing message.
type SubmitResult struct {
	URL        string `json:"url"`
	Accepted   bool   `json:"accepted"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// StatusResult reports whether the configured credentials work.
type StatusResult struct {
	Authenticated bool   `json:"authenticated"`
	LoginStatus   int    `json:"login_status,omitempty"`
	Version       string `json:"version,omitempty"`
}

// Engine defines the operations exposed by the web, CLI and TUI layers.
type Engine interface {
	// Overview logs in, fetches the task list and classifies it.
	Overview(ctx context.Context, opts services.ListOptions) (*Overview, error)

	// Submit logs in and asks qBittorrent to download rawURL.
	Submit(ctx context.Context, rawURL string, opts services.AddOptions) (*SubmitResult, error)

	// Status logs in and reads the qBittorrent version.
	Status(ctx context.Context) (*StatusResult, error)

	// History returns up to limit recent submissions, newest first.
	History(ctx context.Context, limit int) ([]*models.Submission, error)

	// Detail logs in and fetches the properties and files of one torrent.
	Detail(ctx context.Context, hash string) (*models.TorrentDetail, error)
}

// SubmissionStore persists submissions for the history view.
//
// Implemented by repositories.SubmissionLog.
type SubmissionStore interface {
	RecordSubmission(rawURL string, accepted bool, statusCode int) error
	Recent(limit int) ([]*models.Submission, error)
}

// TorrentEngine implements [Engine] on top of a [services.TorrentService].
type TorrentEngine struct {
	svc    services.TorrentService
	store  SubmissionStore
	logger *log.Logger
}

var _ Engine = (*TorrentEngine)(nil)

// NewTorrentEngine creates a [TorrentEngine]. store may be nil, which disables history.
func NewTorrentEngine(svc services.TorrentService, store SubmissionStore, logger *log.Logger) *TorrentEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TorrentEngine{
		svc:    svc,
		store:  store,
		logger: shared.WithLogger(logger, "component", "engine"),
	}
}

// HistoryEnabled reports whether a [SubmissionStore] is configured.
func (e *TorrentEngine) HistoryEnabled() bool {
	return e.store != nil
}

// login authenticates. A rejected login is logged and replaced by the empty session so the
// following call still goes out and is refused by qBittorrent itself.
func (e *TorrentEngine) login(ctx context.Context) (services.Session, error) {
	if e.svc == nil {
		return services.Session{}, fmt.Errorf("%w: torrent service not initialized", shared.ErrServiceUnavailable)
	}

	session, err := e.svc.Login(ctx)
	if err != nil {
		var authErr *services.AuthError
		if errors.As(err, &authErr) {
			e.logger.Warn("continuing without a session", "status", authErr.StatusCode)
			return services.Session{}, nil
		}
		return services.Session{}, fmt.Errorf("failed to log in: %w", err)
	}
	return session, nil
}

// Overview logs in, fetches the task list and classifies it.
func (e *TorrentEngine) Overview(ctx context.Context, opts services.ListOptions) (*Overview, error) {
	session, err := e.login(ctx)
	if err != nil {
		return nil, err
	}

	torrents, err := e.svc.Torrents(ctx, session, opts)
	if err != nil {
		var apiErr *services.APIError
		if !errors.As(err, &apiErr) {
			return nil, fmt.Errorf("failed to fetch torrents: %w", err)
		}

		e.logger.Warn("torrent list unavailable", "status", apiErr.StatusCode)
		overview := newOverview(nil)
		overview.Notice = noticeFor(apiErr.StatusCode)
		return overview, nil
	}

	e.logger.Debug("fetched torrents", "count", len(torrents))
	return newOverview(torrents), nil
}

func newOverview(torrents []models.Torrent) *Overview {
	return &Overview{
		Collections: models.Classify(torrents),
		Summary:     models.Summarize(torrents),
		FetchedAt:   time.Now(),
	}
}

func noticeFor(status int) string {
	if status == http.StatusForbidden || status == http.StatusUnauthorized {
		return noticeForbidden
	}
	return fmt.Sprintf(noticeStatus, status)
}

// Submit logs in and asks qBittorrent to download rawURL. A rejection is a result, not an error.
func (e *TorrentEngine) Submit(ctx context.Context, rawURL string, opts services.AddOptions) (*SubmitResult, error) {
	session, err := e.login(ctx)
	if err != nil {
		return nil, err
	}
	return e.submit(ctx, session, rawURL, opts)
}

func (e *TorrentEngine) submit(ctx context.Context, session services.Session, rawURL string, opts services.AddOptions) (*SubmitResult, error) {
	result, err := e.add(ctx, session, rawURL, opts)
	if err != nil {
		return nil, err
	}
	e.record(result)
	return result, nil
}

func (e *TorrentEngine) add(ctx context.Context, session services.Session, rawURL string, opts services.AddOptions) (*SubmitResult, error) {
	added, err := e.svc.AddTorrent(ctx, session, rawURL, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to add torrent: %w", err)
	}
	return &SubmitResult{
		URL:        rawURL,
		Accepted:   added.Accepted,
		StatusCode: added.StatusCode,
		Message:    models.SubmissionMessage(added.Accepted),
	}, nil
}

// Resubmit sends a recorded submission's URL again and stores the new outcome on sub.
//
// No new history row is written; the caller persists sub.
func (e *TorrentEngine) Resubmit(ctx context.Context, sub *models.Submission) (*SubmitResult, error) {
	session, err := e.login(ctx)
	if err != nil {
		return nil, err
	}

	result, err := e.add(ctx, session, sub.URL(), services.AddOptions{})
	if err != nil {
		return nil, err
	}
	sub.SetOutcome(result.Accepted, result.StatusCode)
	e.logger.Info("resubmitted torrent", "sequence", sub.Sequence(), "accepted", result.Accepted)
	return result, nil
}

// record stores the submission; failures never reach the user.
func (e *TorrentEngine) record(r *SubmitResult) {
	if e.store == nil {
		return
	}
	if err := e.store.RecordSubmission(r.URL, r.Accepted, r.StatusCode); err != nil {
		e.logger.Error("failed to record submission", "url", r.URL, "error", err)
	}
}

// Status logs in and reads the qBittorrent version.
//
// Unlike the other operations a rejected login is reported rather than papered over.
func (e *TorrentEngine) Status(ctx context.Context) (*StatusResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: torrent service not initialized", shared.ErrServiceUnavailable)
	}

	session, err := e.svc.Login(ctx)
	if err != nil {
		var authErr *services.AuthError
		if errors.As(err, &authErr) {
			return &StatusResult{Authenticated: false, LoginStatus: authErr.StatusCode}, nil
		}
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	version, err := e.svc.Version(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	return &StatusResult{Authenticated: true, LoginStatus: http.StatusOK, Version: version}, nil
}

// History returns up to limit recent submissions, newest first.
func (e *TorrentEngine) History(ctx context.Context, limit int) ([]*models.Submission, error) {
	if e.store == nil {
		return nil, shared.ErrHistoryDisabled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.store.Recent(limit)
}

// Detail logs in and fetches the properties and files of one torrent.
//
// Collaborator refusals are returned as *services.APIError; an unknown hash comes back with status 404.
func (e *TorrentEngine) Detail(ctx context.Context, hash string) (*models.TorrentDetail, error) {
	session, err := e.login(ctx)
	if err != nil {
		return nil, err
	}

	props, err := e.svc.Properties(ctx, session, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	files, err := e.svc.Files(ctx, session, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch files: %w", err)
	}

	e.logger.Debug("fetched torrent detail", "hash", hash, "files", len(files))
	return &models.TorrentDetail{Hash: hash, Properties: props, Files: files}, nil
}
