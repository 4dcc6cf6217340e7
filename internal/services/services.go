// package services defines interface TorrentService for the qBittorrent Web API
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/shared"
)

// TorrentService is the collaborator surface used by the engine, the web handlers and the CLI.
type TorrentService interface {
	// Login exchanges the configured credentials for a session token.
	Login(ctx context.Context) (Session, error)

	// Torrents returns the task list in collaborator order.
	Torrents(ctx context.Context, s Session, opts ListOptions) ([]models.Torrent, error)

	// AddTorrent asks the collaborator to start downloading rawURL.
	// A non-200 answer is a rejected [AddResult], not an error.
	AddTorrent(ctx context.Context, s Session, rawURL string, opts AddOptions) (AddResult, error)

	// Version returns the collaborator's application version string.
	Version(ctx context.Context, s Session) (string, error)

	// Properties returns the generic properties of the torrent with the given hash.
	Properties(ctx context.Context, s Session, hash string) (models.TorrentProperties, error)

	// Files returns the file list of the torrent with the given hash.
	Files(ctx context.Context, s Session, hash string) ([]models.TorrentFile, error)
}

// Credentials are the username and password sent to the login endpoint.
type Credentials struct {
	Username string
	Password string
}

// Session holds the SID cookie value issued by the collaborator.
type Session struct {
	SID string
}
// AddResult is the collaborator's answer to an add request.
type AddResult struct {
	Accepted   bool
	StatusCode int
}

// ListOptions are optional query parameters for torrents/info; the collaborator does the filtering.
type ListOptions struct {
	Filter   string // all, downloading, completed, paused, active, inactive, stalled, errored...
	Category string
	Sort     string
	Reverse  bool
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Filter != "" {
		q.Set("filter", o.Filter)
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Reverse {
		q.Set("reverse", "true")
	}
	return q
}

// AddOptions are optional form fields sent alongside "urls".
type AddOptions struct {
	Category string
	SavePath string
	Paused   bool
}

func (o AddOptions) form(rawURL string) url.Values {
	f := url.Values{}
	f.Set("urls", rawURL)
	if o.Category != "" {
		f.Set("category", o.Category)
	}
	if o.SavePath != "" {
		f.Set("savepath", o.SavePath)
	}
	if o.Paused {
		f.Set("paused", strconv.FormatBool(o.Paused))
	}
	return f
}

// AuthError reports a login the collaborator did not accept.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	if e.StatusCode == 200 {
		return fmt.Sprintf("%v: no session cookie in response (%q)", shared.ErrAuthFailed, e.Body)
	}
	return fmt.Sprintf("%v: status %d", shared.ErrAuthFailed, e.StatusCode)
}

func (e *AuthError) Unwrap() error { return shared.ErrAuthFailed }

// APIError reports a non-200 answer from a collaborator endpoint other than login.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s returned status %d", shared.ErrAPIRequest, e.Endpoint, e.StatusCode)
}

func (e *APIError) Unwrap() error { return shared.ErrAPIRequest }
