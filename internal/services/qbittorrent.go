// qBittorrent Web API [TorrentService] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://intel-n100.local:8080"
	defaultTimeout = 10 * time.Second

	loginPath    = "/api/v2/auth/login"
	torrentsPath = "/api/v2/torrents/info"
	addPath      = "/api/v2/torrents/add"
	versionPath  = "/api/v2/app/version"

	propertiesPath = "/api/v2/torrents/properties"
	filesPath      = "/api/v2/torrents/files"
)

var _ TorrentService = (*Client)(nil)

// ClientOpts contains configuration options for creating a [Client].
type ClientOpts struct {
	BaseURL     string
	Credentials Credentials
	HTTPClient  *http.Client  // overrides Timeout when set
	Timeout     time.Duration // per-request bound, defaults to 10s
	RateLimit   float64       // outbound requests per second, 0 means unlimited
	Logger      *log.Logger
}

// Client implements [TorrentService] against a qBittorrent instance.
type Client struct {
	api    *APIService
	creds  Credentials
	logger *log.Logger
}

// NewClient creates a [Client] from opts.
func NewClient(opts ClientOpts) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		api:    NewAPIService(opts.BaseURL, opts.HTTPClient, limiter),
		creds:  opts.Credentials,
		logger: shared.WithLogger(opts.Logger, "component", "qbittorrent"),
	}
}

// NewClientFromConfig builds a [Client] from the resolved application config.
func NewClientFromConfig(cfg *shared.Config, logger *log.Logger) *Client {
	return NewClient(ClientOpts{
		BaseURL: cfg.QBittorrent.URL,
		Credentials: Credentials{
			Username: cfg.QBittorrent.Username,
			Password: cfg.QBittorrent.Password,
		},
		Timeout:   cfg.QBittorrent.Timeout(),
		RateLimit: cfg.QBittorrent.RateLimit,
		Logger:    logger,
	})
}

// WithLogger returns a copy of c that logs to l. The transport is shared.
func (c *Client) WithLogger(l *log.Logger) *Client {
	cp := *c
	cp.logger = shared.WithLogger(l, "component", "qbittorrent")
	return &cp
}

// API exposes the raw transport for ad-hoc calls (`qbx api get`).
func (c *Client) API() *APIService {
	return c.api
}

// Login exchanges the credentials for a session token.
//
// Calls POST /api/v2/auth/login with form fields username and password. Empty credentials are sent as-is.
func (c *Client) Login(ctx context.Context) (Session, error) {
	form := url.Values{
		"username": {c.creds.Username},
		"password": {c.creds.Password},
	}

	resp, err := c.api.PostForm(ctx, loginPath, form, "")
	if err != nil {
		return Session{}, err
	}

	if !resp.OK() {
		c.logger.Warn("failed to get auth token", "status", resp.StatusCode, "body", string(resp.Body))
		return Session{}, &AuthError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	sid, ok := resp.Cookie(sessionCookie)
	if !ok || sid == "" {
		c.logger.Warn("login answered without a session cookie", "status", resp.StatusCode, "body", string(resp.Body))
		return Session{}, &AuthError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(resp.Body))}
	}

	c.logger.Debug("authenticated", "user", c.creds.Username)
	return Session{SID: sid}, nil
}

// Torrents fetches the task list.
//
// Calls GET /api/v2/torrents/info; the records are returned in collaborator order, unfiltered locally.
func (c *Client) Torrents(ctx context.Context, s Session, opts ListOptions) ([]models.Torrent, error) {
	resp, err := c.api.Get(ctx, torrentsPath, opts.query(), s.SID)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, &APIError{Endpoint: torrentsPath, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var torrents []models.Torrent
	if err := json.Unmarshal(resp.Body, &torrents); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrMalformedResponse, torrentsPath, err)
	}
	if torrents == nil {
		torrents = []models.Torrent{}
	}

	return torrents, nil
}

// AddTorrent submits rawURL (magnet link or HTTP URL, unvalidated) as a new task.
//
// Calls POST /api/v2/torrents/add. Only a 200 answer counts as accepted.
func (c *Client) AddTorrent(ctx context.Context, s Session, rawURL string, opts AddOptions) (AddResult, error) {
	resp, err := c.api.PostForm(ctx, addPath, opts.form(rawURL), s.SID)
	if err != nil {
		return AddResult{}, err
	}

	result := AddResult{Accepted: resp.OK(), StatusCode: resp.StatusCode}
	if !result.Accepted {
		c.logger.Warn("add rejected", "status", resp.StatusCode, "body", string(resp.Body))
	}
	return result, nil
}

// Version returns the collaborator's application version.
//
// Calls GET /api/v2/app/version, which answers with plain text such as "v4.6.2".
func (c *Client) Version(ctx context.Context, s Session) (string, error) {
	resp, err := c.api.Get(ctx, versionPath, nil, s.SID)
	if err != nil {
		return "", err
	}

	if !resp.OK() {
		return "", &APIError{Endpoint: versionPath, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return strings.TrimSpace(string(resp.Body)), nil
}

// Properties fetches one torrent's generic properties.
//
// Calls GET /api/v2/torrents/properties?hash=...; an unknown hash is an [APIError] with status 404.
func (c *Client) Properties(ctx context.Context, s Session, hash string) (models.TorrentProperties, error) {
	var props models.TorrentProperties
	if err := c.getJSON(ctx, s, propertiesPath, url.Values{"hash": {hash}}, &props); err != nil {
		return models.TorrentProperties{}, err
	}
	return props, nil
}

// Files fetches one torrent's file list.
//
// Calls GET /api/v2/torrents/files?hash=...
func (c *Client) Files(ctx context.Context, s Session, hash string) ([]models.TorrentFile, error) {
	var files []models.TorrentFile
	if err := c.getJSON(ctx, s, filesPath, url.Values{"hash": {hash}}, &files); err != nil {
		return nil, err
	}
	if files == nil {
		files = []models.TorrentFile{}
	}
	return files, nil
}

func (c *Client) getJSON(ctx context.Context, s Session, path string, query url.Values, v any) error {
	resp, err := c.api.Get(ctx, path, query, s.SID)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return &APIError{Endpoint: path, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrMalformedResponse, path, err)
	}
	return nil
}
