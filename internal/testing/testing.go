// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/services"
)

var _ services.TorrentService = (*MockService)(nil)

// MockService is a test double for [services.TorrentService].
//
// Each method returns the canned values set on the struct and records the call.
type MockService struct {
	LoginSession services.Session
	LoginErr     error
	TorrentList  []models.Torrent
	TorrentsErr  error
	AddResult    services.AddResult
	AddErr       error
	VersionStr   string
	VersionErr   error
	Props        models.TorrentProperties
	PropsErr     error
	FileList     []models.TorrentFile
	FilesErr     error

	mu          sync.Mutex
	calls       []string
	lastURL     string
	lastSession services.Session
	lastList    services.ListOptions
	lastAdd     services.AddOptions
	lastHash    string
}

func (m *MockService) record(call string, s services.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	m.lastSession = s
}

func (m *MockService) Login(ctx context.Context) (services.Session, error) {
	m.record("login", services.Session{})
	return m.LoginSession, m.LoginErr
}

func (m *MockService) Torrents(ctx context.Context, s services.Session, opts services.ListOptions) ([]models.Torrent, error) {
	m.record("torrents", s)
	m.mu.Lock()
	m.lastList = opts
	m.mu.Unlock()
	return m.TorrentList, m.TorrentsErr
}

func (m *MockService) AddTorrent(ctx context.Context, s services.Session, rawURL string, opts services.AddOptions) (services.AddResult, error) {
	m.record("add", s)
	m.mu.Lock()
	m.lastURL = rawURL
	m.lastAdd = opts
	m.mu.Unlock()
	return m.AddResult, m.AddErr
}

func (m *MockService) Version(ctx context.Context, s services.Session) (string, error) {
	m.record("version", s)
	return m.VersionStr, m.VersionErr
}

func (m *MockService) Properties(ctx context.Context, s services.Session, hash string) (models.TorrentProperties, error) {
	m.record("properties", s)
	m.mu.Lock()
	m.lastHash = hash
	m.mu.Unlock()
	return m.Props, m.PropsErr
}

func (m *MockService) Files(ctx context.Context, s services.Session, hash string) ([]models.TorrentFile, error) {
	m.record("files", s)
	m.mu.Lock()
	m.lastHash = hash
	m.mu.Unlock()
	return m.FileList, m.FilesErr
}

// LastHash returns the hash passed to the most recent Properties or Files call.
func (m *MockService) LastHash() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHash
}

// Calls returns the method names invoked so far, in order.
func (m *MockService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// LastURL returns the URL passed to the most recent AddTorrent call.
func (m *MockService) LastURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastURL
}

// LastSession returns the session passed to the most recent non-login call.
func (m *MockService) LastSession() services.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSession
}

// LastListOptions returns the options passed to the most recent Torrents call.
func (m *MockService) LastListOptions() services.ListOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastList
}

// LastAddOptions returns the options passed to the most recent AddTorrent call.
func (m *MockService) LastAddOptions() services.AddOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAdd
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}
