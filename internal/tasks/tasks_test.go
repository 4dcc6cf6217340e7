package tasks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/services"
	"github.com/desertthunder/qbx/internal/shared"
	tu "github.com/desertthunder/qbx/internal/testing"
)

type recordedSubmission struct {
	url        string
	accepted   bool
	statusCode int
}

type fakeStore struct {
	mu        sync.Mutex
	records   []recordedSubmission
	recordErr error
	recent    []*models.Submission
	recentErr error
}

func (s *fakeStore) RecordSubmission(rawURL string, accepted bool, statusCode int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return s.recordErr
	}
	s.records = append(s.records, recordedSubmission{rawURL, accepted, statusCode})
	return nil
}

func (s *fakeStore) Recent(limit int) ([]*models.Submission, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	if limit < len(s.recent) {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func newTestEngine(svc services.TorrentService, store SubmissionStore) (*TorrentEngine, *bytes.Buffer) {
	var logs bytes.Buffer
	return NewTorrentEngine(svc, store, shared.NewLogger(&logs)), &logs
}

func TestTorrentEngine_Overview(t *testing.T) {
	tests := []struct {
		name           string
		svc            *tu.MockService
		wantErr        error
		wantInProgress int
		wantCompleted  int
		wantNotice     bool
	}{
		{
			name: "Classifies Downloading And Finished",
			svc: &tu.MockService{
				LoginSession: services.Session{SID: "abc"},
				TorrentList: []models.Torrent{
					{Name: "a", State: models.StateDownloading, Progress: 0.4},
					{Name: "b", State: models.StatePausedUP, Progress: 1.0},
				},
			},
			wantInProgress: 1,
			wantCompleted:  1,
		},
		{
			name: "Auth Failure Continues With Empty Session",
			svc: &tu.MockService{
				LoginErr:    &services.AuthError{StatusCode: http.StatusOK, Body: "Fails."},
				TorrentsErr: &services.APIError{Endpoint: "/api/v2/torrents/info", StatusCode: http.StatusForbidden},
			},
			wantNotice: true,
		},
		{
			name: "Rejected Fetch Degrades To Empty",
			svc: &tu.MockService{
				LoginSession: services.Session{SID: "abc"},
				TorrentsErr:  &services.APIError{Endpoint: "/api/v2/torrents/info", StatusCode: http.StatusInternalServerError},
			},
			wantNotice: true,
		},
		{
			name: "Network Failure On Login Is Returned",
			svc: &tu.MockService{
				LoginErr: fmt.Errorf("%w: request failed: dial tcp", shared.ErrServiceUnavailable),
			},
			wantErr: shared.ErrServiceUnavailable,
		},
		{
			name: "Malformed Body Is Returned",
			svc: &tu.MockService{
				LoginSession: services.Session{SID: "abc"},
				TorrentsErr:  fmt.Errorf("%w: bad json", shared.ErrMalformedResponse),
			},
			wantErr: shared.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(tt.svc, nil)

			overview, err := engine.Overview(context.Background(), services.ListOptions{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(overview.InProgress) != tt.wantInProgress {
				t.Errorf("expected %d in progress, got %d", tt.wantInProgress, len(overview.InProgress))
			}
			if len(overview.Completed) != tt.wantCompleted {
				t.Errorf("expected %d completed, got %d", tt.wantCompleted, len(overview.Completed))
			}
			if (overview.Notice != "") != tt.wantNotice {
				t.Errorf("unexpected notice %q", overview.Notice)
			}
			if overview.FetchedAt.IsZero() {
				t.Error("expected FetchedAt to be set")
			}
		})
	}

	t.Run("Uses Session From Login And Forwards Options", func(t *testing.T) {
		svc := &tu.MockService{LoginSession: services.Session{SID: "abc"}}
		engine, _ := newTestEngine(svc, nil)

		opts := services.ListOptions{Filter: "downloading", Category: "linux"}
		if _, err := engine.Overview(context.Background(), opts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.LastSession().SID != "abc" {
			t.Errorf("expected session abc, got %q", svc.LastSession().SID)
		}
		if svc.LastListOptions() != opts {
			t.Errorf("expected options %+v, got %+v", opts, svc.LastListOptions())
		}
		if calls := svc.Calls(); len(calls) != 2 || calls[0] != "login" || calls[1] != "torrents" {
			t.Errorf("unexpected call sequence %v", calls)
		}
	})

	t.Run("Re-Authenticates Every Call", func(t *testing.T) {
		svc := &tu.MockService{LoginSession: services.Session{SID: "abc"}}
		engine, _ := newTestEngine(svc, nil)

		for range 3 {
			engine.Overview(context.Background(), services.ListOptions{})
		}
		logins := 0
		for _, c := range svc.Calls() {
			if c == "login" {
				logins++
			}
		}
		if logins != 3 {
			t.Errorf("expected 3 logins, got %d", logins)
		}
	})

	t.Run("Nil Service", func(t *testing.T) {
		engine, _ := newTestEngine(nil, nil)
		if _, err := engine.Overview(context.Background(), services.ListOptions{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestTorrentEngine_Submit(t *testing.T) {
	const magnet = "magnet:?xt=urn:btih:abc"

	t.Run("Accepted", func(t *testing.T) {
		svc := &tu.MockService{
			LoginSession: services.Session{SID: "abc"},
			AddResult:    services.AddResult{Accepted: true, StatusCode: http.StatusOK},
		}
		store := &fakeStore{}
		engine, _ := newTestEngine(svc, store)

		res, err := engine.Submit(context.Background(), magnet, services.AddOptions{Category: "iso"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Message != "Torrent added successfully." || !res.Accepted {
			t.Errorf("unexpected result %+v", res)
		}
		if svc.LastURL() != magnet || svc.LastAddOptions().Category != "iso" {
			t.Errorf("expected URL and options to be forwarded, got %q %+v", svc.LastURL(), svc.LastAddOptions())
		}
		if len(store.records) != 1 || store.records[0] != (recordedSubmission{magnet, true, 200}) {
			t.Errorf("unexpected records %+v", store.records)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		svc := &tu.MockService{
			LoginSession: services.Session{SID: "abc"},
			AddResult:    services.AddResult{Accepted: false, StatusCode: http.StatusForbidden},
		}
		store := &fakeStore{}
		engine, _ := newTestEngine(svc, store)

		res, err := engine.Submit(context.Background(), magnet, services.AddOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Message != "Failed to add torrent." || res.Accepted || res.StatusCode != http.StatusForbidden {
			t.Errorf("unexpected result %+v", res)
		}
		if len(store.records) != 1 || store.records[0].accepted {
			t.Errorf("expected rejected record, got %+v", store.records)
		}
	})

	t.Run("Recording Failure Is Swallowed", func(t *testing.T) {
		svc := &tu.MockService{AddResult: services.AddResult{Accepted: true, StatusCode: http.StatusOK}}
		engine, logs := newTestEngine(svc, &fakeStore{recordErr: errors.New("disk full")})

		res, err := engine.Submit(context.Background(), magnet, services.AddOptions{})
		if err != nil || !res.Accepted {
			t.Fatalf("expected accepted result, got %+v (%v)", res, err)
		}
		if !strings.Contains(logs.String(), "failed to record submission") {
			t.Errorf("expected recording failure to be logged, got %q", logs.String())
		}
	})

	t.Run("Empty URL Is Forwarded", func(t *testing.T) {
		svc := &tu.MockService{AddResult: services.AddResult{StatusCode: http.StatusBadRequest}}
		engine, _ := newTestEngine(svc, nil)

		res, err := engine.Submit(context.Background(), "", services.AddOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Accepted || svc.LastURL() != "" {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("Network Failure", func(t *testing.T) {
		svc := &tu.MockService{AddErr: fmt.Errorf("%w: request failed", shared.ErrServiceUnavailable)}
		store := &fakeStore{}
		engine, _ := newTestEngine(svc, store)

		if _, err := engine.Submit(context.Background(), magnet, services.AddOptions{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if len(store.records) != 0 {
			t.Errorf("expected nothing recorded, got %+v", store.records)
		}
	})
}

func TestTorrentEngine_Resubmit(t *testing.T) {
	t.Run("Updates Outcome Without Recording", func(t *testing.T) {
		svc := &tu.MockService{
			LoginSession: services.Session{SID: "abc"},
			AddResult:    services.AddResult{Accepted: true, StatusCode: http.StatusOK},
		}
		store := &fakeStore{}
		engine, _ := newTestEngine(svc, store)
		sub := models.NewSubmission(4, "magnet:?xt=urn:btih:retry", false, http.StatusForbidden)

		res, err := engine.Resubmit(context.Background(), sub)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Accepted || res.Message != models.MessageAdded {
			t.Errorf("unexpected result %+v", res)
		}
		if !sub.Accepted() || sub.StatusCode() != http.StatusOK || sub.Sequence() != 4 {
			t.Errorf("expected outcome on the submission, got %v/%d", sub.Accepted(), sub.StatusCode())
		}
		if svc.LastURL() != "magnet:?xt=urn:btih:retry" {
			t.Errorf("unexpected URL %q", svc.LastURL())
		}
		if len(store.records) != 0 {
			t.Errorf("expected no new history row, got %+v", store.records)
		}
	})

	t.Run("Network Failure Leaves Submission Alone", func(t *testing.T) {
		svc := &tu.MockService{AddErr: fmt.Errorf("%w: request failed", shared.ErrServiceUnavailable)}
		engine, _ := newTestEngine(svc, nil)
		sub := models.NewSubmission(1, "x", false, http.StatusForbidden)

		if _, err := engine.Resubmit(context.Background(), sub); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if sub.Accepted() || sub.StatusCode() != http.StatusForbidden {
			t.Error("expected the previous outcome to be kept")
		}
	})
}

func TestTorrentEngine_Detail(t *testing.T) {
	t.Run("Combines Properties And Files", func(t *testing.T) {
		svc := &tu.MockService{
			LoginSession: services.Session{SID: "abc"},
			Props:        models.TorrentProperties{SavePath: "/data", PiecesNum: 12},
			FileList:     []models.TorrentFile{{Name: "a.iso"}, {Name: "b.iso", Index: 1}},
		}
		engine, _ := newTestEngine(svc, nil)

		detail, err := engine.Detail(context.Background(), "deadbeef")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Hash != "deadbeef" || detail.Properties.PiecesNum != 12 || len(detail.Files) != 2 {
			t.Errorf("unexpected detail %+v", detail)
		}
		if svc.LastHash() != "deadbeef" || svc.LastSession().SID != "abc" {
			t.Errorf("expected hash and session to be forwarded, got %q %+v", svc.LastHash(), svc.LastSession())
		}
	})

	t.Run("Unknown Hash Keeps APIError", func(t *testing.T) {
		svc := &tu.MockService{PropsErr: &services.APIError{StatusCode: http.StatusNotFound}}
		engine, _ := newTestEngine(svc, nil)

		_, err := engine.Detail(context.Background(), "missing")
		var apiErr *services.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 APIError, got %v", err)
		}
		for _, c := range svc.Calls() {
			if c == "files" {
				t.Error("files must not be requested after properties failed")
			}
		}
	})
}

func TestTorrentEngine_Status(t *testing.T) {
	t.Run("Authenticated", func(t *testing.T) {
		svc := &tu.MockService{LoginSession: services.Session{SID: "abc"}, VersionStr: "v4.6.2"}
		engine, _ := newTestEngine(svc, nil)

		status, err := engine.Status(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !status.Authenticated || status.Version != "v4.6.2" {
			t.Errorf("unexpected status %+v", status)
		}
	})

	t.Run("Rejected Login", func(t *testing.T) {
		svc := &tu.MockService{LoginErr: &services.AuthError{StatusCode: http.StatusForbidden}}
		engine, _ := newTestEngine(svc, nil)

		status, err := engine.Status(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status.Authenticated || status.LoginStatus != http.StatusForbidden {
			t.Errorf("unexpected status %+v", status)
		}
		for _, c := range svc.Calls() {
			if c == "version" {
				t.Error("version must not be requested after a rejected login")
			}
		}
	})
}

func TestTorrentEngine_History(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		engine, _ := newTestEngine(&tu.MockService{}, nil)
		if engine.HistoryEnabled() {
			t.Error("expected history to be disabled")
		}
		if _, err := engine.History(context.Background(), 5); !errors.Is(err, shared.ErrHistoryDisabled) {
			t.Errorf("expected ErrHistoryDisabled, got %v", err)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		store := &fakeStore{recent: []*models.Submission{
			models.NewSubmission(3, "c", true, 200),
			models.NewSubmission(2, "b", false, 403),
			models.NewSubmission(1, "a", true, 200),
		}}
		engine, _ := newTestEngine(&tu.MockService{}, store)

		subs, err := engine.History(context.Background(), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(subs) != 2 || subs[0].URL() != "c" {
			t.Errorf("unexpected history %v", subs)
		}
	})
}

func TestTorrentEngine_BulkSubmit(t *testing.T) {
	t.Run("Collects Outcomes In Input Order", func(t *testing.T) {
		fake := tu.NewFakeQBittorrent()
		server := httptest.NewServer(fake)
		defer server.Close()

		client := services.NewClient(services.ClientOpts{
			BaseURL:     server.URL,
			Credentials: services.Credentials{Username: "admin", Password: "adminadmin"},
			Logger:      shared.NewLogger(&bytes.Buffer{}),
		})
		store := &fakeStore{}
		engine, _ := newTestEngine(client, store)

		urls := []string{"magnet:?xt=urn:btih:1", "magnet:?xt=urn:btih:2", "magnet:?xt=urn:btih:3"}
		prog := make(chan ProgressUpdate, 32)

		result, err := engine.BulkSubmit(context.Background(), prog, urls, BulkSubmitOpts{NumWorkers: 2, RateLimit: 100})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 3 || result.Accepted != 3 || result.Rejected != 0 || result.Failed != 0 {
			t.Errorf("unexpected counts %+v", result)
		}
		for i, o := range result.Outcomes {
			if o.URL != urls[i] || o.Result == nil || !o.Result.Accepted {
				t.Errorf("outcome %d: unexpected %+v", i, o)
			}
		}
		if fake.Logins() != 1 {
			t.Errorf("expected one login for the batch, got %d", fake.Logins())
		}
		if len(fake.Added()) != 3 || len(store.records) != 3 {
			t.Errorf("expected 3 adds and 3 records, got %d and %d", len(fake.Added()), len(store.records))
		}

		close(prog)
		var last ProgressUpdate
		for u := range prog {
			last = u
		}
		if last.Phase != Complete {
			t.Errorf("expected final update to be complete, got %s", last.Phase)
		}
	})

	t.Run("Rejected And Failed", func(t *testing.T) {
		svc := &tu.MockService{AddResult: services.AddResult{StatusCode: http.StatusForbidden}}
		engine, _ := newTestEngine(svc, nil)

		result, err := engine.BulkSubmit(context.Background(), nil, []string{"a", "b"}, BulkSubmitOpts{RateLimit: 100})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Rejected != 2 {
			t.Errorf("expected 2 rejected, got %+v", result)
		}

		failing := &tu.MockService{AddErr: errors.New("boom")}
		engine, _ = newTestEngine(failing, nil)
		result, err = engine.BulkSubmit(context.Background(), nil, []string{"a"}, BulkSubmitOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Failed != 1 || result.Outcomes[0].Error == nil {
			t.Errorf("expected 1 failure, got %+v", result)
		}
	})

	t.Run("Canceled Context Fails Remaining", func(t *testing.T) {
		engine, _ := newTestEngine(&tu.MockService{}, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := engine.BulkSubmit(ctx, nil, []string{"a", "b"}, BulkSubmitOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Failed != 2 {
			t.Errorf("expected both URLs to fail, got %+v", result)
		}
	})

	t.Run("No URLs", func(t *testing.T) {
		engine, _ := newTestEngine(&tu.MockService{}, nil)
		if _, err := engine.BulkSubmit(context.Background(), nil, nil, BulkSubmitOpts{}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestEngineAgainstFakeQBittorrent(t *testing.T) {
	t.Run("Empty Credentials Yield Empty List With Notice", func(t *testing.T) {
		fake := tu.NewFakeQBittorrent()
		fake.Torrents = []models.Torrent{{Name: "hidden", Progress: 0.5}}
		server := httptest.NewServer(fake)
		defer server.Close()

		client := services.NewClient(services.ClientOpts{
			BaseURL: server.URL,
			Timeout: time.Second,
			Logger:  shared.NewLogger(&bytes.Buffer{}),
		})
		engine, logs := newTestEngine(client, nil)

		overview, err := engine.Overview(context.Background(), services.ListOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !overview.Empty() || overview.Notice == "" {
			t.Errorf("expected empty overview with notice, got %+v", overview)
		}
		if !strings.Contains(logs.String(), "continuing without a session") {
			t.Errorf("expected auth failure to be logged, got %q", logs.String())
		}
	})

	t.Run("Submit Messages", func(t *testing.T) {
		for _, tc := range []struct {
			name      string
			addStatus int
			want      string
		}{
			{"200", http.StatusOK, "Torrent added successfully."},
			{"403", http.StatusForbidden, "Failed to add torrent."},
		} {
			t.Run(tc.name, func(t *testing.T) {
				fake := tu.NewFakeQBittorrent()
				fake.AddStatus = tc.addStatus
				server := httptest.NewServer(fake)
				defer server.Close()

				client := services.NewClient(services.ClientOpts{
					BaseURL:     server.URL,
					Credentials: services.Credentials{Username: "admin", Password: "adminadmin"},
					Logger:      shared.NewLogger(&bytes.Buffer{}),
				})
				engine, _ := newTestEngine(client, nil)

				res, err := engine.Submit(context.Background(), "magnet:?xt=urn:btih:x", services.AddOptions{})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if res.Message != tc.want {
					t.Errorf("expected %q, got %q", tc.want, res.Message)
				}
			})
		}
	})
}
