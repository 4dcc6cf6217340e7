package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// every pooled connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "submissions")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without sequence")
	}
}

func TestSubmissionRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewSubmissionRepository(setupTestDB(t))
		s := models.NewSubmission(0, "magnet:?xt=urn:btih:abc", true, 200)

		if err := repo.Create(s); err != nil {
			t.Fatalf("failed to create submission: %v", err)
		}
		if s.ID() == "" {
			t.Error("submission ID should be set after creation")
		}
		if s.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", s.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewSubmissionRepository(setupTestDB(t))
		s := models.NewSubmission(0, "https://example.org/file.torrent", false, 403)
		if err := repo.Create(s); err != nil {
			t.Fatalf("failed to create submission: %v", err)
		}

		got, err := repo.Get(s.ID())
		if err != nil {
			t.Fatalf("failed to get submission: %v", err)
		}
		if got.URL() != s.URL() || got.Accepted() || got.StatusCode() != 403 {
			t.Errorf("unexpected submission %+v", got)
		}
		if got.Message() != models.MessageAddFailed {
			t.Errorf("expected failure message, got %q", got.Message())
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewSubmissionRepository(setupTestDB(t))
		if _, err := repo.Get("nope"); !errors.Is(err, shared.ErrSubmissionNotFound) {
			t.Errorf("expected ErrSubmissionNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewSubmissionRepository(setupTestDB(t))
		s := models.NewSubmission(0, "magnet:?xt=urn:btih:abc", false, 500)
		if err := repo.Create(s); err != nil {
			t.Fatalf("failed to create submission: %v", err)
		}

		s.SetOutcome(true, 200)
		if err := repo.Update(s); err != nil {
			t.Fatalf("failed to update submission: %v", err)
		}

		got, err := repo.Get(s.ID())
		if err != nil {
			t.Fatalf("failed to get submission: %v", err)
		}
		if !got.Accepted() || got.StatusCode() != 200 {
			t.Errorf("expected updated outcome, got accepted=%v status=%d", got.Accepted(), got.StatusCode())
		}
	})

	t.Run("Update Missing", func(t *testing.T) {
		repo := NewSubmissionRepository(setupTestDB(t))
		s := models.NewSubmission(0, "x", true, 200)
		s.SetID("missing")
		if err := repo.Update(s); !errors.Is(err, shared.ErrSubmissionNotFound) {
			t.Errorf("expected ErrSubmissionNotFound, got %v", err)
		}
	})

	t.Run("Delete Is Soft", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSubmissionRepository(db)
		s := models.NewSubmission(0, "magnet:?xt=urn:btih:abc", true, 200)
		if err := repo.Create(s); err != nil {
			t.Fatalf("failed to create submission: %v", err)
		}

		if err := repo.Delete(s.ID()); err != nil {
			t.Fatalf("failed to delete submission: %v", err)
		}
		if _, err := repo.Get(s.ID()); !errors.Is(err, shared.ErrSubmissionNotFound) {
			t.Errorf("expected deleted submission to be hidden, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM submissions WHERE deleted_at IS NOT NULL").Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 1 {
			t.Errorf("expected row to remain with deleted_at set, got %d", count)
		}

		if err := repo.Delete(s.ID()); !errors.Is(err, shared.ErrSubmissionNotFound) {
			t.Errorf("expected second delete to fail, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewSubmissionRepository(setupTestDB(t))
		for _, s := range []*models.Submission{
			models.NewSubmission(0, "a", true, 200),
			models.NewSubmission(0, "b", false, 403),
			models.NewSubmission(0, "c", true, 200),
		} {
			if err := repo.Create(s); err != nil {
				t.Fatalf("failed to create submission: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list submissions: %v", err)
		}
		if len(all) != 3 || all[0].URL() != "a" || all[2].URL() != "c" {
			t.Errorf("expected submissions in sequence order, got %d", len(all))
		}

		accepted, err := repo.List(map[string]any{"accepted": true})
		if err != nil {
			t.Fatalf("failed to list submissions: %v", err)
		}
		if len(accepted) != 2 {
			t.Errorf("expected 2 accepted submissions, got %d", len(accepted))
		}

		byURL, err := repo.List(map[string]any{"url": "b"})
		if err != nil {
			t.Fatalf("failed to list submissions: %v", err)
		}
		if len(byURL) != 1 || byURL[0].StatusCode() != 403 {
			t.Errorf("expected the rejected submission, got %d", len(byURL))
		}

		bySequence, err := repo.List(map[string]any{"sequence": all[1].Sequence()})
		if err != nil {
			t.Fatalf("failed to list submissions: %v", err)
		}
		if len(bySequence) != 1 || bySequence[0].URL() != "b" {
			t.Errorf("expected the second submission, got %d", len(bySequence))
		}
	})

	t.Run("Recent", func(t *testing.T) {
		repo := NewSubmissionRepository(setupTestDB(t))
		for _, u := range []string{"a", "b", "c"} {
			if err := repo.Create(models.NewSubmission(0, u, true, 200)); err != nil {
				t.Fatalf("failed to create submission: %v", err)
			}
		}

		recent, err := repo.Recent(2)
		if err != nil {
			t.Fatalf("failed to get recent submissions: %v", err)
		}
		if len(recent) != 2 || recent[0].URL() != "c" || recent[1].URL() != "b" {
			t.Errorf("expected newest first, got %d entries", len(recent))
		}

		none, err := repo.Recent(0)
		if err != nil || len(none) != 0 {
			t.Errorf("expected no submissions for limit 0, got %d (%v)", len(none), err)
		}
	})
}

func TestSubmissionLog(t *testing.T) {
	t.Run("RecordSubmission", func(t *testing.T) {
		log := NewSubmissionLog(NewSubmissionRepository(setupTestDB(t)))

		if err := log.RecordSubmission("magnet:?xt=urn:btih:abc", true, 200); err != nil {
			t.Fatalf("failed to record submission: %v", err)
		}
		if err := log.RecordSubmission("", false, 400); err != nil {
			t.Fatalf("empty URL should be recorded: %v", err)
		}

		recent, err := log.Recent(10)
		if err != nil {
			t.Fatalf("failed to get recent submissions: %v", err)
		}
		if len(recent) != 2 || recent[0].URL() != "" || !recent[1].Accepted() {
			t.Errorf("unexpected history of %d entries", len(recent))
		}
	})

	t.Run("Invalid URL", func(t *testing.T) {
		log := NewSubmissionLog(NewSubmissionRepository(setupTestDB(t)))
		err := log.RecordSubmission("bad\x00url", true, 200)
		if !errors.Is(err, shared.ErrInvalidSubmission) {
			t.Errorf("expected ErrInvalidSubmission, got %v", err)
		}
	})
}
