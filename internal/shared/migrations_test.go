package shared

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run should be a no-op, got %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM submissions LIMIT 1"); err != nil {
			t.Errorf("submissions table should exist after migrations: %v", err)
		}

		var seq int
		if err := db.QueryRow("SELECT value FROM submissions_sequence WHERE id = 1").Scan(&seq); err != nil {
			t.Fatalf("expected sequence row: %v", err)
		}
		if seq != 0 {
			t.Errorf("expected sequence to start at 0, got %d", seq)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}
		if _, err := db.Exec("SELECT 1 FROM submissions LIMIT 1"); err == nil {
			t.Error("submissions table should be gone after rollback")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing is left to roll back")
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		got := splitStatements("-- header\nCREATE TABLE a (x INT);\n\n-- trailing\n;SELECT 1;")
		if len(got) != 2 {
			t.Fatalf("expected 2 statements, got %d: %v", len(got), got)
		}
		if got[0] != "CREATE TABLE a (x INT)" {
			t.Errorf("unexpected first statement %q", got[0])
		}
	})
}

func TestOpenHistory(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		_, err := OpenHistory(DatabaseConfig{History: false, Path: "x.db"})
		if !errors.Is(err, ErrHistoryDisabled) {
			t.Errorf("expected ErrHistoryDisabled, got %v", err)
		}
	})

	t.Run("Empty Path", func(t *testing.T) {
		_, err := OpenHistory(DatabaseConfig{History: true})
		if !errors.Is(err, ErrHistoryDisabled) {
			t.Errorf("expected ErrHistoryDisabled, got %v", err)
		}
	})

	t.Run("Opens And Migrates", func(t *testing.T) {
		db, err := OpenHistory(DatabaseConfig{History: true, Path: filepath.Join(t.TempDir(), "qbx.db"), MaxOpenConns: 1})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("SELECT 1 FROM submissions LIMIT 1"); err != nil {
			t.Errorf("expected migrated schema: %v", err)
		}
	})
}
