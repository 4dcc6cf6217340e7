package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/shared"
)

const submissionColumns = "id, sequence, url, accepted, status_code, created_at, updated_at, deleted_at"

var _ models.Repository[*models.Submission] = (*SubmissionRepository)(nil)

// SubmissionRepository implements models.Repository[*models.Submission] for submission history.
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new SubmissionRepository with the given database connection
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts s with a generated ID and the next sequence number.
func (r *SubmissionRepository) Create(s *models.Submission) error {
	sequence, err := NextSequence(r.db, "submissions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	s.SetID(shared.GenerateID())
	s.SetSequence(sequence)

	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidSubmission, err)
	}

	query := `
		INSERT INTO submissions (id, sequence, url, accepted, status_code, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		s.ID(),
		s.Sequence(),
		s.URL(),
		s.Accepted(),
		s.StatusCode(),
		s.Message(),
		s.CreatedAt(),
		s.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// Get retrieves a submission by ID, excluding soft-deleted rows
func (r *SubmissionRepository) Get(id string) (*models.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions WHERE id = ? AND deleted_at IS NULL"
	return scanSubmission(r.db.QueryRow(query, id))
}

// Update stores a changed outcome for an existing submission.
func (r *SubmissionRepository) Update(s *models.Submission) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidSubmission, err)
	}

	now := time.Now()
	s.SetUpdatedAt(now)

	query := `
		UPDATE submissions
		SET accepted = ?, status_code = ?, message = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, s.Accepted(), s.StatusCode(), s.Message(), now, s.ID())
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	return expectOneRow(result, s.ID())
}

// Delete soft-deletes a submission by ID
func (r *SubmissionRepository) Delete(id string) error {
	query := "UPDATE submissions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL"

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return expectOneRow(result, id)
}

// List retrieves submissions in sequence order.
//
// Supported criteria: "accepted" (bool), "url" (string, exact match) and "sequence" (int).
func (r *SubmissionRepository) List(criteria map[string]any) ([]*models.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions WHERE deleted_at IS NULL"
	args := []any{}

	if accepted, ok := criteria["accepted"].(bool); ok {
		query += " AND accepted = ?"
		args = append(args, accepted)
	}
	if url, ok := criteria["url"].(string); ok && url != "" {
		query += " AND url = ?"
		args = append(args, url)
	}

	if sequence, ok := criteria["sequence"].(int); ok {
		query += " AND sequence = ?"
		args = append(args, sequence)
	}

	query += " ORDER BY sequence ASC"
	return r.query(query, args...)
}

// Recent returns up to limit submissions, newest first. A non-positive limit returns none.
func (r *SubmissionRepository) Recent(limit int) ([]*models.Submission, error) {
	if limit <= 0 {
		return []*models.Submission{}, nil
	}
	query := "SELECT " + submissionColumns + " FROM submissions WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT ?"
	return r.query(query, limit)
}

func (r *SubmissionRepository) query(query string, args ...any) ([]*models.Submission, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	submissions := []*models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return submissions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*models.Submission, error) {
	var (
		id         string
		sequence   int
		url        string
		accepted   bool
		statusCode int
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &url, &accepted, &statusCode, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	s := models.NewSubmission(sequence, url, accepted, statusCode)
	s.SetID(id)
	s.SetCreatedAt(createdAt)
	s.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		s.SetDeletedAt(&deletedAt.Time)
	}
	return s, nil
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSubmissionNotFound, id)
	}
	return nil
}
