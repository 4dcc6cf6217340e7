package repositories

import (
	"fmt"

	"github.com/desertthunder/qbx/internal/models"
)

// SubmissionLog implements tasks.SubmissionStore using [SubmissionRepository].
type SubmissionLog struct {
	*SubmissionRepository
}

// NewSubmissionLog creates a new SubmissionLog with the given repository
func NewSubmissionLog(repo *SubmissionRepository) *SubmissionLog {
	return &SubmissionLog{SubmissionRepository: repo}
}

// RecordSubmission stores one add outcome.
func (l *SubmissionLog) RecordSubmission(rawURL string, accepted bool, statusCode int) error {
	if err := l.Create(models.NewSubmission(0, rawURL, accepted, statusCode)); err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}
