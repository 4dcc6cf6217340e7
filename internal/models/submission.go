package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	// MessageAdded is shown when the collaborator answers torrents/add with 200.
	MessageAdded = "Torrent added successfully."
	// MessageAddFailed is shown for every other answer.
	MessageAddFailed = "Failed to add torrent."
)

// SubmissionMessage maps the add outcome onto one of the two fixed user-facing messages.
func SubmissionMessage(accepted bool) string {
	if accepted {
		return MessageAdded
	}
	return MessageAddFailed
}

// Submission records one URL handed to the collaborator's add endpoint.
type Submission struct {
	id         string
	sequence   int
	url        string
	accepted   bool
	statusCode int
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewSubmission creates an unsaved [Submission] stamped with the current time.
func NewSubmission(sequence int, url string, accepted bool, statusCode int) *Submission {
	now := time.Now()
	return &Submission{
		sequence:   sequence,
		url:        url,
		accepted:   accepted,
		statusCode: statusCode,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (s *Submission) ID() string            { return s.id }
func (s *Submission) Sequence() int         { return s.sequence }
func (s *Submission) URL() string           { return s.url }
func (s *Submission) Accepted() bool        { return s.accepted }
func (s *Submission) StatusCode() int       { return s.statusCode }
func (s *Submission) Message() string       { return SubmissionMessage(s.accepted) }
func (s *Submission) CreatedAt() time.Time  { return s.createdAt }
func (s *Submission) UpdatedAt() time.Time  { return s.updatedAt }
func (s *Submission) DeletedAt() *time.Time { return s.deletedAt }

func (s *Submission) SetID(id string)           { s.id = id }
func (s *Submission) SetSequence(seq int)       { s.sequence = seq }
func (s *Submission) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *Submission) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *Submission) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// SetOutcome records the collaborator's answer.
func (s *Submission) SetOutcome(accepted bool, statusCode int) {
	s.accepted = accepted
	s.statusCode = statusCode
}

// Validate checks the record can be stored. An empty URL is valid: the form value is forwarded unchecked.
func (s *Submission) Validate() error {
	if s.id == "" {
		return errors.New("submission ID is required")
	}
	if s.statusCode < 0 {
		return errors.New("status code must not be negative")
	}
	if len(s.url) > 8192 || strings.ContainsRune(s.url, 0) {
		return errors.New("url is not storable")
	}
	return nil
}

// MarshalJSON renders the record for `qbx history list --json`.
func (s *Submission) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string    `json:"id"`
		Sequence   int       `json:"sequence"`
		URL        string    `json:"url"`
		Accepted   bool      `json:"accepted"`
		StatusCode int       `json:"status_code"`
		Message    string    `json:"message"`
		CreatedAt  time.Time `json:"created_at"`
	}{s.id, s.sequence, s.url, s.accepted, s.statusCode, s.Message(), s.createdAt})
}
