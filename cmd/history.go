package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/desertthunder/qbx/internal/formatter"
	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints the most recent submissions.
//
// --accepted and --rejected narrow the list to one outcome.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	if limit < 1 {
		return fmt.Errorf("%w: --limit must be at least 1, got %d", shared.ErrInvalidArgument, limit)
	}

	var (
		submissions []*models.Submission
		err         error
	)
	switch accepted, rejected := cmd.Bool("accepted"), cmd.Bool("rejected"); {
	case accepted && rejected:
		return fmt.Errorf("%w: --accepted and --rejected are mutually exclusive", shared.ErrInvalidArgument)
	case accepted || rejected:
		submissions, err = r.filteredHistory(accepted, limit)
	default:
		submissions, err = r.engine.History(ctx, limit)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(submissions, true)
	}

	if len(submissions) == 0 {
		return r.writePlain("No submissions recorded yet\n")
	}
	return r.writePlain("%s\n", formatter.HistoryTable(submissions))
}

// filteredHistory returns up to limit submissions with the given outcome, newest first.
func (r *Runner) filteredHistory(accepted bool, limit int) ([]*models.Submission, error) {
	if r.history == nil {
		return nil, shared.ErrHistoryDisabled
	}

	subs, err := r.history.List(map[string]any{"accepted": accepted})
	if err != nil {
		return nil, err
	}
	slices.Reverse(subs)
	if len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

// HistoryRetry sends a recorded URL to qBittorrent again and stores the new outcome.
func (r *Runner) HistoryRetry(ctx context.Context, cmd *cli.Command) error {
	sub, err := r.findSubmission(cmd.StringArg("sequence"))
	if err != nil {
		return err
	}

	result, err := r.engine.Resubmit(ctx, sub)
	if err != nil {
		return err
	}
	if err := r.history.Update(sub); err != nil {
		return err
	}
	return r.writeSubmitResult(result)
}

// HistoryDelete removes one submission from the history.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	sub, err := r.findSubmission(cmd.StringArg("sequence"))
	if err != nil {
		return err
	}

	if err := r.history.Delete(sub.ID()); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted submission #%d\n", sub.Sequence())
}

// findSubmission looks a submission up by the number shown in the "#" column.
func (r *Runner) findSubmission(arg string) (*models.Submission, error) {
	if r.history == nil {
		return nil, shared.ErrHistoryDisabled
	}
	if arg == "" {
		return nil, fmt.Errorf("%w: submission number is required", shared.ErrMissingArgument)
	}

	sequence, err := strconv.Atoi(arg)
	if err != nil || sequence < 1 {
		return nil, fmt.Errorf("%w: %q is not a submission number", shared.ErrInvalidArgument, arg)
	}

	subs, err := r.history.List(map[string]any{"sequence": sequence})
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("%w: #%d", shared.ErrSubmissionNotFound, sequence)
	}
	return subs[0], nil
}
