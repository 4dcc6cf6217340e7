package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/qbx/internal/formatter"
	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/services"
	"github.com/desertthunder/qbx/internal/shared"
	"github.com/desertthunder/qbx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TorrentsList prints the classified torrent list.
func (r *Runner) TorrentsList(ctx context.Context, cmd *cli.Command) error {
	opts := services.ListOptions{
		Filter:   cmd.String("filter"),
		Category: cmd.String("category"),
		Sort:     cmd.String("sort"),
		Reverse:  cmd.Bool("reverse"),
	}

	overview, err := r.engine.Overview(ctx, opts)
	if err != nil {
		return err
	}

	if path := cmd.String("csv"); path != "" {
		all := make([]models.Torrent, 0, overview.Total())
		all = append(append(all, overview.InProgress...), overview.Completed...)
		written, err := formatter.WriteCSVExport(all, path)
		if err != nil {
			return err
		}
		r.logger.Info("wrote CSV export", "path", written, "torrents", len(all))
	}

	if cmd.Bool("json") {
		return r.writeJSON(overview, cmd.Bool("pretty"))
	}

	if overview.Notice != "" {
		r.logger.Warn(overview.Notice)
	}

	if overview.Empty() {
		return r.writePlain("No torrents\n")
	}

	r.writePlainHeader(fmt.Sprintf("In progress (%d)", len(overview.InProgress)))
	if len(overview.InProgress) > 0 {
		r.writePlain("%s\n", formatter.TorrentTable(overview.InProgress))
	}
	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("Completed (%d)", len(overview.Completed)))
	if len(overview.Completed) > 0 {
		r.writePlain("%s\n", formatter.TorrentTable(overview.Completed))
	}
	return nil
}

// TorrentsAdd submits one or more URLs. Several URLs go through the bulk worker pool.
func (r *Runner) TorrentsAdd(ctx context.Context, cmd *cli.Command) error {
	urls := cmd.Args().Slice()
	if len(urls) == 0 {
		return fmt.Errorf("%w: at least one URL is required", shared.ErrMissingArgument)
	}
	workers := int(cmd.Int("workers"))
	if workers < 1 || workers > tasks.MaxWorkers {
		return fmt.Errorf("%w: --workers must be between 1 and %d, got %d", shared.ErrInvalidArgument, tasks.MaxWorkers, workers)
	}

	opts := services.AddOptions{
		Category: cmd.String("category"),
		SavePath: cmd.String("savepath"),
		Paused:   cmd.Bool("paused"),
	}

	if len(urls) == 1 {
		result, err := r.engine.Submit(ctx, urls[0], opts)
		if err != nil {
			return err
		}
		return r.writeSubmitResult(result)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Authenticate:
				r.writePlain("🔑 %s\n", update.Message)
			case tasks.SubmitTorrent:
				r.writePlain("   %s\n", update.Message)
			case tasks.Complete:
				r.writePlain("\n%s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkSubmit(ctx, progressCh, urls, tasks.BulkSubmitOpts{
		Add:        opts,
		NumWorkers: workers,
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Submission complete")
	r.writePlain("Accepted: %d/%d\n", result.Accepted, result.Total)
	if result.Rejected > 0 {
		r.writePlain("Rejected: %d\n", result.Rejected)
	}
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
		for _, o := range result.Outcomes {
			if o.Error != nil {
				r.writePlain("  - %s: %v\n", formatter.Truncate(o.URL, 60), o.Error)
			}
		}
	}
	return nil
}

// TorrentsShow prints the properties and file list of one torrent.
func (r *Runner) TorrentsShow(ctx context.Context, cmd *cli.Command) error {
	hash := cmd.StringArg("hash")
	if hash == "" {
		return fmt.Errorf("%w: torrent hash is required", shared.ErrMissingArgument)
	}

	detail, err := r.engine.Detail(ctx, hash)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, true)
	}

	p := detail.Properties
	r.writePlainHeader(detail.Hash)
	r.writePlain("Save path:  %s\n", p.SavePath)
	r.writePlain("Size:       %s (%d pieces of %s)\n", formatter.FormatSize(p.TotalSize), p.PiecesNum, formatter.FormatSize(p.PieceSize))
	r.writePlain("Added:      %s\n", formatter.FormatEpoch(p.AdditionDate))
	r.writePlain("Completed:  %s\n", formatter.FormatEpoch(p.CompletionDate))
	r.writePlain("Ratio:      %s\n", formatter.FormatRatio(p.ShareRatio))
	r.writePlain("Seeds:      %d (%d total)\n", p.Seeds, p.SeedsTotal)
	r.writePlain("Peers:      %d (%d total)\n", p.Peers, p.PeersTotal)
	if p.Comment != "" {
		r.writePlain("Comment:    %s\n", p.Comment)
	}
	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("Files (%d)", len(detail.Files)))
	if len(detail.Files) > 0 {
		r.writePlain("%s\n", formatter.FileTable(detail.Files))
	}
	return nil
}

func (r *Runner) writeSubmitResult(result *tasks.SubmitResult) error {
	if result.Accepted {
		return r.writePlain("✓ %s\n", result.Message)
	}
	return r.writePlain("✗ %s (status %d)\n", result.Message, result.StatusCode)
}
