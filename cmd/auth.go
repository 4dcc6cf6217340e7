package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/qbx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthStatus logs in with the configured credentials and reports the qBittorrent version.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status", "url", r.client.API().BaseURL())

	status, err := r.engine.Status(ctx)
	if err != nil {
		return err
	}

	if !status.Authenticated {
		r.writePlain("✗ Login refused (status %d)\n", status.LoginStatus)
		return fmt.Errorf("%w: check QB_USERNAME and QB_PASSWORD", shared.ErrAuthFailed)
	}

	r.writePlain("✓ Authenticated\n")
	r.writePlain("qBittorrent: %s\n", status.Version)
	return nil
}
