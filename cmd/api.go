package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/qbx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet logs in and makes a direct GET request against the qBittorrent Web API.
//
// A path without the /api/v2 prefix gets one, so `qbx api get app/version` works.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/api/") {
		path = "/api/v2/" + strings.TrimPrefix(path, "/")
	}

	r.logger.Info("GET request", "path", path)

	session, err := r.client.Login(ctx)
	if err != nil {
		return err
	}

	resp, err := r.client.API().Get(ctx, path, nil, session.SID)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", resp.Body)
}
