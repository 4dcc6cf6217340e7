package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/qbx/internal/shared"
	"github.com/desertthunder/qbx/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve starts the web front-end and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	router := web.NewRouter(r.engine, r.logger, r.config.Database.HistoryLimit)
	srv := web.NewServer(cfg.Addr(), router, r.logger)

	url := "http://" + ln.Addr().String() + "/"
	r.logger.Info("starting web front-end", "url", url, "qbittorrent", r.client.API().BaseURL(), "history", r.engine.HistoryEnabled())

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}

	return srv.Serve(ctx, ln)
}
