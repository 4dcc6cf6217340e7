package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/qbx/internal/repositories"
	"github.com/desertthunder/qbx/internal/services"
	"github.com/desertthunder/qbx/internal/shared"
	"github.com/desertthunder/qbx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	history    *repositories.SubmissionRepository
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.TorrentEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client                   // built from Config when nil
	History    *repositories.SubmissionRepository // nil disables submission history
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Client == nil {
		opts.Client = services.NewClientFromConfig(opts.Config, opts.Logger)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		history:    opts.History,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.engine = r.newEngine()
	return r
}

func (r *Runner) newEngine() *tasks.TorrentEngine {
	var store tasks.SubmissionStore
	if r.history != nil {
		store = repositories.NewSubmissionLog(r.history)
	}
	return tasks.NewTorrentEngine(r.client, store, r.logger)
}

// SetLogger swaps the logger for the runner, its client and its engine.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.client = r.client.WithLogger(l)
	r.engine = r.newEngine()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, torrentsCommand, authCommand, apiCommand, historyCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
