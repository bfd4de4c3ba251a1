package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/filter"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/repositories"
	"github.com/desertthunder/playx/internal/rest"
	"github.com/desertthunder/playx/internal/services"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/desertthunder/playx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	library    services.Library
	httpClient *http.Client
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config flag in [Runner.Before]; a nil Library is built from
// the loaded config. Tests inject both, plus an in-memory DB.
type RunnerOpts struct {
	Config     *shared.Config
	Library    services.Library
	HTTPClient *http.Client
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		library:    opts.Library,
		httpClient: opts.HTTPClient,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// Before loads configuration, applies the log level and builds the service client.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if r.config == nil {
		config, err := r.loadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if override := cmd.String("log-level"); override != "" {
		level = override
	}
	ll, err := shared.ParseLevel(level)
	if err != nil {
		return ctx, fmt.Errorf("%w: log level %q", shared.ErrInvalidArgument, level)
	}
	shared.SetLogLevel(r.logger, ll)

	if r.library == nil {
		if r.httpClient == nil {
			r.httpClient = rest.NewHTTPClient(rest.HTTPOptions{
				Timeout:             r.config.HTTP.Timeout(),
				MaxIdleConnsPerHost: r.config.HTTP.MaxIdleConnsPerHost,
			})
		}
		client := rest.NewClient(r.httpClient, shared.WithLogger(r.logger, "component", "rest"))
		r.library = services.NewPlayService(client, r.config.Service, shared.WithLogger(r.logger, "component", "service"))
	}

	return ctx, nil
}

// loadConfig reads path when it exists and falls back to the embedded defaults otherwise.
func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	config, err := shared.LoadConfig(path)
	if errors.Is(err, shared.ErrMissingConfig) {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return shared.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return config, nil
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, urlCommand, tracksCommand, playlistsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// database opens the configured database on first use and migrates it.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	config := r.config
	if config == nil {
		config = shared.DefaultConfig()
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	return db, nil
}

// storedSession returns the most recent persisted login.
func (r *Runner) storedSession() (*models.StoredSession, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	stored, err := repositories.NewSessionRepository(db).Latest()
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: no stored session", shared.ErrNotAuthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return stored, nil
}

// session returns the active [models.Session] for authenticated commands.
func (r *Runner) session() (*models.Session, error) {
	stored, err := r.storedSession()
	if err != nil {
		return nil, err
	}
	return stored.Session(), nil
}

// writeJSON marshals data, narrows it with the JMESPath query when one is given and writes it
// followed by a newline.
func (r *Runner) writeJSON(data any, pretty bool, query string) error {
	output, err := shared.MarshalJSON(data, pretty && query == "")
	if err != nil {
		return err
	}

	if query != "" {
		if output, err = filter.Apply(output, query, pretty); err != nil {
			return err
		}
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", ui.Styles().Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}

// jsonFlags are shared by every command that can print JSON.
func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "JMESPath expression applied to JSON output (implies --json)",
		},
	}
}

// wantsJSON reports whether the command was asked for JSON output.
func wantsJSON(cmd *cli.Command) bool {
	return cmd.Bool("json") || cmd.String("query") != ""
}
