package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sydlexius/geniuslookup/internal/cache"
	"github.com/sydlexius/geniuslookup/internal/config"
	"github.com/sydlexius/geniuslookup/internal/database"
	"github.com/sydlexius/geniuslookup/internal/genius"
	"github.com/sydlexius/geniuslookup/internal/history"
	"github.com/sydlexius/geniuslookup/internal/logging"
	"github.com/sydlexius/geniuslookup/internal/version"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	token      string
	logLevel   string
	logFormat  string
}

// app is the wired set of services a subcommand runs against.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *genius.Client
	history *history.Store
	stdout  io.Writer

	logManager *logging.Manager
	db         *sql.DB
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "geniuslookup",
		Short: "Look up artists on Genius",
		Long: `geniuslookup searches the Genius catalog and resolves search terms to
their primary artist. Batches of terms produce a table with one row per term.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultPath(), "path to config file")
	pf.StringVar(&flags.token, "token", "", "Genius access token (overrides config and environment)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(
		newSearchCmd(flags),
		newArtistCmd(flags),
		newLookupCmd(flags),
		newCheckCmd(flags),
		newHistoryCmd(flags),
	)
	return root
}

// setup loads configuration and builds the services. The Genius client is
// only constructed when needClient is set, so commands that never call the
// API work without a token.
func setup(cmd *cobra.Command, flags *globalFlags, needClient bool) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flags.token != "" {
		cfg.API.AccessToken = flags.token
	}
	if flags.logLevel != "" {
		if !logging.ValidLevel(flags.logLevel) {
			return nil, fmt.Errorf("invalid log level %q", flags.logLevel)
		}
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		if !logging.ValidFormat(flags.logFormat) {
			return nil, fmt.Errorf("invalid log format %q", flags.logFormat)
		}
		cfg.Logging.Format = flags.logFormat
	}

	logManager, logger := logging.NewManager(logging.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FilePath:       cfg.Logging.FilePath,
		FileMaxSizeMB:  cfg.Logging.MaxSizeMB,
		FileMaxFiles:   cfg.Logging.MaxFiles,
		FileMaxAgeDays: cfg.Logging.MaxAgeDays,
	}, cmd.ErrOrStderr())
	logger.Debug("starting geniuslookup",
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("logging", logManager.Config().String()))

	a := &app{
		cfg:        cfg,
		logger:     logger,
		stdout:     cmd.OutOrStdout(),
		logManager: logManager,
	}

	if cfg.Database.Path != "" {
		db, err := database.OpenMigrated(cfg.Database.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = db
		logger.Debug("database ready", slog.String("path", cfg.Database.Path))
		if cfg.HistoryEnabled() {
			a.history = history.New(db)
		}
	}

	if needClient {
		opts := []genius.Option{
			genius.WithBaseURL(cfg.API.BaseURL),
			genius.WithTimeout(cfg.API.Timeout),
			genius.WithRateLimit(cfg.API.RequestsPerSecond),
			genius.WithUserAgent(version.UserAgent()),
		}
		if cfg.CacheEnabled() {
			artistCache := cache.New(a.db, cfg.Cache.TTL)
			if n, err := artistCache.Purge(cmd.Context()); err != nil {
				logger.Warn("purging artist cache", slog.Any("error", err))
			} else if n > 0 {
				logger.Debug("purged expired cache entries", slog.Int64("count", n))
			}
			opts = append(opts, genius.WithCache(artistCache))
		}

		client, err := genius.New(cfg.API.AccessToken, logger, opts...)
		if err != nil {
			a.Close()
			var authErr *genius.ErrAuthRequired
			if errors.As(err, &authErr) {
				return nil, fmt.Errorf("%w: set GL_ACCESS_TOKEN, api.access_token or --token", err)
			}
			return nil, err
		}
		a.client = client
	}

	return a, nil
}

// Close releases the database and log file.
func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("closing database", slog.Any("error", err))
		}
		a.db = nil
	}
	if a.logManager != nil {
		a.logManager.Close() //nolint:errcheck
	}
}

// stdoutIsTerminal reports whether command output goes to a terminal.
func (a *app) stdoutIsTerminal() bool {
	f, ok := a.stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int
}
