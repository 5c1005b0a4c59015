package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/ui"
)

// ErrNotTerminal is returned when stdout is not an interactive terminal.
var ErrNotTerminal = errors.New("marquee needs an interactive terminal")

// Options configure the marquee application.
type Options struct {
	ConfigPath string
	EnvFile    string         // empty skips .env loading
	Flags      *pflag.FlagSet // parsed command-line flags, may be nil
	PrefsPath  string         // empty uses default ~/.config/marquee/prefs.toml
	Version    string
}

// Deps holds everything Run builds before the UI starts.
type Deps struct {
	Config     config.Config
	Logger     *logging.Logger
	Client     *catalog.Client
	Controller *controller.Controller
	Prefs      prefs.Prefs
}

// Setup loads configuration, opens the log file and builds the catalog
// client and controller. Callers own Deps.Logger and must close it.
func Setup(opts Options) (*Deps, error) {
	if opts.EnvFile != "" {
		if err := config.LoadEnvFile(opts.EnvFile); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(opts.ConfigPath, opts.Flags)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	client, err := catalog.NewClient(catalog.Options{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
		UserAgent: "marquee/" + version,
		Logger:    logger.Logger,
	})
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("using default preferences")
	}

	logger.Info().
		Str("version", version).
		Str("api_url", client.BaseURL()).
		Str("config", cfg.Path).
		Dur("timeout", cfg.RequestTimeout).
		Float64("rate_limit", cfg.RateLimit).
		Msg("marquee starting")

	return &Deps{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Controller: controller.New(client, nil, logger.Component("controller")),
		Prefs:      userPrefs,
	}, nil
}

// Run boots the marquee TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	deps, err := Setup(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = deps.Logger.Close()
	}()
	defer deps.Controller.Close()

	uiOpts := ui.Options{
		Context:    ctx,
		Controller: deps.Controller,
		Images: catalog.Images{
			BaseURL:     deps.Config.ImageBaseURL,
			Placeholder: deps.Config.PlaceholderURL,
		},
		Logger:    deps.Logger.Logger,
		LogPath:   deps.Logger.Path(),
		ThemeName: deps.Prefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	if err := ui.Run(uiOpts); err != nil {
		deps.Logger.Error().Err(err).Msg("ui exited with error")
		return fmt.Errorf("run ui: %w", err)
	}
	deps.Logger.Info().Msg("marquee stopped")
	return nil
}

// CheckTerminal reports ErrNotTerminal unless f is a terminal.
func CheckTerminal(f *os.File, isTerminal func(int) bool) error {
	if f == nil || !isTerminal(int(f.Fd())) {
		return ErrNotTerminal
	}
	return nil
}
