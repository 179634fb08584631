package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"sdchart/internal/config"
	"sdchart/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// Options configures Run.
type Options struct {
	// ConfigPath is the YAML config file. It does not need to exist.
	ConfigPath string

	// Theme overrides the configured theme when set.
	Theme string

	// Watch reloads the config file while the program runs.
	Watch bool

	// ProgramOptions are appended to the program's own options.
	ProgramOptions []tea.ProgramOption
}

// Run loads the config, starts the program and blocks until it exits.
// Cancelling ctx ends the program without an error.
func Run(ctx context.Context, opts Options) error {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Theme != "" {
		cfg.UI.Theme = opts.Theme
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", opts.ConfigPath, err)
	}

	logDir := cfg.Logging.Dir
	if logDir == "" {
		logDir = filepath.Join(filepath.Dir(opts.ConfigPath), "logs")
	}
	if err := logging.Initialize(logDir, cfg.Logging.Options()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseAll()

	logging.Boot("starting %s %s (config=%s)", cfg.Name, cfg.Version, opts.ConfigPath)

	progOpts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts.ProgramOptions...)
	p := tea.NewProgram(New(cfg), progOpts...)

	if opts.Watch {
		w, err := config.NewWatcher(opts.ConfigPath, func(c *config.Config) {
			if opts.Theme != "" {
				c.UI.Theme = opts.Theme
			}
			p.Send(config.ReloadedMsg{Config: c})
		})
		if err != nil {
			logging.Get(logging.CategoryConfig).Warn("config watcher unavailable: %v", err)
		} else if err := w.Start(ctx); err != nil {
			logging.Get(logging.CategoryConfig).Warn("config watcher unavailable: %v", err)
		} else {
			defer w.Stop()
		}
	}

	_, err = p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		logging.Boot("stopped: %v", ctx.Err())
		return nil
	}
	if err != nil {
		return fmt.Errorf("program failed: %w", err)
	}
	logging.Boot("exited")
	return nil
}
