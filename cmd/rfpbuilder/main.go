package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/rfpbuilder/internal/api"
	"github.com/jask/rfpbuilder/internal/config"
	"github.com/jask/rfpbuilder/internal/logging"
	"github.com/jask/rfpbuilder/internal/prefs"
	"github.com/jask/rfpbuilder/internal/tui"
)

type flags struct {
	configPath string
	backendURL string
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "rfpbuilder",
		Short:        "AI RFP Builder: draft RFPs and their sections from the terminal",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), f)
		},
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "config file (default ~/.config/rfpbuilder/config.toml)")
	root.PersistentFlags().StringVar(&f.backendURL, "backend-url", "", "backend base URL, overrides backend.url")
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "write debug-level logs")

	root.AddCommand(newCheckCmd(f), newConfigCmd(f))
	return root
}

// resolveConfig loads the config file and env, then applies flag overrides.
func resolveConfig(f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if f.backendURL != "" {
		cfg.Backend.URL = f.backendURL
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("config: %w", err)
		}
	}
	if f.debug {
		cfg.Log.Debug = true
	}
	return cfg, nil
}

// setup resolves config and builds the logger and api client shared by the
// TUI and check commands.
func setup(f *flags) (config.Config, *zap.Logger, *api.Client, error) {
	cfg, err := resolveConfig(f)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("logging: %w", err)
	}

	client := api.New(cfg.Backend.URL,
		api.WithTimeout(cfg.Backend.Timeout),
		api.WithLogger(logger),
	)
	return cfg, logger, client, nil
}

func runTUI(ctx context.Context, f *flags) error {
	cfg, logger, client, err := setup(f)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tone := api.Tone(cfg.Editor.DefaultTone)
	if p, err := prefs.Load(); err != nil {
		logger.Warn("load prefs", zap.Error(err))
	} else if p.Tone != "" {
		tone = p.Tone
	}

	logger.Info("starting", zap.String("backend", client.BaseURL()))
	app := tui.New(ctx, client, logger, tui.Options{
		BackendURL:     client.BaseURL(),
		DefaultHeading: cfg.Editor.DefaultHeading,
		DefaultTone:    tone,
		SaveTone: func(t api.Tone) error {
			return prefs.Save(prefs.Prefs{Tone: t})
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited", zap.Error(err))
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
