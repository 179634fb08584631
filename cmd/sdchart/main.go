package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sdchart/cmd/sdchart/app"
	"sdchart/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	theme      string
	noWatch    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sdchart",
	Short: "sdchart - supply and demand grid with a live chart",
	Long: `sdchart is a terminal tool for sketching supply and demand curves.

Type prices into the grid on the left together with the quantity supplied
and the quantity demanded at each price. Every complete row is plotted on
the chart to the right, ordered by price, as you type.

Rows live in memory only and are gone when the program exits.

Run without arguments to start the interactive grid.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd == rootCmd {
			return nil
		}

		// Initialize logger
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

// versionCmd prints the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sdchart version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sdchart %s\n", config.DefaultConfig().Version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "Color theme: auto, light or dark (overrides config)")

	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the config file while running")

	// Add commands to root
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runInteractive starts the grid and chart
func runInteractive(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, app.Options{
		ConfigPath: configPath,
		Theme:      theme,
		Watch:      !noWatch,
	})
}

// loadConfig loads the config file named by --config and applies --theme.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if theme != "" {
		cfg.UI.Theme = theme
	}
	return cfg, nil
}
