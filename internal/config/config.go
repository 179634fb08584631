package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file lives relative to the workspace.
const DefaultPath = ".sdchart/config.yaml"

// Config holds all sdchart configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Layout and theme
	UI UIConfig `yaml:"ui"`

	// Input grid
	Grid GridConfig `yaml:"grid"`

	// Supply/demand chart
	Chart ChartConfig `yaml:"chart"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// GridConfig configures the input grid.
type GridConfig struct {
	// Headers are the price, supply and demand column titles, in that order.
	Headers []string `yaml:"headers"`

	// MinSpareRows is how many empty rows are always offered for new entry.
	MinSpareRows int `yaml:"min_spare_rows"`

	// ColumnWidth is the minimum rendered width of a data column.
	ColumnWidth int `yaml:"column_width"`
}

// ChartConfig configures the chart pane.
type ChartConfig struct {
	Title        string `yaml:"title"`
	XLabel       string `yaml:"x_label"`
	YLabel       string `yaml:"y_label"`
	SupplyName   string `yaml:"supply_name"`
	DemandName   string `yaml:"demand_name"`
	SupplyColor  string `yaml:"supply_color"`
	DemandColor  string `yaml:"demand_color"`
	XSteps       int    `yaml:"x_steps"`
	YSteps       int    `yaml:"y_steps"`
	EmptyMessage string `yaml:"empty_message"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "sdchart",
		Version: "0.3.0",

		UI: *DefaultUIConfig(),

		Grid: GridConfig{
			Headers:      []string{"Price (per unit)", "Quantity supplied (s)", "Quantity demanded (d)"},
			MinSpareRows: 1,
			ColumnWidth:  10,
		},

		Chart: ChartConfig{
			Title:        "Supply and demand",
			XLabel:       "Price",
			YLabel:       "Quantity",
			SupplyName:   "Quantity supplied (s)",
			DemandName:   "Quantity demanded (d)",
			SupplyColor:  "#0ea5e9",
			DemandColor:  "#22c55e",
			XSteps:       6,
			YSteps:       4,
			EmptyMessage: "Enter price, supply and demand in the grid to plot the curves.",
		},

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if theme := os.Getenv("SDCHART_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}
	// Explicit dark mode wins over the theme name
	if os.Getenv("SDCHART_DARK_MODE") == "1" {
		c.UI.Theme = ThemeDark
	}
	if level := os.Getenv("SDCHART_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	if os.Getenv("SDCHART_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.UI.Validate(); err != nil {
		return err
	}

	if len(c.Grid.Headers) != 3 {
		return fmt.Errorf("grid.headers must name 3 columns, got %d", len(c.Grid.Headers))
	}
	if c.Grid.MinSpareRows < 1 || c.Grid.MinSpareRows > 10 {
		return fmt.Errorf("grid.min_spare_rows must be between 1 and 10, got %d", c.Grid.MinSpareRows)
	}
	if c.Chart.XSteps < 1 || c.Chart.YSteps < 1 {
		return fmt.Errorf("chart.x_steps and chart.y_steps must be positive")
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	return nil
}
