package config

import "fmt"

// Theme names accepted in ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UIConfig holds user interface configuration.
type UIConfig struct {
	// Theme is auto, light or dark. Auto inspects the terminal.
	Theme string `json:"theme" yaml:"theme"`

	// SplitPaneRatio is the grid pane's share of the width (0.2-0.8).
	// Default is 0.4, leaving most of the screen to the chart.
	SplitPaneRatio float64 `json:"split_pane_ratio" yaml:"split_pane_ratio"`

	// ShowBanner shows the usage hint above the grid.
	ShowBanner bool `json:"show_banner" yaml:"show_banner"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:          ThemeAuto,
		SplitPaneRatio: 0.4,
		ShowBanner:     true,
	}
}

// Validate checks the UI settings.
func (u UIConfig) Validate() error {
	switch u.Theme {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid ui.theme: %q (valid: auto, light, dark)", u.Theme)
	}
	if u.SplitPaneRatio < 0.2 || u.SplitPaneRatio > 0.8 {
		return fmt.Errorf("ui.split_pane_ratio must be between 0.2 and 0.8, got %.2f", u.SplitPaneRatio)
	}
	return nil
}
