// Package ui provides the panes and styling for the sdchart terminal UI.
// Uses an orange palette with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#fff8ef")
	LightForeground = lipgloss.Color("#2b1d0e")
	LightPrimary    = lipgloss.Color("#f57c00") // orange 700
	LightAccent     = lipgloss.Color("#ff9800") // orange 500
	LightZebra      = lipgloss.Color("#ffe0b2") // orange 100
	LightMuted      = lipgloss.Color("#8d7b68")
	LightBorder     = lipgloss.Color("#ffcc80") // orange 200
	LightSelection  = lipgloss.Color("#ffb74d") // orange 300

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#1c1410")
	DarkForeground = lipgloss.Color("#f2ece6")
	DarkPrimary    = lipgloss.Color("#ffb74d")
	DarkAccent     = lipgloss.Color("#ff9800")
	DarkZebra      = lipgloss.Color("#3a2a1a")
	DarkMuted      = lipgloss.Color("#a1887f")
	DarkBorder     = lipgloss.Color("#6d4c2f")
	DarkSelection  = lipgloss.Color("#8a5a2b")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Zebra      lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Selection  lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Zebra:      LightZebra,
		Muted:      LightMuted,
		Border:     LightBorder,
		Selection:  LightSelection,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Zebra:      DarkZebra,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Selection:  DarkSelection,
		IsDark:     true,
	}
}

// ThemeFor resolves a configured theme name ("light", "dark" or "auto").
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}
	return DetectTheme()
}

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			// 0-6 and 8 (dark grey) are likely dark backgrounds
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}

	if os.Getenv("SDCHART_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style
	Banner lipgloss.Style
	Pane   lipgloss.Style

	// Text
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Grid
	ColumnHeader lipgloss.Style
	RowHeader    lipgloss.Style
	Cell         lipgloss.Style
	CellOdd      lipgloss.Style
	CellSelected lipgloss.Style
	CellEditing  lipgloss.Style

	// Chart
	Axis  lipgloss.Style
	Label lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	cell := lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Padding(0, 1).
		Align(lipgloss.Right)

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Banner: lipgloss.NewStyle().
			Foreground(Info).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Info).
			Padding(0, 1),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		ColumnHeader: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			Padding(0, 1).
			Align(lipgloss.Center),

		RowHeader: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1).
			Align(lipgloss.Right),

		Cell: cell,

		CellOdd: cell.Background(theme.Zebra),

		CellSelected: cell.Background(theme.Selection).Bold(true),

		CellEditing: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.Selection).
			Padding(0, 1),

		Axis: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Label: lipgloss.NewStyle().
			Foreground(theme.Foreground),
	}
}

// DefaultStyles returns styles with the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
