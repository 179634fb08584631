// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for pane sizing
const (
	// Split pane dimensions
	DefaultSplitRatio = 0.4
	SplitPaneDivider  = 1

	// Panel borders and spacing
	PanelBorderWidth = 1
	PanelPaddingH    = 1

	// Control areas
	HeaderHeight = 1
	FooterHeight = 1
	BannerHeight = 3

	// Grid
	RowHeaderMinWidth = 3
	GridHeaderHeight  = 2 // column titles + divider
	GridStatusHeight  = 1

	// Chart
	ChartLegendHeight  = 1
	ChartReadoutHeight = 1
	MinChartWidth      = 20
	MinChartHeight     = 6

	// Responsive breakpoints
	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 16
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	SplitRatio     float64
	ShowBanner     bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int, ratio float64, banner bool) LayoutConfig {
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultSplitRatio
	}
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		SplitRatio:     ratio,
		ShowBanner:     banner,
	}
}

// TooSmall reports whether the terminal is below the supported minimum.
func (l LayoutConfig) TooSmall() bool {
	return l.TerminalWidth < MinimumTerminalWidth || l.TerminalHeight < MinimumTerminalHeight
}

// BodyHeight returns the height left for the panes after header and footer.
func (l LayoutConfig) BodyHeight() int {
	return max(0, l.TerminalHeight-HeaderHeight-FooterHeight)
}

// SplitPaneWidths calculates left and right pane widths for the split view
func (l LayoutConfig) SplitPaneWidths() (leftWidth, rightWidth int) {
	leftWidth = int(float64(l.TerminalWidth) * l.SplitRatio)
	rightWidth = l.TerminalWidth - leftWidth - SplitPaneDivider
	return leftWidth, max(0, rightWidth)
}

// GridSize returns the content size of the grid pane.
func (l LayoutConfig) GridSize() (width, height int) {
	left, _ := l.SplitPaneWidths()
	h := PanelContentHeight(l.BodyHeight())
	if l.ShowBanner {
		h -= BannerHeight
	}
	return PanelContentWidth(left), max(0, h)
}

// ChartSize returns the content size of the chart pane.
func (l LayoutConfig) ChartSize() (width, height int) {
	_, right := l.SplitPaneWidths()
	return PanelContentWidth(right), PanelContentHeight(l.BodyHeight())
}

// PanelContentWidth returns the content width inside a bordered panel
func PanelContentWidth(panelWidth int) int {
	return max(0, panelWidth-(PanelBorderWidth*2)-(PanelPaddingH*2))
}

// PanelContentHeight returns the content height inside a bordered panel
func PanelContentHeight(panelHeight int) int {
	return max(0, panelHeight-(PanelBorderWidth*2))
}
