package app

import (
	"fmt"

	"sdchart/cmd/sdchart/ui"

	"github.com/charmbracelet/lipgloss"
)

const bannerText = "Enter price with quantity supplied and demanded. Complete rows are plotted by price."

// View renders the program.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.layout.TooSmall() {
		return m.styles.Warning.Render(fmt.Sprintf(
			"Terminal too small (%dx%d). Need at least %dx%d.",
			m.width, m.height, ui.MinimumTerminalWidth, ui.MinimumTerminalHeight))
	}

	header := m.renderHeader()
	footer := m.styles.Footer.Render(m.help.View(m.keys))

	if m.showHelp {
		body := lipgloss.NewStyle().
			Height(m.layout.BodyHeight()).
			MaxHeight(m.layout.BodyHeight()).
			Render(m.helpView)
		return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	}

	left, right := m.layout.SplitPaneWidths()
	bodyH := ui.PanelContentHeight(m.layout.BodyHeight())

	_, gridH := m.layout.GridSize()
	gridPane := m.styles.Pane.
		Width(left - 2*ui.PanelBorderWidth).
		Height(gridH).
		MaxHeight(gridH + 2*ui.PanelBorderWidth).
		Render(m.grid.View())

	leftCol := gridPane
	if m.layout.ShowBanner {
		banner := m.styles.Banner.
			Width(left - 2*ui.PanelBorderWidth).
			MaxHeight(ui.BannerHeight).
			Render(truncateLine(bannerText, ui.PanelContentWidth(left)))
		leftCol = lipgloss.JoinVertical(lipgloss.Left, banner, gridPane)
	}

	chartPane := m.styles.Pane.
		Width(right - 2*ui.PanelBorderWidth).
		Height(bodyH).
		MaxHeight(bodyH + 2*ui.PanelBorderWidth).
		Render(m.chart.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, " ", chartPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" " + m.cfg.Name + " ")
	stats := m.styles.Muted.Render(fmt.Sprintf(" %d rows · %d plotted · session %s",
		m.store.Len(), len(m.series), shortID(m.session)))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, stats)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncateLine(s string, w int) string {
	r := []rune(s)
	if w <= 0 {
		return ""
	}
	if len(r) <= w {
		return s
	}
	if w <= 3 {
		return string(r[:w])
	}
	return string(r[:w-3]) + "..."
}
