package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sdchart/internal/config"
	"sdchart/internal/logging"
	"sdchart/internal/sheet"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"
)

const outOfRangeMessage = "values are too large to plot"

// ChartModel draws the supply and demand curves of a series. It has no
// input handling; the owner pushes a new series whenever the rows change.
type ChartModel struct {
	series sheet.Series
	cfg    config.ChartConfig
	styles Styles

	width  int
	height int

	render *CachedRender
}

// NewChartModel creates a chart pane.
func NewChartModel(cfg config.ChartConfig, styles Styles) ChartModel {
	return ChartModel{
		cfg:    cfg,
		styles: styles,
		render: NewCachedRender(NewRenderCache(8)),
	}
}

// SetSeries replaces the plotted series.
func (m *ChartModel) SetSeries(s sheet.Series) {
	m.series = s
}

// Series returns the plotted series.
func (m ChartModel) Series() sheet.Series { return m.series }

// SetConfig replaces the chart labels and colors.
func (m *ChartModel) SetConfig(cfg config.ChartConfig) {
	m.cfg = cfg
	m.render.Invalidate()
}

// SetStyles updates the styles.
func (m *ChartModel) SetStyles(s Styles) {
	m.styles = s
	m.render.Invalidate()
}

// SetSize updates the content size of the chart.
func (m *ChartModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Renders reports how many times the chart was actually drawn.
func (m ChartModel) Renders() int { return m.render.Renders() }

// fingerprint identifies the series for the render cache.
func (m ChartModel) fingerprint() string {
	var sb strings.Builder
	for _, p := range m.series {
		sb.WriteString(p.Price.String())
		sb.WriteByte(',')
		sb.WriteString(p.Supply.String())
		sb.WriteByte(',')
		sb.WriteString(p.Demand.String())
		sb.WriteByte(';')
	}
	return sb.String()
}

// View renders the chart pane.
func (m ChartModel) View() string {
	keyInputs := []interface{}{
		m.fingerprint(),
		m.width, m.height,
		m.styles.Theme.IsDark,
		m.cfg.Title, m.cfg.XLabel, m.cfg.YLabel,
		m.cfg.SupplyName, m.cfg.DemandName,
		m.cfg.SupplyColor, m.cfg.DemandColor,
		m.cfg.XSteps, m.cfg.YSteps,
		m.cfg.EmptyMessage,
	}
	return m.render.Render(keyInputs, m.draw)
}

func (m ChartModel) draw() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(truncate(m.cfg.Title, max(1, m.width))))
	sb.WriteString("\n")

	if len(m.series) == 0 {
		sb.WriteString(m.styles.Muted.Width(max(1, m.width)).Render(m.cfg.EmptyMessage))
		return sb.String()
	}
	bounds, ok := m.series.Bounds()
	if !ok || !plottable(bounds) {
		sb.WriteString(m.styles.Warning.Width(max(1, m.width)).Render(outOfRangeMessage))
		return sb.String()
	}

	plotH := m.height - 1 - ChartLegendHeight - ChartReadoutHeight
	if m.width < MinChartWidth || plotH < MinChartHeight || m.width-m.labelWidth(bounds) < MinChartWidth {
		sb.WriteString(m.styles.Warning.Render("enlarge the window to see the chart"))
		return sb.String()
	}

	sb.WriteString(m.legend())
	sb.WriteString("\n")
	sb.WriteString(m.plot(bounds, m.width, plotH))
	sb.WriteString("\n")
	sb.WriteString(m.readout(bounds))

	logging.ChartDebug("drew %d points at %dx%d", len(m.series), m.width, plotH)
	return sb.String()
}

func (m ChartModel) supplyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.cfg.SupplyColor))
}

func (m ChartModel) demandStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.cfg.DemandColor))
}

func (m ChartModel) legend() string {
	return m.supplyStyle().Render("━ "+m.cfg.SupplyName) + "  " + m.demandStyle().Render("━ "+m.cfg.DemandName)
}

// plot draws both curves, price on X and quantity on Y.
func (m ChartModel) plot(b sheet.Bounds, w, h int) string {
	minX, maxX := widen(b.MinPrice, b.MaxPrice)
	minY, maxY := widen(b.MinQuantity, b.MaxQuantity)

	lc := linechart.New(w, h, minX, maxX, minY, maxY,
		linechart.WithXYSteps(max(1, m.cfg.XSteps), max(1, m.cfg.YSteps)),
		linechart.WithXLabelFormatter(func(_ int, v float64) string { return formatTick(v) }),
		linechart.WithYLabelFormatter(func(_ int, v float64) string { return formatTick(v) }),
		linechart.WithStyles(m.styles.Axis, m.styles.Label, m.supplyStyle()),
	)

	supply := m.supplyStyle()
	demand := m.demandStyle()
	for i := range m.series {
		j := min(i+1, len(m.series)-1)
		price1, supply1, demand1 := m.series[i].Floats()
		price2, supply2, demand2 := m.series[j].Floats()
		lc.DrawBrailleLineWithStyle(
			canvas.Float64Point{X: price1, Y: supply1},
			canvas.Float64Point{X: price2, Y: supply2},
			supply)
		lc.DrawBrailleLineWithStyle(
			canvas.Float64Point{X: price1, Y: demand1},
			canvas.Float64Point{X: price2, Y: demand2},
			demand)
	}
	lc.DrawXYAxisAndLabel()
	return lc.View()
}

func (m ChartModel) readout(b sheet.Bounds) string {
	return m.styles.Muted.Render(fmt.Sprintf("%d points · %s %s to %s · %s %s to %s",
		len(m.series),
		m.cfg.XLabel, formatTick(b.MinPrice), formatTick(b.MaxPrice),
		m.cfg.YLabel, formatTick(b.MinQuantity), formatTick(b.MaxQuantity)))
}

// labelWidth is the widest Y axis label plus the axis itself.
func (m ChartModel) labelWidth(b sheet.Bounds) int {
	minY, maxY := widen(b.MinQuantity, b.MaxQuantity)
	steps := max(1, m.cfg.YSteps)
	w := 0
	for i := 0; i <= steps; i++ {
		v := minY + (maxY-minY)*float64(i)/float64(steps)
		w = max(w, len(formatTick(v)))
	}
	return w + 1
}

// plottable reports whether both widened axis ranges are finite.
func plottable(b sheet.Bounds) bool {
	minX, maxX := widen(b.MinPrice, b.MaxPrice)
	minY, maxY := widen(b.MinQuantity, b.MaxQuantity)
	for _, v := range []float64{minX, maxX, minY, maxY, maxX - minX, maxY - minY} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// widen returns a non-empty range around lo..hi.
func widen(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	pad := math.Max(math.Abs(lo)*0.1, 1)
	return lo - pad, hi + pad
}

// formatTick keeps labels short: whole numbers below a million print
// as is, everything else with four significant digits.
func formatTick(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e6 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
