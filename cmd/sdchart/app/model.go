// Package app wires the input grid and the chart into one terminal program.
// It owns the row store: every grid edit flows through the store and back
// out to both panes.
package app

import (
	"encoding/json"

	"sdchart/cmd/sdchart/ui"
	"sdchart/internal/config"
	"sdchart/internal/logging"
	"sdchart/internal/sheet"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Model is the top-level bubbletea model.
type Model struct {
	session string
	cfg     *config.Config

	store  sheet.Store
	series sheet.Series

	grid  ui.GridModel
	chart ui.ChartModel

	keys   ui.KeyMap
	help   help.Model
	styles ui.Styles
	layout ui.LayoutConfig

	showHelp bool
	helpView string

	width  int
	height int
	ready  bool
}

// New creates a model with an empty store. A nil cfg uses the defaults.
func New(cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	keys := ui.DefaultKeyMap()

	m := Model{
		session: uuid.NewString(),
		cfg:     cfg,
		store:   sheet.NewStore(),
		series:  sheet.Series{},
		grid:    ui.NewGridModel(cfg.Grid.Headers, cfg.Grid.MinSpareRows, cfg.Grid.ColumnWidth, styles, keys),
		chart:   ui.NewChartModel(cfg.Chart, styles),
		keys:    keys,
		help:    help.New(),
		styles:  styles,
	}
	logging.Session("session %s mounted (theme=%s)", m.session, cfg.UI.Theme)
	return m
}

// Session returns the id stamped on this model's log entries.
func (m Model) Session() string { return m.session }

// Store returns the current rows.
func (m Model) Store() sheet.Store { return m.store }

// Series returns the derived chart series.
func (m Model) Series() sheet.Series { return m.series }

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.cfg.Name)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ui.RowsCreatedMsg:
		need := msg.Index + msg.Amount - m.store.Len()
		if need <= 0 {
			return m, nil
		}
		m.store = m.store.Extend(need)
		logging.GridDebug("allocated %d rows at %d", need, msg.Index)
		return m, m.onStoreChange()

	case ui.AfterChangeMsg:
		next, changed := m.store.Apply(msg.Batch)
		if !changed {
			return m, nil
		}
		m.store = next
		return m, m.onStoreChange()

	case config.ReloadedMsg:
		if msg.Config != nil {
			m.applyConfig(msg.Config)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		logging.Session("session %s closed", m.session)
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	// While the editor is open every key belongs to the grid.
	if !m.grid.Editing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			logging.Session("session %s closed", m.session)
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			m.renderHelp()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

// onStoreChange pushes a new store out to the chart and the grid.
func (m *Model) onStoreChange() tea.Cmd {
	rows := m.store.Rows()
	m.series = sheet.Derive(rows)
	m.chart.SetSeries(m.series)

	logging.SeriesDebug("derived %d points from %d rows", len(m.series), len(rows))
	if log := logging.Get(logging.CategoryStore); log.DebugEnabled() {
		data, err := json.Marshal(m.store)
		if err != nil {
			log.Error("failed to encode rows: %v", err)
		} else {
			log.With("session", m.session).Debug("rows changed: %s", data)
		}
	}

	return m.grid.Load(rows)
}

func (m *Model) resize(w, h int) {
	m.width = w
	m.height = h
	m.layout = ui.NewLayoutConfig(w, h, m.cfg.UI.SplitPaneRatio, m.cfg.UI.ShowBanner)
	m.grid.SetSize(m.layout.GridSize())
	m.chart.SetSize(m.layout.ChartSize())
	m.help.Width = w
	if m.showHelp {
		m.renderHelp()
	}
	m.ready = true
}

// applyConfig takes over presentation settings from a reloaded config. The
// rows are left alone.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.styles = ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	m.grid.SetStyles(m.styles)
	m.grid.SetHeaders(cfg.Grid.Headers)
	m.grid.SetSpareRows(cfg.Grid.MinSpareRows)
	m.chart.SetConfig(cfg.Chart)
	m.chart.SetStyles(m.styles)
	if m.ready {
		m.resize(m.width, m.height)
	}
	logging.Config("session %s: applied reloaded config (theme=%s, split=%.2f)", m.session, cfg.UI.Theme, cfg.UI.SplitPaneRatio)
}

func (m *Model) renderHelp() {
	out, err := ui.RenderHelp(m.keys, max(20, m.width-4), m.styles.Theme.IsDark)
	if err != nil {
		logging.Get(logging.CategorySession).Warn("help render failed: %v", err)
		out = ui.HelpMarkdown(m.keys)
	}
	m.helpView = out
}
