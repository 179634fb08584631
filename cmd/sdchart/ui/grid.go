package ui

import (
	"fmt"
	"strings"

	"sdchart/internal/logging"
	"sdchart/internal/sheet"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// clipboardReadAll is a package-level variable to allow mocking in tests.
var clipboardReadAll = clipboard.ReadAll

// RowsCreatedMsg reports that the grid allocated new rows at the end of its
// data because the user wrote into a spare row. It is always delivered
// before the AfterChangeMsg that fills them.
type RowsCreatedMsg struct {
	Index  int
	Amount int
}

// AfterChangeMsg carries one batch of cell changes out of the grid.
type AfterChangeMsg struct {
	Batch sheet.Batch
}

// cellValue is a pending write to one cell.
type cellValue struct {
	row, col int
	value    decimal.NullDecimal
}

// GridModel is the editable input grid. It displays a copy of the row store
// plus spare rows for new entry, and reports edits as messages instead of
// changing its rows itself; the owner hands the updated rows back via Load.
type GridModel struct {
	rows     []sheet.Record
	headers  []string
	spare    int
	colWidth int

	width  int
	height int

	row    int
	col    int
	offset int

	// announced is the row count promised by the last RowsCreatedMsg,
	// until the owner loads the grown rows.
	announced int

	editing bool
	input   textinput.Model

	status    string
	statusErr bool

	keys   KeyMap
	styles Styles
}

// NewGridModel creates an empty grid.
func NewGridModel(headers []string, spareRows, colWidth int, styles Styles, keys KeyMap) GridModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = sheet.MaxValueLength

	m := GridModel{
		spare:    max(1, spareRows),
		colWidth: max(4, colWidth),
		input:    ti,
		keys:     keys,
		styles:   styles,
	}
	m.SetHeaders(headers)
	return m
}

// SetHeaders replaces the column titles. Missing titles fall back to the
// field names.
func (m *GridModel) SetHeaders(headers []string) {
	m.headers = make([]string, len(sheet.Fields))
	for i, f := range sheet.Fields {
		if i < len(headers) && headers[i] != "" {
			m.headers[i] = headers[i]
		} else {
			m.headers[i] = f.String()
		}
	}
}

// SetSpareRows changes how many empty rows follow the data.
func (m *GridModel) SetSpareRows(n int) {
	m.spare = max(1, n)
	m.clampCursor()
}

// SetStyles updates the styles.
func (m *GridModel) SetStyles(s Styles) { m.styles = s }

// SetSize updates the content size of the grid.
func (m *GridModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = max(1, m.columnWidth()-2)
	m.ensureVisible()
}

// Load replaces the displayed rows. Like any programmatic data load it
// reports itself with an OriginLoadData batch, which owners must ignore.
func (m *GridModel) Load(rows []sheet.Record) tea.Cmd {
	m.rows = rows
	m.announced = 0
	m.clampCursor()
	logging.GridDebug("load: %d rows", len(rows))
	return emit(AfterChangeMsg{Batch: sheet.Batch{Origin: sheet.OriginLoadData}})
}

// Rows returns the number of data rows.
func (m GridModel) Rows() int { return len(m.rows) }

// RowCount returns the number of displayed rows, spare rows included.
func (m GridModel) RowCount() int { return len(m.rows) + m.spare }

// Cursor returns the selected cell.
func (m GridModel) Cursor() (row, col int) { return m.row, m.col }

// Editing reports whether the cell editor is open.
func (m GridModel) Editing() bool { return m.editing }

// Status returns the last status message and whether it is an error.
func (m GridModel) Status() (string, bool) { return m.status, m.statusErr }

// Init initializes the model.
func (m GridModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m GridModel) Update(msg tea.Msg) (GridModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.editing {
		return m.updateEditing(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.moveTo(m.row-1, m.col)
	case key.Matches(keyMsg, m.keys.Down):
		m.moveTo(m.row+1, m.col)
	case key.Matches(keyMsg, m.keys.Left):
		m.moveTo(m.row, m.col-1)
	case key.Matches(keyMsg, m.keys.Right):
		m.moveTo(m.row, m.col+1)
	case key.Matches(keyMsg, m.keys.Next):
		m.advance(1)
	case key.Matches(keyMsg, m.keys.Prev):
		m.advance(-1)
	case key.Matches(keyMsg, m.keys.Home):
		m.moveTo(0, m.col)
	case key.Matches(keyMsg, m.keys.End):
		m.moveTo(m.RowCount()-1, m.col)
	case key.Matches(keyMsg, m.keys.PageUp):
		m.moveTo(m.row-m.visibleRows(), m.col)
	case key.Matches(keyMsg, m.keys.PageDown):
		m.moveTo(m.row+m.visibleRows(), m.col)
	case key.Matches(keyMsg, m.keys.Edit):
		return m, m.startEditing(sheet.FormatValue(m.current()))
	case key.Matches(keyMsg, m.keys.Clear):
		m.setStatus("", false)
		return m, emit(m.write(sheet.OriginEdit, []cellValue{{row: m.row, col: m.col, value: sheet.Empty()}})...)
	case key.Matches(keyMsg, m.keys.Paste):
		return m, emit(m.paste()...)
	default:
		if r, ok := startRune(keyMsg); ok {
			return m, m.startEditing(string(r))
		}
	}
	return m, nil
}

func (m GridModel) updateEditing(msg tea.KeyMsg) (GridModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		m.setStatus("", false)
		return m, nil

	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Next):
		msgs, err := m.commit()
		if err != nil {
			m.setStatus(err.Error(), true)
			logging.GridDebug("rejected input %q: %v", m.input.Value(), err)
			return m, nil
		}
		m.stopEditing()
		m.setStatus("", false)
		if key.Matches(msg, m.keys.Next) {
			m.advance(1)
		} else {
			m.moveTo(m.row+1, m.col)
		}
		return m, emit(msgs...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startRune reports whether msg is a character that opens the editor.
func startRune(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || msg.Alt {
		return 0, false
	}
	r := msg.Runes[0]
	if (r >= '0' && r <= '9') || r == '-' || r == '.' {
		return r, true
	}
	return 0, false
}

func (m *GridModel) startEditing(initial string) tea.Cmd {
	m.editing = true
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.setStatus("", false)
	return m.input.Focus()
}

func (m *GridModel) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.SetValue("")
}

// commit turns the editor content into change messages.
func (m *GridModel) commit() ([]tea.Msg, error) {
	v, err := sheet.ParseValue(m.input.Value())
	if err != nil {
		return nil, err
	}
	return m.write(sheet.OriginEdit, []cellValue{{row: m.row, col: m.col, value: v}}), nil
}

// paste reads a tab or comma separated block from the clipboard and writes
// it starting at the cursor. Columns beyond the grid are dropped.
func (m *GridModel) paste() []tea.Msg {
	text, err := clipboardReadAll()
	if err != nil {
		m.setStatus("clipboard unavailable: "+err.Error(), true)
		logging.Get(logging.CategoryGrid).Warn("paste failed: %v", err)
		return nil
	}

	cells, skipped := parseBlock(text, m.row, m.col)
	msgs := m.write(sheet.OriginPaste, cells)
	if skipped > 0 {
		m.setStatus(fmt.Sprintf("pasted %d cells, skipped %d non-numeric", len(cells), skipped), true)
	} else {
		m.setStatus(fmt.Sprintf("pasted %d cells", len(cells)), false)
	}
	logging.Grid("paste at (%d,%d): %d cells, %d skipped", m.row, m.col, len(cells), skipped)
	return msgs
}

func parseBlock(text string, row, col int) (cells []cellValue, skipped int) {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil, 0
	}
	for i, line := range strings.Split(text, "\n") {
		var parts []string
		switch {
		case strings.Contains(line, "\t"):
			parts = strings.Split(line, "\t")
		case strings.Contains(line, ","):
			parts = strings.Split(line, ",")
		default:
			parts = strings.Fields(line)
		}
		for j, part := range parts {
			c := col + j
			if c >= len(sheet.Fields) {
				break
			}
			v, err := sheet.ParseValue(part)
			if err != nil {
				skipped++
				continue
			}
			cells = append(cells, cellValue{row: row + i, col: c, value: v})
		}
	}
	return cells, skipped
}

// write builds the messages for a set of cell writes: a RowsCreatedMsg when
// spare rows get data, then the change batch. Blank writes into spare rows
// are dropped so an empty commit never allocates a row.
func (m *GridModel) write(origin sheet.Origin, cells []cellValue) []tea.Msg {
	changes := make([]sheet.Change, 0, len(cells))
	last := -1
	for _, c := range cells {
		if c.row >= len(m.rows) && !c.value.Valid {
			continue
		}
		var old decimal.NullDecimal
		if c.row < len(m.rows) {
			old = m.rows[c.row].Get(sheet.Fields[c.col])
		}
		changes = append(changes, sheet.Change{
			Row:   c.row,
			Field: sheet.Fields[c.col],
			Old:   old,
			New:   c.value,
		})
		last = max(last, c.row)
	}
	if len(changes) == 0 {
		return nil
	}

	var msgs []tea.Msg
	if last >= len(m.rows) {
		msgs = append(msgs, RowsCreatedMsg{Index: len(m.rows), Amount: last - len(m.rows) + 1})
		m.announced = max(m.announced, last+1)
	}
	msgs = append(msgs, AfterChangeMsg{Batch: sheet.Batch{Changes: changes, Origin: origin}})
	logging.GridDebug("%s batch: %v", origin, changes)
	return msgs
}

// emit delivers msgs to the program in order.
func emit(msgs ...tea.Msg) tea.Cmd {
	if len(msgs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(msgs))
	for i, msg := range msgs {
		msg := msg
		cmds[i] = func() tea.Msg { return msg }
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Sequence(cmds...)
}

func (m *GridModel) current() decimal.NullDecimal {
	if m.row < len(m.rows) {
		return m.rows[m.row].Get(sheet.Fields[m.col])
	}
	return sheet.Empty()
}

func (m *GridModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *GridModel) moveTo(row, col int) {
	m.row = row
	m.col = col
	m.clampCursor()
}

// advance moves the cursor by n cells in reading order.
func (m *GridModel) advance(n int) {
	cols := len(sheet.Fields)
	pos := m.row*cols + m.col + n
	pos = min(max(pos, 0), m.rowLimit()*cols-1)
	m.moveTo(pos/cols, pos%cols)
}

// rowLimit is RowCount counting rows already announced to the owner, so
// the cursor can step past a spare row it just filled.
func (m GridModel) rowLimit() int {
	return max(len(m.rows), m.announced) + m.spare
}

func (m *GridModel) clampCursor() {
	m.row = min(max(m.row, 0), m.rowLimit()-1)
	m.col = min(max(m.col, 0), len(sheet.Fields)-1)
	m.ensureVisible()
}

func (m GridModel) visibleRows() int {
	if m.height <= 0 {
		return m.RowCount()
	}
	return max(1, m.height-GridHeaderHeight-GridStatusHeight)
}

func (m *GridModel) ensureVisible() {
	visible := m.visibleRows()
	if m.row < m.offset {
		m.offset = m.row
	}
	if m.row >= m.offset+visible {
		m.offset = m.row - visible + 1
	}
	m.offset = max(0, min(m.offset, m.RowCount()-visible))
}

func (m GridModel) rowHeaderWidth() int {
	return max(RowHeaderMinWidth, len(fmt.Sprint(m.RowCount()))) + 2
}

func (m GridModel) columnWidth() int {
	if m.width <= 0 {
		return m.colWidth
	}
	return max(m.colWidth, (m.width-m.rowHeaderWidth())/len(sheet.Fields))
}

// View renders the grid.
func (m GridModel) View() string {
	colW := m.columnWidth()
	rhW := m.rowHeaderWidth()

	var sb strings.Builder

	// Column headers
	sb.WriteString(m.styles.RowHeader.Width(rhW).Render(""))
	for _, h := range m.headers {
		sb.WriteString(m.styles.ColumnHeader.Width(colW).Render(truncate(h, colW-2)))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.RenderDivider(rhW + colW*len(m.headers)))
	sb.WriteString("\n")

	end := min(m.offset+m.visibleRows(), m.RowCount())
	for i := m.offset; i < end; i++ {
		sb.WriteString(m.styles.RowHeader.Width(rhW).Render(fmt.Sprint(i + 1)))
		for j, f := range sheet.Fields {
			sb.WriteString(m.renderCell(i, j, f, colW))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(m.statusLine())
	return sb.String()
}

func (m GridModel) renderCell(i, j int, f sheet.Field, colW int) string {
	selected := i == m.row && j == m.col
	if selected && m.editing {
		return m.styles.CellEditing.Width(colW).Render(m.input.View())
	}

	var text string
	if i < len(m.rows) {
		text = sheet.FormatValue(m.rows[i].Get(f))
	}
	text = truncate(text, colW-2)

	var style lipgloss.Style
	switch {
	case selected:
		style = m.styles.CellSelected
	case i%2 == 1:
		style = m.styles.CellOdd
	default:
		style = m.styles.Cell
	}
	return style.Width(colW).Render(text)
}

func (m GridModel) statusLine() string {
	if m.status != "" {
		if m.statusErr {
			return m.styles.Error.Render(m.status)
		}
		return m.styles.Success.Render(m.status)
	}
	pos := fmt.Sprintf("row %d, %s", m.row+1, sheet.Fields[m.col])
	if m.editing {
		pos += " (editing)"
	}
	return m.styles.Muted.Render(pos)
}

func truncate(s string, l int) string {
	if l <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= l {
		return s
	}
	r := []rune(s)
	if l <= 3 || len(r) <= l {
		return string(r[:min(l, len(r))])
	}
	return string(r[:l-3]) + "..."
}
