package ui

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"sdchart/internal/sheet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain runs cmd and flattens sequenced commands into their messages.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	v := reflect.ValueOf(msg)
	if v.Kind() == reflect.Slice {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			if c, ok := v.Index(i).Interface().(tea.Cmd); ok {
				out = append(out, drain(t, c)...)
			}
		}
		return out
	}
	return []tea.Msg{msg}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestGrid(rows ...sheet.Record) GridModel {
	g := NewGridModel(nil, 1, 10, NewStyles(LightTheme()), DefaultKeyMap())
	g.SetSize(60, 20)
	g.Load(rows)
	return g
}

func record(price, supply, demand string) sheet.Record {
	var r sheet.Record
	for i, s := range []string{price, supply, demand} {
		v, err := sheet.ParseValue(s)
		if err != nil {
			panic(err)
		}
		r = r.With(sheet.Fields[i], v)
	}
	return r
}

func TestGrid_LoadEmitsLoadDataBatch(t *testing.T) {
	g := NewGridModel(nil, 1, 10, DefaultStyles(), DefaultKeyMap())
	msgs := drain(t, g.Load([]sheet.Record{record("10", "5", "20")}))

	require.Len(t, msgs, 1)
	change, ok := msgs[0].(AfterChangeMsg)
	require.True(t, ok, "expected AfterChangeMsg, got %T", msgs[0])
	assert.Equal(t, sheet.OriginLoadData, change.Batch.Origin)
	assert.Nil(t, change.Batch.Changes)
	assert.Equal(t, 1, g.Rows())
	assert.Equal(t, 2, g.RowCount())
}

func TestGrid_Navigation(t *testing.T) {
	g := newTestGrid(record("10", "5", "20"), record("20", "10", "15"))

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyDown})
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRight})
	row, col := g.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)

	// Cursor stops at the spare row
	for i := 0; i < 10; i++ {
		g, _ = g.Update(runes("j"))
	}
	row, _ = g.Cursor()
	assert.Equal(t, 2, row)

	// Tab wraps into the next row
	g, _ = g.Update(runes("g"))
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRight})
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRight})
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyTab})
	row, col = g.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	row, col = g.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 2, col)

	// Left edge is sticky
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyLeft})
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyLeft})
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyLeft})
	_, col = g.Cursor()
	assert.Equal(t, 0, col)
}

func TestGrid_EditExistingCell(t *testing.T) {
	g := newTestGrid(record("10", "5", "20"))
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRight})

	g, _ = g.Update(runes("7"))
	require.True(t, g.Editing())
	g, _ = g.Update(runes("5"))

	var cmd tea.Cmd
	g, cmd = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, g.Editing())

	msgs := drain(t, cmd)
	require.Len(t, msgs, 1)
	change := msgs[0].(AfterChangeMsg)
	assert.Equal(t, sheet.OriginEdit, change.Batch.Origin)
	require.Len(t, change.Batch.Changes, 1)

	c := change.Batch.Changes[0]
	assert.Equal(t, 0, c.Row)
	assert.Equal(t, sheet.FieldSupply, c.Field)
	assert.Equal(t, "5", sheet.FormatValue(c.Old))
	assert.Equal(t, "75", sheet.FormatValue(c.New))

	// Enter moves down after committing
	row, _ := g.Cursor()
	assert.Equal(t, 1, row)
}

func TestGrid_EditRejectsNonNumeric(t *testing.T) {
	g := newTestGrid(record("10", "5", "20"))

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, g.Editing())
	g, _ = g.Update(runes("x"))

	var cmd tea.Cmd
	g, cmd = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, g.Editing(), "editor stays open on bad input")
	status, isErr := g.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "not a number")

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, g.Editing())
	status, _ = g.Status()
	assert.Empty(t, status)
}

func TestGrid_EditSpareRowCreatesRowFirst(t *testing.T) {
	g := newTestGrid(record("10", "5", "20"))
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyDown})

	g, _ = g.Update(runes("3"))
	g.input.SetValue("30")
	msgs, err := g.commit()
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	created, ok := msgs[0].(RowsCreatedMsg)
	require.True(t, ok, "expected RowsCreatedMsg first, got %T", msgs[0])
	assert.Equal(t, RowsCreatedMsg{Index: 1, Amount: 1}, created)

	change := msgs[1].(AfterChangeMsg)
	require.Len(t, change.Batch.Changes, 1)
	assert.Equal(t, 1, change.Batch.Changes[0].Row)
	assert.False(t, change.Batch.Changes[0].Old.Valid)
}

func TestGrid_EnterOnSpareRowSequencesMessages(t *testing.T) {
	g := newTestGrid()
	g, _ = g.Update(runes("4"))

	var cmd tea.Cmd
	g, cmd = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := drain(t, cmd)
	require.Len(t, msgs, 2)
	assert.IsType(t, RowsCreatedMsg{}, msgs[0])
	assert.IsType(t, AfterChangeMsg{}, msgs[1])

	// The cursor moves down into the next spare row and stays there once
	// the owner loads the grown rows.
	row, col := g.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)

	g.Load([]sheet.Record{record("4", "", "")})
	row, col = g.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)
	assert.Equal(t, 2, g.RowCount())
}

func TestGrid_TabFromLastColumnOfSpareRow(t *testing.T) {
	g := newTestGrid()
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRight})
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRight})
	g, _ = g.Update(runes("7"))
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyTab})

	row, col := g.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)
}

func TestGrid_UnloadedRowsFallBack(t *testing.T) {
	g := newTestGrid()
	g, _ = g.Update(runes("4"))
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	row, _ := g.Cursor()
	require.Equal(t, 1, row)

	// An owner that keeps the old rows pulls the cursor back
	g.Load(nil)
	row, _ = g.Cursor()
	assert.Equal(t, 0, row)
}

func TestGrid_BlankCommitOnSpareRowIsDropped(t *testing.T) {
	g := newTestGrid()
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEnter})

	var cmd tea.Cmd
	g, cmd = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, g.Editing())
}

func TestGrid_ClearCell(t *testing.T) {
	g := newTestGrid(record("10", "5", "20"))

	_, cmd := g.Update(tea.KeyMsg{Type: tea.KeyDelete})
	msgs := drain(t, cmd)
	require.Len(t, msgs, 1)
	c := msgs[0].(AfterChangeMsg).Batch.Changes[0]
	assert.Equal(t, sheet.FieldPrice, c.Field)
	assert.Equal(t, "10", sheet.FormatValue(c.Old))
	assert.False(t, c.New.Valid)
}

func TestGrid_Paste(t *testing.T) {
	orig := clipboardReadAll
	defer func() { clipboardReadAll = orig }()
	clipboardReadAll = func() (string, error) {
		return "10\t5\t20\n20\tabc\t15\n30,25,10,99\n", nil
	}

	g := newTestGrid()
	msgs := g.paste()
	require.Len(t, msgs, 2)
	assert.Equal(t, RowsCreatedMsg{Index: 0, Amount: 3}, msgs[0])

	batch := msgs[1].(AfterChangeMsg).Batch
	assert.Equal(t, sheet.OriginPaste, batch.Origin)
	// 9 in-range cells, one of them non-numeric
	assert.Len(t, batch.Changes, 8)

	status, isErr := g.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "skipped 1")
}

func TestGrid_PasteClipboardError(t *testing.T) {
	orig := clipboardReadAll
	defer func() { clipboardReadAll = orig }()
	clipboardReadAll = func() (string, error) {
		return "", errors.New("no clipboard")
	}

	g := newTestGrid()
	var cmd tea.Cmd
	g, cmd = g.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	assert.Nil(t, cmd)
	status, isErr := g.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "no clipboard")
}

func TestParseBlock(t *testing.T) {
	cells, skipped := parseBlock("1 2 3\r\n4\t\t6\r\n", 2, 1)
	assert.Equal(t, 0, skipped)
	// Columns past demand are dropped; the blank cell clears
	require.Len(t, cells, 4)
	assert.Equal(t, 2, cells[0].row)
	assert.True(t, cells[0].value.Decimal.Equal(sheet.Number(1).Decimal))
	assert.Equal(t, 2, cells[1].col)
	assert.Equal(t, 3, cells[2].row)
	assert.False(t, cells[3].value.Valid)

	cells, skipped = parseBlock("", 0, 0)
	assert.Empty(t, cells)
	assert.Zero(t, skipped)
}

func TestParseBlock_SkipsOversizedValues(t *testing.T) {
	cells, skipped := parseBlock("1e400\t"+strings.Repeat("9", 4000)+"\t3", 0, 0)
	assert.Equal(t, 2, skipped)
	require.Len(t, cells, 1)
	assert.Equal(t, 2, cells[0].col)
}

func TestGrid_View(t *testing.T) {
	g := NewGridModel([]string{"Price", "Supplied", "Demanded"}, 1, 10, DefaultStyles(), DefaultKeyMap())
	g.SetSize(60, 20)
	g.Load([]sheet.Record{record("10", "5", "20"), record("20", "", "15")})

	view := g.View()
	for _, want := range []string{"Price", "Supplied", "Demanded", "10", "20", "15", "row 1, price"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestGrid_ScrollsToCursor(t *testing.T) {
	rows := make([]sheet.Record, 30)
	for i := range rows {
		rows[i] = record("1", "1", "1")
	}
	g := newTestGrid(rows...)
	g.SetSize(60, 8)

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEnd})
	row, _ := g.Cursor()
	assert.Equal(t, 30, row)
	assert.Contains(t, g.View(), "31")
	assert.NotContains(t, g.View(), "row 1,")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "Quan...", truncate("Quantity supplied", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("abc", 0))
}
