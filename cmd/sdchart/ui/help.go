package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
)

// HelpMarkdown builds the key reference as markdown.
func HelpMarkdown(keys KeyMap) string {
	var sb strings.Builder
	sb.WriteString("# sdchart\n\n")
	sb.WriteString("Type prices with the quantity supplied and demanded at each price. ")
	sb.WriteString("Rows with all three numbers are plotted, sorted by price. ")
	sb.WriteString("Incomplete rows stay in the grid but are left off the chart.\n\n")

	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Moving around", []key.Binding{keys.Up, keys.Down, keys.Left, keys.Right, keys.Next, keys.Prev, keys.Home, keys.End, keys.PageUp, keys.PageDown}},
		{"Editing", []key.Binding{keys.Edit, keys.Cancel, keys.Clear, keys.Paste}},
		{"Other", []key.Binding{keys.Help, keys.Quit}},
	}
	for _, s := range sections {
		fmt.Fprintf(&sb, "## %s\n\n| Key | Action |\n|---|---|\n", s.title)
		for _, b := range s.bindings {
			h := b.Help()
			fmt.Fprintf(&sb, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Typing a digit, `-` or `.` on a cell starts editing with that character. ")
	sb.WriteString("Pasted blocks are tab or comma separated, one grid row per line.\n")
	return sb.String()
}

// RenderHelp renders the key reference for a terminal of the given width.
func RenderHelp(keys KeyMap, width int, dark bool) (string, error) {
	if width <= 0 {
		width = 80
	}
	style := "light"
	if dark {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create help renderer: %w", err)
	}
	out, err := renderer.Render(HelpMarkdown(keys))
	if err != nil {
		return "", fmt.Errorf("failed to render help: %w", err)
	}
	return out, nil
}
