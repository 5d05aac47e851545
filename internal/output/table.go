package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/aza/internal"
)

const gutter = "  "

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212"))

// TablePresenter renders records as a fixed-width text table
type TablePresenter struct{}

// Present writes a header row, a dash separator and one row per record.
// Column width is the widest of the header and every cell.
func (p *TablePresenter) Present(w io.Writer, data any, spec TableSpec) error {
	rows, ok := tableRows(data)
	if !ok || len(spec) == 0 {
		return (&JSONPresenter{}).Present(w, data, spec)
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(spec))
	for i, col := range spec {
		widths[i] = lipgloss.Width(col.Header)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(spec))
		for i, col := range spec {
			cell := Cell(row, col.Key)
			cells[r][i] = cell
			if cw := lipgloss.Width(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	styled := internal.IsTerminal(w)
	var b strings.Builder

	header := make([]string, len(spec))
	for i, col := range spec {
		header[i] = pad(col.Header, widths[i])
		if styled {
			header[i] = headerStyle.Render(header[i])
		}
	}
	b.WriteString(strings.Join(header, gutter) + "\n")

	dashes := make([]string, len(widths))
	for i, width := range widths {
		dashes[i] = strings.Repeat("-", width)
	}
	b.WriteString(strings.Join(dashes, gutter) + "\n")

	for _, row := range cells {
		padded := make([]string, len(row))
		for i, cell := range row {
			padded[i] = pad(cell, widths[i])
		}
		b.WriteString(strings.Join(padded, gutter) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Mode returns the output mode name
func (p *TablePresenter) Mode() internal.OutputMode {
	return internal.ModeTable
}

// tableRows accepts a list, or an envelope carrying one under items or data
func tableRows(data any) ([]any, bool) {
	switch v := data.(type) {
	case []any:
		return v, true
	case []map[string]any:
		rows := make([]any, len(v))
		for i, m := range v {
			rows[i] = m
		}
		return rows, true
	case map[string]any:
		for _, key := range []string{"items", "data"} {
			switch list := v[key].(type) {
			case nil:
				continue
			case []any:
				return list, true
			default:
				return nil, false
			}
		}
		return []any{}, true
	}
	return nil, false
}

// Cell renders one table cell: empty for missing values, the plain form of
// scalars, and for objects their id, then name, then compact JSON.
func Cell(record any, key string) string {
	obj, ok := record.(map[string]any)
	if !ok {
		return ""
	}
	switch v := obj[key].(type) {
	case nil:
		return ""
	case map[string]any:
		if id, ok := v["id"]; ok {
			return internal.ScalarString(id)
		}
		if name, ok := v["name"]; ok {
			return internal.ScalarString(name)
		}
		return internal.CompactJSON(v)
	default:
		return internal.ScalarString(v)
	}
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// PrintKeyValues writes label/value pairs with the values aligned
func PrintKeyValues(w io.Writer, fields []internal.SummaryField) error {
	width := 0
	for _, f := range fields {
		if n := lipgloss.Width(f.Label) + 1; n > width {
			width = n
		}
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%s%s%s\n", pad(f.Label+":", width), gutter, f.Value)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
