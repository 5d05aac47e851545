package output

import (
	"fmt"
	"io"

	"github.com/iksnae/aza/internal"
)

// Column is one (header, record key) pair of a table
type Column struct {
	Header string
	Key    string
}

// TableSpec is the ordered column list of a table
type TableSpec []Column

// Presenter writes command results in one output mode
type Presenter interface {
	// Present writes data. spec is only consulted by the table mode; a nil
	// spec makes the table mode fall back to JSON.
	Present(w io.Writer, data any, spec TableSpec) error
	Mode() internal.OutputMode
}

// NewPresenter creates a presenter for mode
func NewPresenter(mode internal.OutputMode) (Presenter, error) {
	switch mode {
	case internal.ModeTable, "":
		return &TablePresenter{}, nil
	case internal.ModeJSON:
		return &JSONPresenter{}, nil
	case internal.ModeRaw:
		return &RawPresenter{}, nil
	case internal.ModeYAML:
		return &YAMLPresenter{}, nil
	default:
		return nil, internal.NewUsageError("unsupported output mode: %s (supported: table, json, raw, yaml)", mode)
	}
}

// Present is a shorthand for NewPresenter followed by Present
func Present(w io.Writer, mode internal.OutputMode, data any, spec TableSpec) error {
	p, err := NewPresenter(mode)
	if err != nil {
		return err
	}
	if err := p.Present(w, data, spec); err != nil {
		return fmt.Errorf("failed to write %s output: %w", p.Mode(), err)
	}
	return nil
}

// Recorder is implemented by normalized rows
type Recorder interface {
	Record() map[string]any
}

// Records converts normalized rows into generic records for the table
func Records[T Recorder](rows []T) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record())
	}
	return out
}
