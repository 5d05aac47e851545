package output

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/iksnae/aza/internal"
)

// JSONPresenter pretty-prints data with a 2-space indent
type JSONPresenter struct{}

// Present writes data as indented JSON followed by a newline
func (p *JSONPresenter) Present(w io.Writer, data any, _ TableSpec) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(data)
}

// Mode returns the output mode name
func (p *JSONPresenter) Mode() internal.OutputMode {
	return internal.ModeJSON
}

// RawPresenter writes data exactly as received: strings verbatim, anything
// else as compact JSON. No newline is added.
type RawPresenter struct{}

// Present writes data without pretty-printing
func (p *RawPresenter) Present(w io.Writer, data any, _ TableSpec) error {
	if s, ok := data.(string); ok {
		_, err := io.WriteString(w, s)
		return err
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, strings.TrimSuffix(b.String(), "\n"))
	return err
}

// Mode returns the output mode name
func (p *RawPresenter) Mode() internal.OutputMode {
	return internal.ModeRaw
}
