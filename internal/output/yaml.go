package output

import (
	"encoding/json"
	"io"

	"github.com/iksnae/aza/internal"
	"gopkg.in/yaml.v3"
)

// YAMLPresenter writes data as YAML
type YAMLPresenter struct{}

// Present writes data as a YAML document
func (p *YAMLPresenter) Present(w io.Writer, data any, _ TableSpec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(plainNumbers(data))
}

// Mode returns the output mode name
func (p *YAMLPresenter) Mode() internal.OutputMode {
	return internal.ModeYAML
}

// plainNumbers swaps json.Number for int64/float64 so YAML emits numbers
// rather than quoted strings.
func plainNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = plainNumbers(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = plainNumbers(val)
		}
		return out
	default:
		return v
	}
}
