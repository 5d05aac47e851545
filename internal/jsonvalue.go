package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// DecodeJSON decodes data keeping numbers as json.Number so raw values
// survive a round trip unchanged.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level JSON value")
	}
	return v, nil
}

// lookup walks nested objects by key; any miss yields nil
func lookup(v any, path ...string) any {
	cur := v
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

// stringAt returns the value at path when it is a string
func stringAt(v any, path ...string) string {
	s, _ := lookup(v, path...).(string)
	return s
}

// toFloat converts JSON numbers (and Go numerics) to float64
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

// truthy mirrors the "present and meaningful" test used for field precedence:
// nil, empty strings, zero numbers and false are skipped.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}
		return true
	}
}

// firstTruthy returns the first truthy value found at any of the paths
func firstTruthy(v any, paths [][]string) any {
	for _, p := range paths {
		if val := lookup(v, p...); truthy(val) {
			return val
		}
	}
	return nil
}

// ScalarString renders a scalar the way a loosely typed reader would
func ScalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return CompactJSON(v)
	}
}

// CompactJSON marshals v without indentation or HTML escaping
func CompactJSON(v any) string {
	return marshalJSON(v, "")
}

// IndentJSON marshals v with a 2-space indent
func IndentJSON(v any) string {
	return marshalJSON(v, "  ")
}

func marshalJSON(v any, indent string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// truncateRunes keeps at most n characters of s
func truncateRunes(s string, n int) string {
	if n < 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// shorten trims long identifiers for header display
func shorten(id string, n int) string {
	runes := []rune(id)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return id
}
