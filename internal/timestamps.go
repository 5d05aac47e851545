package internal

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISOLayout matches the millisecond-precision UTC form browsers produce
const ISOLayout = "2006-01-02T15:04:05.000Z"

const (
	timestampSuffix = "_at"
	prettySuffix    = "_pretty"

	minEpochSeconds = 1_000_000_000
	maxEpochSeconds = 10_000_000_000
	minEpochMillis  = 1_000_000_000_000
	maxEpochMillis  = 10_000_000_000_000
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// NormalizeTimestamps returns a copy of value where every object key ending
// in "_at" holding a plausible epoch gains a "<key>_pretty" sibling with the
// ISO-8601 form. The input is never modified.
func NormalizeTimestamps(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = NormalizeTimestamps(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		pretty := make(map[string]string)
		for key, child := range v {
			if child != nil && strings.HasSuffix(key, timestampSuffix) {
				if secs, ok := epochSeconds(child); ok {
					pretty[key+prettySuffix] = formatEpoch(secs)
					out[key] = child
					continue
				}
			}
			out[key] = NormalizeTimestamps(child)
		}
		// computed values replace any upstream "_pretty" field
		for key, iso := range pretty {
			out[key] = iso
		}
		return out
	default:
		return value
	}
}

// epochSeconds detects epoch seconds or milliseconds by magnitude
func epochSeconds(v any) (int64, bool) {
	var n float64
	switch x := v.(type) {
	case string:
		if !digitsOnly.MatchString(x) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		f, ok := toFloat(v)
		if !ok {
			return 0, false
		}
		n = f
	}

	switch {
	case n >= minEpochSeconds && n < maxEpochSeconds:
		return int64(math.Floor(n)), true
	case n >= minEpochMillis && n < maxEpochMillis:
		return int64(math.Floor(n / 1000)), true
	default:
		return 0, false
	}
}

func formatEpoch(secs int64) string {
	return time.Unix(secs, 0).UTC().Format(ISOLayout)
}

// EpochToISO converts a loosely typed creation timestamp to ISO-8601.
// Numbers above 1e10 are taken as milliseconds, ISO strings are reformatted,
// anything else yields an empty string.
func EpochToISO(v any) string {
	if s, ok := v.(string); ok && !digitsOnly.MatchString(s) {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return ""
		}
		return t.UTC().Format(ISOLayout)
	}

	var n float64
	if s, ok := v.(string); ok {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ""
		}
		n = parsed
	} else {
		f, ok := toFloat(v)
		if !ok {
			return ""
		}
		n = f
	}
	if n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return ""
	}
	if n > maxEpochSeconds {
		n = math.Floor(n / 1000)
	}
	// beyond year 9999
	if n > 253402300799 {
		return ""
	}
	return formatEpoch(int64(n))
}
