package internal

import (
	"reflect"
	"testing"
)

func TestExtractList(t *testing.T) {
	preferred := []any{map[string]any{"id": "a1"}}
	generic := []any{map[string]any{"id": "d1"}, map[string]any{"id": "d2"}}
	bare := []any{"x", "y"}
	single := map[string]any{"id": "solo"}

	tests := []struct {
		name     string
		envelope any
		keys     []string
		want     []any
	}{
		{
			name:     "preferred key wins over data",
			envelope: map[string]any{"agents": preferred, "data": generic},
			keys:     []string{"agents", "data", "items"},
			want:     preferred,
		},
		{
			name:     "falls back to data",
			envelope: map[string]any{"object": "list", "data": generic},
			keys:     []string{"agents", "data", "items"},
			want:     generic,
		},
		{
			name:     "non-array preferred key is skipped",
			envelope: map[string]any{"agents": "nope", "items": generic},
			keys:     []string{"agents", "data", "items"},
			want:     generic,
		},
		{
			name:     "bare array unchanged",
			envelope: bare,
			keys:     []string{"data"},
			want:     bare,
		},
		{
			name:     "bare object wrapped",
			envelope: single,
			keys:     []string{"data"},
			want:     []any{single},
		},
		{
			name:     "string wrapped",
			envelope: "not json",
			want:     []any{"not json"},
		},
		{
			name:     "null yields empty",
			envelope: nil,
			keys:     []string{"data"},
			want:     []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractList(tt.envelope, tt.keys...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractList() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
