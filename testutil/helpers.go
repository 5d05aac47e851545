package testutil

import (
	"encoding/json"
	"testing"
)

// JSONMarshal marshals a value to JSON for testing
func JSONMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return data
}

// JSONUnmarshal unmarshals JSON for testing
func JSONUnmarshal(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
}

// JSONObject decodes data into a generic object
func JSONObject(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var obj map[string]interface{}
	JSONUnmarshal(t, data, &obj)
	return obj
}
