package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Canned upstream payloads
const (
	AgentsJSON = `{
  "object": "list",
  "data": [
    {
      "id": "agent_1",
      "name": "Research Bot",
      "versions": {"latest": {"definition": {"model": "gpt-4o"}, "created_at": 1700000000}}
    },
    {
      "id": "agent_2",
      "name": "Ops",
      "model": "fallback",
      "versions": {"latest": {"definition": {"deployment": "ops-deploy"}}},
      "created_at": 1700000100000
    }
  ]
}`

	AssistantsJSON = `{
  "object": "list",
  "data": [
    {"id": "asst_1", "name": "Helper", "model": "gpt-35-turbo", "created_at": 1690000000}
  ]
}`

	AgentJSON = `{"id": "agent_1", "name": "Research Bot", "created_at": 1700000000}`

	ConversationsJSON = `{
  "data": [
    {"id": "conv_1", "object": "conversation", "created_at": 1700000000},
    {"id": "conv_2", "object": "conversation", "created_at": 1700000500}
  ]
}`

	ConversationJSON = `{"id": "conv_1", "object": "conversation", "created_at": 1700000000}`

	// ConversationItemsJSON arrives out of order on purpose
	ConversationItemsJSON = `{
  "data": [
    {
      "id": "msg_3", "type": "message", "role": "assistant", "created_at": 1700000030,
      "content": [{"type": "output_text", "text": {"value": "Go is a language.", "annotations": [
        {"type": "url_citation", "url_citation": {"url": "https://go.dev"}, "start_index": 0, "end_index": 2}
      ]}}]
    },
    {
      "id": "msg_1", "type": "message", "role": "user", "created_at": 1700000010,
      "content": [{"type": "input_text", "text": "What is Go?"}]
    },
    {
      "id": "fc_2", "type": "remote_function_call", "created_at": 1700000020,
      "label": "Search", "name": "web_search", "call_id": "call_abcdefghijkl",
      "arguments": "{\"q\":\"golang\"}"
    }
  ]
}`

	ResponsesJSON = `{
  "data": [
    {
      "id": "resp_1", "status": "completed", "created_at": 1700000000,
      "output": [{"id": "msg_a", "type": "message", "content": [{"type": "output_text", "text": "Hello from the agent service"}]}]
    },
    {"id": "resp_2", "status": "failed", "created_at": 1700000100, "output": []}
  ]
}`

	ResponseJSON = `{
  "id": "resp_1",
  "status": "completed",
  "created_at": 1700000000,
  "agent": {"name": "Research Bot", "type": "agent_reference"},
  "conversation": {"id": "conv_1"},
  "usage": {"input_tokens": 10, "output_tokens": 5, "total_tokens": 15},
  "output": [
    {"id": "msg_a", "type": "message", "role": "assistant", "content": [{"type": "output_text", "text": "Hello from the agent service"}]}
  ]
}`
)

// PrefsKey is the row the UI settings are stored under
const PrefsKey = "aza-ui-settings"

// CreatePrefsFixture creates a preferences database at dbPath holding value
// under PrefsKey. value may be deliberately malformed.
func CreatePrefsFixture(t *testing.T, dbPath string, value string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createSettingsTable(t, db)
	if _, err := db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", PrefsKey, value); err != nil {
		t.Fatalf("Failed to insert settings: %v", err)
	}
}
