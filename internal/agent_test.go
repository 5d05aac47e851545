package internal

import (
	"encoding/json"
	"testing"
)

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	v, err := DecodeJSON([]byte(s))
	if err != nil {
		t.Fatalf("DecodeJSON(%q) error = %v", s, err)
	}
	return v
}

func TestNormalizeAgent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Agent
	}{
		{
			name: "latest version definition model",
			raw:  `{"id":"a1","name":"Bot","versions":{"latest":{"definition":{"model":"gpt-4"},"created_at":1700000000}}}`,
			want: Agent{ID: "a1", Name: "Bot", Model: "gpt-4", CreatedAt: "2023-11-14T22:13:20.000Z"},
		},
		{
			name: "deployment when model missing",
			raw:  `{"id":"a2","model":"legacy-model","versions":{"latest":{"definition":{"deployment":"dep-1"}}}}`,
			want: Agent{ID: "a2", Model: "dep-1"},
		},
		{
			name: "top-level legacy fields",
			raw:  `{"id":"asst_1","name":"Helper","model":"gpt-35","created_at":1700000000}`,
			want: Agent{ID: "asst_1", Name: "Helper", Model: "gpt-35", CreatedAt: "2023-11-14T22:13:20.000Z"},
		},
		{
			name: "nested created wins over top level",
			raw:  `{"created_at":1000000000,"versions":{"latest":{"created_at":1700000000}}}`,
			want: Agent{CreatedAt: "2023-11-14T22:13:20.000Z"},
		},
		{
			name: "millisecond createdAt",
			raw:  `{"createdAt":1700000000000}`,
			want: Agent{CreatedAt: "2023-11-14T22:13:20.000Z"},
		},
		{
			name: "empty model string falls through",
			raw:  `{"model":"m","versions":{"latest":{"definition":{"model":""}}}}`,
			want: Agent{Model: "m"},
		},
		{
			name: "wrong types",
			raw:  `{"id":{"x":1},"name":null,"model":[1],"versions":"nope","created_at":"soon"}`,
			want: Agent{},
		},
		{name: "empty object", raw: `{}`, want: Agent{}},
		{name: "null", raw: `null`, want: Agent{}},
		{name: "string", raw: `"agent"`, want: Agent{}},
		{name: "numeric id", raw: `{"id":42}`, want: Agent{ID: "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAgent(mustDecode(t, tt.raw))
			if got != tt.want {
				t.Errorf("NormalizeAgent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLegacySchemaIgnoresVersions(t *testing.T) {
	raw := mustDecode(t, `{"id":"asst_1","model":"gpt-35","versions":{"latest":{"definition":{"model":"gpt-4"}}}}`)
	if got := LegacyAgents.NormalizeAgent(raw).Model; got != "gpt-35" {
		t.Errorf("LegacyAgents model = %q, want gpt-35", got)
	}
	if got := ModernAgents.NormalizeAgent(raw).Model; got != "gpt-4" {
		t.Errorf("ModernAgents model = %q, want gpt-4", got)
	}
}

func TestNormalizeAgents(t *testing.T) {
	envelope := mustDecode(t, `{"object":"list","data":[{"id":"a"},{"id":"b"}]}`)
	agents := AgentSchemaFor(false).NormalizeAgents(envelope)
	if len(agents) != 2 || agents[0].ID != "a" || agents[1].ID != "b" {
		t.Errorf("NormalizeAgents() = %+v", agents)
	}

	legacy := AgentSchemaFor(true)
	if legacy.CollectionPath != "assistants" || legacy.ItemPath("x") != "assistants/x" {
		t.Errorf("legacy schema paths = %q, %q", legacy.CollectionPath, legacy.ItemPath("x"))
	}
}

func TestNormalizeConversationItem(t *testing.T) {
	raw := mustDecode(t, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"created_at": 1700000000,
		"created_at_pretty": "2023-11-14T22:13:20.000Z",
		"run_id": "run_abcdefghijkl",
		"callId": "call_1",
		"attachments": [{}, {}],
		"content": [
			{"type": "output_text", "text": {"value": "hello", "annotations": [{"type": "file_citation", "file_citation": {"file_id": "file_1"}}]}},
			{"type": "output_text", "text": "world", "annotations": [{"type": "url_citation", "url_citation": {"url": "https://x.test"}, "start_index": 1, "end_index": 4}]}
		]
	}`)

	item := NormalizeConversationItem(raw)

	if item.ID != "msg_1" || item.Role != "assistant" || item.Type != "message" {
		t.Errorf("identity fields = %+v", item)
	}
	if item.CreatedAtEpoch != 1700000000 {
		t.Errorf("CreatedAtEpoch = %v", item.CreatedAtEpoch)
	}
	if item.CreatedAtPretty != "2023-11-14T22:13:20.000Z" {
		t.Errorf("CreatedAtPretty = %q", item.CreatedAtPretty)
	}
	if item.CallID != "call_1" {
		t.Errorf("CallID = %q, want camelCase fallback", item.CallID)
	}
	if item.Attachments != 2 {
		t.Errorf("Attachments = %d", item.Attachments)
	}
	if got := item.Text(); len(got) != 2 || got[0] != "hello" || got[1] != "world" {
		t.Errorf("Text() = %v", got)
	}
	if item.CitationCount() != 2 {
		t.Errorf("CitationCount() = %d", item.CitationCount())
	}
	citations := item.Citations()
	if citations[0] != "file_citation -> file_1" || citations[1] != "url_citation [1-4] -> https://x.test" {
		t.Errorf("Citations() = %v", citations)
	}
}

func TestNormalizeConversationItem_Totality(t *testing.T) {
	inputs := []string{`null`, `{}`, `[]`, `"text"`, `42`, `{"content":{"nested":true},"attachments":"x","created_at":{}}`}
	for _, in := range inputs {
		item := NormalizeConversationItem(mustDecode(t, in))
		if item.CreatedAtEpoch != 0 || item.Attachments != 0 {
			t.Errorf("NormalizeConversationItem(%s) = %+v, want zero defaults", in, item)
		}
		if item.DisplayRole() != "unknown" {
			t.Errorf("DisplayRole() = %q, want unknown", item.DisplayRole())
		}
		_ = FormatItemBody(item, DefaultTranscriptOptions())
	}
}

func TestItemEpochFallbacks(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`{"created_at_epoch": 30, "created_at": 99}`, 30},
		{`{"created_at": 1700000000}`, 1700000000},
		{`{"created_at": 1700000000500}`, 1700000000.5},
		{`{"created_at": "2023-11-14T22:13:20Z"}`, 1700000000},
		{`{"created_at": "yesterday"}`, 0},
		{`{}`, 0},
	}

	for _, tt := range tests {
		if got := itemEpoch(mustDecode(t, tt.raw)); got != tt.want {
			t.Errorf("itemEpoch(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeConversationItems_SortsAscending(t *testing.T) {
	envelope := mustDecode(t, `{"data":[
		{"id":"c","created_at_epoch":30},
		{"id":"a","created_at_epoch":10},
		{"id":"b","created_at_epoch":20},
		{"id":"b2","created_at_epoch":20}
	]}`)

	items := NormalizeConversationItems(envelope)
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	want := []string{"a", "b", "b2", "c"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("item order = %v, want %v", ids, want)
		}
	}
}

func TestNormalizeResponseEntry(t *testing.T) {
	raw := mustDecode(t, `{
		"id": "msg_1", "type": "message", "role": "assistant",
		"content": [
			{"type": "reasoning", "text": "skip me"},
			{"type": "output_text", "text": ""},
			{"type": "output_text", "text": "The quick brown fox jumps over the lazy dog"},
			{"type": "output_text", "text": "second"}
		]
	}`)

	entry := NormalizeResponseEntry(raw)
	if entry.ContentPreview != "The quick brown fox " {
		t.Errorf("ContentPreview = %q", entry.ContentPreview)
	}
	if entry.Content != "The quick brown fox jumps over the lazy dog\n\nsecond" {
		t.Errorf("Content = %q", entry.Content)
	}

	for _, in := range []string{`null`, `{}`, `{"content":"x"}`, `[1,2]`} {
		if got := NormalizeResponseEntry(mustDecode(t, in)); got != (ResponseEntry{}) {
			t.Errorf("NormalizeResponseEntry(%s) = %+v, want zero value", in, got)
		}
	}
}

func TestResponseHelpers(t *testing.T) {
	resp := mustDecode(t, `{
		"id": "resp_1",
		"status": "completed",
		"agent": {"type": "agent_reference"},
		"conversation": {"id": "conv_1"},
		"tool_choice": {"type": "auto"},
		"created_at": 1700000000,
		"usage": {"total_tokens": 12, "output_tokens": 5},
		"output": [
			{"id": "o1", "content": [{"type": "output_text", "text": "Hello there, general Kenobi"}]},
			{"id": "o2", "content": [{"type": "output_text", "text": "bye"}]}
		]
	}`)

	if got := ResponsePreview(resp); got != "Hello there, general" {
		t.Errorf("ResponsePreview() = %q", got)
	}
	if got := ResponseOutputText(resp); got != "Hello there, general Kenobi\n\nbye" {
		t.Errorf("ResponseOutputText() = %q", got)
	}
	if got := ResponseEntries(resp); len(got) != 2 || got[1].ID != "o2" {
		t.Errorf("ResponseEntries() = %+v", got)
	}

	summary := ResponseSummary(resp)
	want := map[string]string{
		"Response ID":   "resp_1",
		"Status":        "completed",
		"Agent":         "agent_reference",
		"Conversation":  "conv_1",
		"Tool choice":   "auto",
		"Created":       "2023-11-14T22:13:20.000Z",
		"Total tokens":  "12",
		"Output tokens": "5",
	}
	if len(summary) != len(want) {
		t.Fatalf("ResponseSummary() has %d fields, want %d: %+v", len(summary), len(want), summary)
	}
	for _, f := range summary {
		if want[f.Label] != f.Value {
			t.Errorf("summary %s = %q, want %q", f.Label, f.Value, want[f.Label])
		}
	}

	withPreview := WithContentPreview([]any{resp, map[string]any{"id": "empty"}, "raw"})
	if withPreview[0].(map[string]any)["content_preview"] != "Hello there, general" {
		t.Errorf("WithContentPreview did not add preview: %v", withPreview[0])
	}
	if _, ok := withPreview[1].(map[string]any)["content_preview"]; ok {
		t.Error("records without text should be left unchanged")
	}
	if _, ok := resp.(map[string]any)["content_preview"]; ok {
		t.Error("WithContentPreview mutated its input")
	}
}

func TestScalarOrEmpty(t *testing.T) {
	if got := scalarOrEmpty(json.Number("1.5")); got != "1.5" {
		t.Errorf("scalarOrEmpty(1.5) = %q", got)
	}
	if got := scalarOrEmpty(map[string]any{"a": 1}); got != "" {
		t.Errorf("scalarOrEmpty(map) = %q", got)
	}
}
