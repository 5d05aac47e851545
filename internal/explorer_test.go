package internal

import (
	"context"
	"net/http"
	"testing"

	"github.com/iksnae/aza/testutil"
)

func newTestExplorer(t *testing.T, up *testutil.FakeUpstream, cfg RequestConfig) *Explorer {
	t.Helper()
	cfg.Endpoint = up.URL()
	e, err := NewExplorer(cfg, StaticToken("test-token"))
	if err != nil {
		t.Fatalf("NewExplorer() error = %v", err)
	}
	return e
}

func TestNewExplorer_Validates(t *testing.T) {
	tests := []struct {
		name string
		cfg  RequestConfig
	}{
		{"missing endpoint", RequestConfig{}},
		{"bad order", RequestConfig{Endpoint: "https://h", Pagination: Pagination{Order: "sideways"}}},
		{"negative limit", RequestConfig{Endpoint: "https://h", Pagination: Pagination{Limit: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewExplorer(tt.cfg, StaticToken("x")); KindOf(err) != KindUsage {
				t.Errorf("NewExplorer() error = %v, want usage error", err)
			}
		})
	}
}

func TestExplorer_ListAgentsSchemas(t *testing.T) {
	tests := []struct {
		name        string
		legacy      bool
		path        string
		body        string
		wantVersion string
		wantFirst   Agent
	}{
		{
			name:        "modern",
			path:        "/agents",
			body:        testutil.AgentsJSON,
			wantVersion: AgentsAPIVersion,
			wantFirst:   Agent{ID: "agent_1", Name: "Research Bot", Model: "gpt-4o", CreatedAt: "2023-11-14T22:13:20.000Z"},
		},
		{
			name:        "legacy",
			legacy:      true,
			path:        "/assistants",
			body:        testutil.AssistantsJSON,
			wantVersion: DefaultAPIVersion,
			wantFirst:   Agent{ID: "asst_1", Name: "Helper", Model: "gpt-35-turbo", CreatedAt: "2023-07-22T04:26:40.000Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := testutil.NewFakeUpstream(t)
			up.Handle(tt.path, http.StatusOK, tt.body)
			e := newTestExplorer(t, up, RequestConfig{Legacy: tt.legacy, Pagination: Pagination{Limit: 2}})

			data, err := e.ListAgents(context.Background())
			if err != nil {
				t.Fatalf("ListAgents() error = %v", err)
			}
			agents := e.Schema().NormalizeAgents(data)
			if len(agents) == 0 || agents[0] != tt.wantFirst {
				t.Errorf("agents = %+v, want first %+v", agents, tt.wantFirst)
			}

			req := up.LastRequest(t)
			if got := req.Query.Get("api-version"); got != tt.wantVersion {
				t.Errorf("api-version = %q, want %q", got, tt.wantVersion)
			}
			if got := req.Query.Get("limit"); got != "2" {
				t.Errorf("limit = %q, want 2", got)
			}
		})
	}
}

func TestExplorer_APIVersionOverride(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.Handle("/openai/conversations", http.StatusOK, testutil.ConversationsJSON)
	e := newTestExplorer(t, up, RequestConfig{APIVersionOverride: "2024-01-01"})

	if _, err := e.ListConversations(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := up.LastRequest(t).Query.Get("api-version"); got != "2024-01-01" {
		t.Errorf("api-version = %q, want override", got)
	}
}

func TestExplorer_MissingIDs(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	e := newTestExplorer(t, up, RequestConfig{})
	ctx := context.Background()

	calls := map[string]func() error{
		"agent":        func() error { _, err := e.GetAgent(ctx, ""); return err },
		"conversation": func() error { _, err := e.ShowConversation(ctx, " "); return err },
		"items":        func() error { _, err := e.ListConversationItems(ctx, ""); return err },
		"response":     func() error { _, err := e.GetResponse(ctx, ""); return err },
	}
	for name, call := range calls {
		if err := call(); KindOf(err) != KindUsage {
			t.Errorf("%s: error = %v, want usage error", name, err)
		}
	}
	if n := len(up.Requests()); n != 0 {
		t.Errorf("upstream saw %d requests, want none", n)
	}
}

func TestExplorer_ShowConversation(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.Handle("/openai/conversations/conv_1", http.StatusOK, testutil.ConversationJSON)
	up.Handle("/openai/conversations/conv_1/items", http.StatusOK, testutil.ConversationItemsJSON)
	e := newTestExplorer(t, up, RequestConfig{Transcript: TranscriptOptions{RunID: "run_9"}})

	detail, err := e.ShowConversation(context.Background(), "conv_1")
	if err != nil {
		t.Fatalf("ShowConversation() error = %v", err)
	}
	if detail.ItemsErr != nil {
		t.Fatalf("ItemsErr = %v", detail.ItemsErr)
	}

	items := up.RequestsFor("/openai/conversations/conv_1/items")
	if len(items) != 1 {
		t.Fatalf("items requests = %d, want 1", len(items))
	}
	q := items[0].Query
	if q.Get("limit") != "100" || q.Get("order") != "asc" || q.Get("run_id") != "run_9" {
		t.Errorf("items query = %v", q)
	}

	tr := detail.Transcript("")
	if tr.ConversationID != "conv_1" {
		t.Errorf("ConversationID = %q", tr.ConversationID)
	}
	var ids []string
	for _, it := range tr.Items {
		ids = append(ids, it.ID)
	}
	if len(ids) != 3 || ids[0] != "msg_1" || ids[1] != "fc_2" || ids[2] != "msg_3" {
		t.Errorf("item order = %v, want [msg_1 fc_2 msg_3]", ids)
	}
}

func TestExplorer_ShowConversationItemsFailure(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.Handle("/openai/conversations/conv_1", http.StatusOK, testutil.ConversationJSON)
	up.Handle("/openai/conversations/conv_1/items", http.StatusBadGateway, `{"error":"boom"}`)
	e := newTestExplorer(t, up, RequestConfig{})

	detail, err := e.ShowConversation(context.Background(), "conv_1")
	if err != nil {
		t.Fatalf("ShowConversation() error = %v, want items failure to be non-fatal", err)
	}
	if KindOf(detail.ItemsErr) != KindHTTP {
		t.Errorf("ItemsErr = %v, want http error", detail.ItemsErr)
	}
	tr := detail.Transcript("")
	if len(tr.Items) != 0 || tr.ItemsErr == nil {
		t.Errorf("Transcript() = %+v", tr)
	}
}

func TestExplorer_ConversationFailureIsFatal(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	e := newTestExplorer(t, up, RequestConfig{})

	_, err := e.ShowConversation(context.Background(), "missing")
	if HTTPStatus(err) != http.StatusNotFound {
		t.Errorf("ShowConversation() error = %v, want 404", err)
	}
	if n := len(up.Requests()); n != 1 {
		t.Errorf("upstream saw %d requests, want 1", n)
	}
}

func TestExplorer_Responses(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.Handle("/openai/responses", http.StatusOK, testutil.ResponsesJSON)
	up.Handle("/openai/responses/resp_1", http.StatusOK, testutil.ResponseJSON)
	e := newTestExplorer(t, up, RequestConfig{})
	ctx := context.Background()

	list, err := e.ListResponses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if rows := ExtractList(list, ResponseKeys...); len(rows) != 2 {
		t.Errorf("responses = %d, want 2", len(rows))
	}

	resp, err := e.GetResponse(ctx, "resp_1")
	if err != nil {
		t.Fatal(err)
	}
	if got := ResponseOutputText(resp); got != "Hello from the agent service" {
		t.Errorf("ResponseOutputText() = %q", got)
	}
	if got := up.LastRequest(t).Query.Get("api-version"); got != AgentsAPIVersion {
		t.Errorf("api-version = %q", got)
	}
}
