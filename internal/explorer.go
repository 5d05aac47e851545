package internal

import (
	"context"
	"net/url"
	"strings"
)

// Upstream collection paths, relative to the project endpoint
const (
	ConversationsPath = "openai/conversations"
	ResponsesPath     = "openai/responses"
)

// Explorer issues the read-only operations shared by the command line and
// the web explorer. It is bound to one RequestConfig.
type Explorer struct {
	cfg    RequestConfig
	client *Client
}

// NewExplorer validates cfg and builds the upstream client
func NewExplorer(cfg RequestConfig, tokens TokenSource, opts ...ClientOption) (*Explorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := NewClient(cfg, tokens, opts...)
	if err != nil {
		return nil, err
	}
	return &Explorer{cfg: cfg, client: client}, nil
}

// Config returns the request configuration the explorer was built with
func (e *Explorer) Config() RequestConfig {
	return e.cfg
}

// Schema is the agent schema selected by the legacy flag
func (e *Explorer) Schema() AgentSchema {
	return AgentSchemaFor(e.cfg.Legacy)
}

// ListAgents fetches the raw agent collection
func (e *Explorer) ListAgents(ctx context.Context) (any, error) {
	s := e.Schema()
	return e.client.Request(ctx, s.CollectionPath, RequestOptions{Query: e.cfg.ListQuery(s.APIVersion)})
}

// GetAgent fetches one agent or legacy assistant
func (e *Explorer) GetAgent(ctx context.Context, id string) (any, error) {
	if err := requireID(id, "agentId"); err != nil {
		return nil, err
	}
	s := e.Schema()
	return e.client.Request(ctx, s.ItemPath(id), RequestOptions{Query: e.cfg.ItemQuery(s.APIVersion)})
}

// ListConversations fetches the raw conversation collection
func (e *Explorer) ListConversations(ctx context.Context) (any, error) {
	return e.client.Request(ctx, ConversationsPath, RequestOptions{Query: e.cfg.ListQuery(AgentsAPIVersion)})
}

// GetConversation fetches one conversation without its items
func (e *Explorer) GetConversation(ctx context.Context, id string) (any, error) {
	if err := requireID(id, "conversationId"); err != nil {
		return nil, err
	}
	return e.client.Request(ctx, conversationPath(id), RequestOptions{Query: e.cfg.ItemQuery(AgentsAPIVersion)})
}

// ListConversationItems fetches the items of a conversation with the item
// pagination defaults and the run filter applied.
func (e *Explorer) ListConversationItems(ctx context.Context, id string) (any, error) {
	if err := requireID(id, "conversationId"); err != nil {
		return nil, err
	}
	return e.client.Request(ctx, conversationPath(id)+"/items", RequestOptions{Query: e.cfg.ItemsQuery()})
}

// ConversationDetail is a conversation together with its items
type ConversationDetail struct {
	ID           string
	Conversation any
	Items        any
	// ItemsErr is set when the items request failed; Items is nil then
	ItemsErr error
}

// ShowConversation fetches a conversation and then its items. A failure of
// the items request is recorded on the detail instead of failing the call.
func (e *Explorer) ShowConversation(ctx context.Context, id string) (*ConversationDetail, error) {
	conversation, err := e.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &ConversationDetail{ID: id, Conversation: conversation}

	items, err := e.ListConversationItems(ctx, id)
	if err != nil {
		LogDebug("Failed to fetch conversation items: %v", err)
		detail.ItemsErr = err
		return detail, nil
	}
	detail.Items = items
	return detail, nil
}

// Transcript normalizes the detail into an ordered transcript, keeping only
// items of runID when it is set.
func (d *ConversationDetail) Transcript(runID string) Transcript {
	id := stringAt(d.Conversation, "id")
	if id == "" {
		id = d.ID
	}
	items := NormalizeConversationItems(NormalizeTimestamps(d.Items))
	return Transcript{
		ConversationID: id,
		Items:          FilterRun(items, runID),
		ItemsErr:       d.ItemsErr,
	}
}

// ListResponses fetches the raw response collection
func (e *Explorer) ListResponses(ctx context.Context) (any, error) {
	return e.client.Request(ctx, ResponsesPath, RequestOptions{Query: e.cfg.ListQuery(AgentsAPIVersion)})
}

// GetResponse fetches one response
func (e *Explorer) GetResponse(ctx context.Context, id string) (any, error) {
	if err := requireID(id, "responseId"); err != nil {
		return nil, err
	}
	return e.client.Request(ctx, ResponsesPath+"/"+url.PathEscape(id), RequestOptions{Query: e.cfg.ItemQuery(AgentsAPIVersion)})
}

func conversationPath(id string) string {
	return ConversationsPath + "/" + url.PathEscape(id)
}

func requireID(id, name string) error {
	if strings.TrimSpace(id) == "" {
		return NewUsageError("Missing %s", name)
	}
	return nil
}
