package internal

import (
	"sort"
	"time"
)

// Item types that carry structured function payloads
const (
	ItemRemoteFunctionCall       = "remote_function_call"
	ItemRemoteFunctionCallOutput = "remote_function_call_output"
)

// ConversationItem is a normalized entry of a conversation's item list
type ConversationItem struct {
	ID              string
	Type            string
	Role            string
	CreatedAtEpoch  float64
	CreatedAtPretty string
	RunID           string
	CallID          string
	Label           string
	Name            string
	Arguments       any
	Output          any
	Error           any
	DisplayText     string
	Summary         string
	Chunks          []ContentChunk
	Attachments     int
}

// NormalizeConversationItem maps a raw item; it never fails.
func NormalizeConversationItem(raw any) ConversationItem {
	item := ConversationItem{
		ID:              scalarOrEmpty(lookup(raw, "id")),
		Type:            scalarOrEmpty(lookup(raw, "type")),
		Role:            scalarOrEmpty(lookup(raw, "role")),
		CreatedAtEpoch:  itemEpoch(raw),
		CreatedAtPretty: prettyCreated(raw),
		RunID:           scalarOrEmpty(lookup(raw, "run_id")),
		CallID:          scalarOrEmpty(lookup(raw, "call_id")),
		Label:           scalarOrEmpty(lookup(raw, "label")),
		Name:            scalarOrEmpty(lookup(raw, "name")),
		Arguments:       lookup(raw, "arguments"),
		Output:          lookup(raw, "output"),
		Error:           lookup(raw, "error"),
		Chunks:          ParseChunks(lookup(raw, "content")),
	}
	if item.CallID == "" {
		item.CallID = scalarOrEmpty(lookup(raw, "callId"))
	}
	if v := lookup(raw, "display_text"); truthy(v) {
		item.DisplayText = ScalarString(v)
	}
	if v := lookup(raw, "summary"); truthy(v) {
		item.Summary = ScalarString(v)
	}
	if list, ok := lookup(raw, "attachments").([]any); ok {
		item.Attachments = len(list)
	}
	return item
}

// NormalizeConversationItems extracts, normalizes and sorts the items of an
// envelope in ascending creation order. The sort is stable.
func NormalizeConversationItems(envelope any) []ConversationItem {
	rows := ExtractList(envelope, ConversationItemKeys...)
	items := make([]ConversationItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, NormalizeConversationItem(row))
	}
	SortItems(items)
	return items
}

// SortItems orders items by CreatedAtEpoch, keeping input order for ties
func SortItems(items []ConversationItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAtEpoch < items[j].CreatedAtEpoch
	})
}

// itemEpoch resolves the sort key: explicit epoch field, then an ISO string,
// then zero.
func itemEpoch(raw any) float64 {
	if f, ok := toFloat(lookup(raw, "created_at_epoch")); ok {
		return f
	}
	created := lookup(raw, "created_at")
	if f, ok := toFloat(created); ok {
		if f >= minEpochMillis {
			return f / 1000
		}
		return f
	}
	if s, ok := created.(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return float64(t.UnixMilli()) / 1000
		}
	}
	return 0
}

func prettyCreated(raw any) string {
	if s := stringAt(raw, "created_at_pretty"); s != "" {
		return s
	}
	return scalarOrEmpty(lookup(raw, "created_at"))
}

// DisplayRole is the role, falling back to the item type
func (it ConversationItem) DisplayRole() string {
	switch {
	case it.Role != "":
		return it.Role
	case it.Type != "":
		return it.Type
	default:
		return "unknown"
	}
}

// Text returns the non-empty chunk texts in order, or the display text /
// summary fallback when no chunk had any.
func (it ConversationItem) Text() []string {
	var out []string
	for _, chunk := range it.Chunks {
		if chunk.Kind != ChunkEmpty && chunk.Text != "" {
			out = append(out, chunk.Text)
		}
	}
	if len(out) > 0 {
		return out
	}
	if it.DisplayText != "" {
		return []string{it.DisplayText}
	}
	if it.Summary != "" {
		return []string{it.Summary}
	}
	return nil
}

// CitationCount counts annotations across all chunks
func (it ConversationItem) CitationCount() int {
	total := 0
	for _, chunk := range it.Chunks {
		total += len(chunk.Annotations)
	}
	return total
}

// Citations formats every annotation for detail display
func (it ConversationItem) Citations() []string {
	var details []string
	for _, chunk := range it.Chunks {
		for _, ann := range chunk.Annotations {
			details = append(details, ann.String())
		}
	}
	return details
}
