package internal

import "strings"

// PreviewLength is the number of characters kept for list previews
const PreviewLength = 20

// ResponseEntry is one element of a response's output list
type ResponseEntry struct {
	ID             string `json:"id" yaml:"id"`
	Type           string `json:"type" yaml:"type"`
	Role           string `json:"role" yaml:"role"`
	ContentPreview string `json:"content_preview" yaml:"content_preview"`
	Content        string `json:"content" yaml:"content"`
}

// Record exposes the entry as a generic record for the table presenter
func (e ResponseEntry) Record() map[string]any {
	return map[string]any{
		"id":              e.ID,
		"type":            e.Type,
		"role":            e.Role,
		"content_preview": e.ContentPreview,
		"content":         e.Content,
	}
}

// SummaryField is one label/value pair of a response summary
type SummaryField struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// NormalizeResponseEntry maps one raw output entry. The preview is the
// first non-empty output_text chunk; Content joins all of them.
func NormalizeResponseEntry(raw any) ResponseEntry {
	texts := outputTexts(raw)
	entry := ResponseEntry{
		ID:      scalarOrEmpty(lookup(raw, "id")),
		Type:    scalarOrEmpty(lookup(raw, "type")),
		Role:    scalarOrEmpty(lookup(raw, "role")),
		Content: strings.Join(texts, "\n\n"),
	}
	if len(texts) > 0 {
		entry.ContentPreview = truncateRunes(texts[0], PreviewLength)
	}
	return entry
}

// ResponseEntries normalizes every entry of a response's output list
func ResponseEntries(response any) []ResponseEntry {
	list, _ := lookup(response, "output").([]any)
	entries := make([]ResponseEntry, 0, len(list))
	for _, raw := range list {
		entries = append(entries, NormalizeResponseEntry(raw))
	}
	return entries
}

// ResponseOutputText joins every output_text chunk of a response
func ResponseOutputText(response any) string {
	var all []string
	list, _ := lookup(response, "output").([]any)
	for _, raw := range list {
		all = append(all, outputTexts(raw)...)
	}
	return strings.Join(all, "\n\n")
}

// ResponsePreview returns the first non-empty text block across the output
// entries, truncated for list display.
func ResponsePreview(response any) string {
	list, _ := lookup(response, "output").([]any)
	for _, entry := range list {
		blocks, _ := lookup(entry, "content").([]any)
		for _, block := range blocks {
			if text := stringAt(block, "text"); text != "" {
				return truncateRunes(text, PreviewLength)
			}
		}
	}
	return ""
}

// WithContentPreview returns a copy of each record that has a preview,
// adding the content_preview key.
func WithContentPreview(records []any) []any {
	out := make([]any, len(records))
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		preview := ResponsePreview(rec)
		if !ok || preview == "" {
			out[i] = rec
			continue
		}
		cp := make(map[string]any, len(obj)+1)
		for k, v := range obj {
			cp[k] = v
		}
		cp["content_preview"] = preview
		out[i] = cp
	}
	return out
}

// ResponseSummary lists the metadata worth showing for a response, skipping
// empty values.
func ResponseSummary(response any) []SummaryField {
	toolChoice := lookup(response, "tool_choice")
	if _, isObj := toolChoice.(map[string]any); isObj {
		toolChoice = lookup(toolChoice, "type")
	}
	agent := lookup(response, "agent", "name")
	if !truthy(agent) {
		agent = lookup(response, "agent", "type")
	}

	candidates := []SummaryField{
		{"Response ID", scalarOrEmpty(lookup(response, "id"))},
		{"Status", scalarOrEmpty(lookup(response, "status"))},
		{"Agent", scalarOrEmpty(agent)},
		{"Conversation", scalarOrEmpty(lookup(response, "conversation", "id"))},
		{"Temperature", scalarOrEmpty(lookup(response, "temperature"))},
		{"Tool choice", scalarOrEmpty(toolChoice)},
		{"Created", EpochToISO(lookup(response, "created_at"))},
		{"Total tokens", scalarOrEmpty(lookup(response, "usage", "total_tokens"))},
		{"Output tokens", scalarOrEmpty(lookup(response, "usage", "output_tokens"))},
		{"Input tokens", scalarOrEmpty(lookup(response, "usage", "input_tokens"))},
	}

	fields := make([]SummaryField, 0, len(candidates))
	for _, f := range candidates {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func outputTexts(entry any) []string {
	var texts []string
	blocks, _ := lookup(entry, "content").([]any)
	for _, block := range blocks {
		if stringAt(block, "type") != "output_text" {
			continue
		}
		if text := stringAt(block, "text"); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
