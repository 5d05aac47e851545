package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	truncatedMarker = " ... [truncated]"
	idDisplayLength = 10
)

// NoTruncation disables body truncation in TranscriptOptions.MaxBody
const NoTruncation = -1

var transcriptTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212"))

// TranscriptOptions controls how a conversation transcript is rendered
type TranscriptOptions struct {
	ShowIDs       bool
	ShowCitations bool
	NoWrap        bool
	// MaxBody is the maximum body length in characters; NoTruncation disables it
	MaxBody int
	RunID   string
	// Styled renders the title line with terminal styling
	Styled bool
}

// DefaultTranscriptOptions wraps bodies and never truncates
func DefaultTranscriptOptions() TranscriptOptions {
	return TranscriptOptions{MaxBody: NoTruncation}
}

// Transcript is an ordered conversation ready for rendering
type Transcript struct {
	ConversationID string
	Items          []ConversationItem
	// ItemsErr is set when the items could not be fetched
	ItemsErr error
}

// FilterRun drops items that belong to a different run. Items without a run
// id are kept.
func FilterRun(items []ConversationItem, runID string) []ConversationItem {
	if runID == "" {
		return items
	}
	out := make([]ConversationItem, 0, len(items))
	for _, it := range items {
		if it.RunID == "" || it.RunID == runID {
			out = append(out, it)
		}
	}
	return out
}

// RenderTranscript writes the human-readable transcript to w
func RenderTranscript(w io.Writer, t Transcript, opts TranscriptOptions) error {
	var b strings.Builder

	count := len(t.Items)
	title := fmt.Sprintf("Conversation %s (%d %s)", t.ConversationID, count, plural(count, "item"))
	if opts.Styled {
		title = transcriptTitleStyle.Render(title)
	}
	b.WriteString(title + "\n")
	if t.ItemsErr != nil {
		fmt.Fprintf(&b, "(items unavailable: %v)\n", t.ItemsErr)
	}

	for _, item := range t.Items {
		b.WriteString(itemHeader(item, opts))
		b.WriteString(":\n")

		for _, line := range strings.Split(FormatItemBody(item, opts), "\n") {
			b.WriteString("  " + line + "\n")
		}

		citations := item.CitationCount()
		var indicators []string
		if citations > 0 {
			indicators = append(indicators, fmt.Sprintf("%d %s", citations, plural(citations, "citation")))
		}
		if item.Attachments > 0 {
			indicators = append(indicators, fmt.Sprintf("%d %s", item.Attachments, plural(item.Attachments, "attachment")))
		}
		if len(indicators) > 0 {
			b.WriteString("  [" + strings.Join(indicators, ", ") + "]\n")
		}
		if opts.ShowCitations && citations > 0 {
			for _, detail := range item.Citations() {
				b.WriteString("    - " + detail + "\n")
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func itemHeader(item ConversationItem, opts TranscriptOptions) string {
	var extras []string
	if opts.ShowIDs && item.ID != "" {
		extras = append(extras, "id: "+item.ID)
	}
	if item.RunID != "" {
		extras = append(extras, "run: "+shorten(item.RunID, idDisplayLength))
	}
	if item.CallID != "" {
		extras = append(extras, "call: "+shorten(item.CallID, idDisplayLength))
	}

	header := strings.TrimSpace(item.CreatedAtPretty + " " + item.DisplayRole())
	if len(extras) > 0 {
		header += " (" + strings.Join(extras, ", ") + ")"
	}
	return header
}

// FormatItemBody builds the indented body of one transcript entry: text,
// function call details, output and error blocks, then truncation and
// wrapping as requested.
func FormatItemBody(item ConversationItem, opts TranscriptOptions) string {
	parts := item.Text()

	switch item.Type {
	case ItemRemoteFunctionCall:
		var fn []string
		for _, s := range []string{item.Label, item.Name} {
			if s != "" {
				fn = append(fn, s)
			}
		}
		if len(fn) > 0 {
			parts = append(parts, "Function: "+strings.Join(fn, " / "))
		}
		if args := FormatStructured(item.Arguments); args != "" {
			parts = append(parts, "Arguments:\n"+args)
		}
	case ItemRemoteFunctionCallOutput:
		if out := FormatStructured(item.Output); out != "" {
			parts = append(parts, "Output:\n"+out)
		}
	}

	if truthy(item.Error) {
		if errText := FormatStructured(item.Error); errText != "" {
			parts = append(parts, "Error:\n"+errText)
		}
	}

	body := strings.Join(parts, "\n\n")
	if opts.MaxBody >= 0 {
		if runes := []rune(body); len(runes) > opts.MaxBody {
			body = string(runes[:opts.MaxBody]) + truncatedMarker
		}
	}
	if !opts.NoWrap {
		body = SoftWrap(body, WrapWidth)
	}
	return body
}

// FormatStructured renders a loosely typed value for display. Strings that
// parse as JSON are re-indented; other strings are returned verbatim.
func FormatStructured(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return ""
		}
		parsed, err := DecodeJSON([]byte(trimmed))
		if err != nil {
			return v
		}
		return IndentJSON(parsed)
	case map[string]any, []any:
		return IndentJSON(v)
	case json.Number:
		return v.String()
	default:
		return ScalarString(v)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
