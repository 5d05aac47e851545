package internal

import (
	"fmt"
	"strconv"
)

// ChunkKind identifies which shape a content chunk arrived in
type ChunkKind int

const (
	ChunkEmpty     ChunkKind = iota // null, unknown shape, or no usable text
	ChunkString                     // bare string
	ChunkText                       // {"text": "..."}
	ChunkTextValue                  // {"text": {"value": "..."}}
	ChunkValue                      // {"value": "..."}
	ChunkContent                    // {"content": "..."}
)

// ContentChunk is one parsed element of an item's content list
type ContentChunk struct {
	Kind        ChunkKind
	Type        string
	Text        string
	Annotations []Annotation
}

// RefKind identifies what a citation points at
type RefKind int

const (
	RefNone RefKind = iota
	RefFileCitation
	RefFilePath
	RefURL
)

// Annotation is a citation attached to a content chunk
type Annotation struct {
	Type    string
	Start   *int64
	End     *int64
	RefKind RefKind
	Ref     string
}

// ParseChunk classifies a raw chunk. Shapes are tried in a fixed order and
// anything unrecognized becomes ChunkEmpty.
func ParseChunk(raw any) ContentChunk {
	switch v := raw.(type) {
	case string:
		return ContentChunk{Kind: ChunkString, Text: v}
	case map[string]any:
		chunk := ContentChunk{
			Type:        stringAt(v, "type"),
			Annotations: parseAnnotations(v),
		}
		textObj, textIsObj := v["text"].(map[string]any)
		switch {
		case isString(v["text"]):
			chunk.Kind, chunk.Text = ChunkText, v["text"].(string)
		case textIsObj && isString(textObj["value"]):
			chunk.Kind, chunk.Text = ChunkTextValue, textObj["value"].(string)
		case isString(v["value"]):
			chunk.Kind, chunk.Text = ChunkValue, v["value"].(string)
		case isString(v["content"]):
			chunk.Kind, chunk.Text = ChunkContent, v["content"].(string)
		default:
			chunk.Kind = ChunkEmpty
		}
		return chunk
	default:
		return ContentChunk{Kind: ChunkEmpty}
	}
}

// ParseChunks parses an item's content field; a non-list value counts as a
// single chunk.
func ParseChunks(content any) []ContentChunk {
	var raw []any
	switch v := content.(type) {
	case nil:
		return nil
	case []any:
		raw = v
	default:
		raw = []any{v}
	}
	chunks := make([]ContentChunk, 0, len(raw))
	for _, r := range raw {
		chunks = append(chunks, ParseChunk(r))
	}
	return chunks
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// parseAnnotations reads annotations from the nested text object first,
// then from the chunk itself.
func parseAnnotations(chunk map[string]any) []Annotation {
	list, ok := lookup(chunk, "text", "annotations").([]any)
	if !ok {
		list, ok = chunk["annotations"].([]any)
	}
	if !ok {
		return nil
	}
	out := make([]Annotation, 0, len(list))
	for _, raw := range list {
		out = append(out, ParseAnnotation(raw))
	}
	return out
}

// ParseAnnotation resolves the reference in priority order: file citation,
// file path, URL citation, then the "ref" placeholder.
func ParseAnnotation(raw any) Annotation {
	ann := Annotation{
		Type:  stringAt(raw, "type"),
		Start: intAt(raw, "start_index"),
		End:   intAt(raw, "end_index"),
	}
	switch {
	case truthy(lookup(raw, "file_citation", "file_id")):
		ann.RefKind, ann.Ref = RefFileCitation, ScalarString(lookup(raw, "file_citation", "file_id"))
	case truthy(lookup(raw, "file_path", "file_id")):
		ann.RefKind, ann.Ref = RefFilePath, ScalarString(lookup(raw, "file_path", "file_id"))
	case truthy(lookup(raw, "url_citation", "url")):
		ann.RefKind, ann.Ref = RefURL, ScalarString(lookup(raw, "url_citation", "url"))
	default:
		ann.RefKind, ann.Ref = RefNone, "ref"
	}
	return ann
}

func intAt(v any, key string) *int64 {
	val := lookup(v, key)
	f, ok := toFloat(val)
	if !ok {
		if s, isStr := val.(string); isStr {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil
			}
			return &n
		}
		return nil
	}
	n := int64(f)
	return &n
}

// String formats the annotation as "<type> [<start>-<end>] -> <ref>"
func (a Annotation) String() string {
	typ := a.Type
	if typ == "" {
		typ = "annotation"
	}
	if a.Start != nil && a.End != nil {
		return fmt.Sprintf("%s [%d-%d] -> %s", typ, *a.Start, *a.End, a.Ref)
	}
	return fmt.Sprintf("%s -> %s", typ, a.Ref)
}
