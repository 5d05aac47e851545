package internal

import "testing"

func TestParseChunk(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind ChunkKind
		wantText string
	}{
		{"bare string", `"hi"`, ChunkString, "hi"},
		{"text string", `{"type":"output_text","text":"a"}`, ChunkText, "a"},
		{"text value", `{"text":{"value":"b"}}`, ChunkTextValue, "b"},
		{"value", `{"value":"c"}`, ChunkValue, "c"},
		{"content", `{"content":"d"}`, ChunkContent, "d"},
		{"text wins over value", `{"text":"t","value":"v"}`, ChunkText, "t"},
		{"non-string text falls through", `{"text":5,"content":"e"}`, ChunkContent, "e"},
		{"null", `null`, ChunkEmpty, ""},
		{"number", `7`, ChunkEmpty, ""},
		{"unknown object", `{"image":"x.png"}`, ChunkEmpty, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseChunk(mustDecode(t, tt.raw))
			if got.Kind != tt.wantKind || got.Text != tt.wantText {
				t.Errorf("ParseChunk(%s) = {%v %q}, want {%v %q}", tt.raw, got.Kind, got.Text, tt.wantKind, tt.wantText)
			}
		})
	}
}

func TestParseChunks_SingleValue(t *testing.T) {
	chunks := ParseChunks("plain")
	if len(chunks) != 1 || chunks[0].Text != "plain" {
		t.Errorf("ParseChunks(string) = %+v", chunks)
	}
	if got := ParseChunks(nil); len(got) != 0 {
		t.Errorf("ParseChunks(nil) = %+v, want empty", got)
	}
}

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantRef RefKind
		want    string
	}{
		{
			name:    "file citation with range",
			raw:     `{"type":"file_citation","file_citation":{"file_id":"f1"},"start_index":0,"end_index":12}`,
			wantRef: RefFileCitation,
			want:    "file_citation [0-12] -> f1",
		},
		{
			name:    "file path",
			raw:     `{"type":"file_path","file_path":{"file_id":"f2"}}`,
			wantRef: RefFilePath,
			want:    "file_path -> f2",
		},
		{
			name:    "file citation beats url",
			raw:     `{"type":"mixed","url_citation":{"url":"https://u"},"file_citation":{"file_id":"f3"}}`,
			wantRef: RefFileCitation,
			want:    "mixed -> f3",
		},
		{
			name:    "url citation",
			raw:     `{"type":"url_citation","url_citation":{"url":"https://u"},"start_index":"3","end_index":"9"}`,
			wantRef: RefURL,
			want:    "url_citation [3-9] -> https://u",
		},
		{
			name:    "no reference and no type",
			raw:     `{"start_index":1}`,
			wantRef: RefNone,
			want:    "annotation -> ref",
		},
		{
			name:    "not an object",
			raw:     `"oops"`,
			wantRef: RefNone,
			want:    "annotation -> ref",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann := ParseAnnotation(mustDecode(t, tt.raw))
			if ann.RefKind != tt.wantRef {
				t.Errorf("RefKind = %v, want %v", ann.RefKind, tt.wantRef)
			}
			if got := ann.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseChunk_AnnotationSources(t *testing.T) {
	nested := ParseChunk(mustDecode(t, `{"text":{"value":"x","annotations":[{"type":"a"}]},"annotations":[{"type":"b"},{"type":"c"}]}`))
	if len(nested.Annotations) != 1 || nested.Annotations[0].Type != "a" {
		t.Errorf("nested annotations should win, got %+v", nested.Annotations)
	}

	top := ParseChunk(mustDecode(t, `{"text":"x","annotations":[{"type":"b"},{"type":"c"}]}`))
	if len(top.Annotations) != 2 {
		t.Errorf("top-level annotations = %+v", top.Annotations)
	}

	empty := ParseChunk(mustDecode(t, `{"image":"x","annotations":[{}]}`))
	if empty.Kind != ChunkEmpty || len(empty.Annotations) != 1 {
		t.Errorf("empty chunk should still carry annotations, got %+v", empty)
	}
}
