package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iksnae/aza/internal"
)

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	e, err := s.explorer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := e.ListAgents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	agents := e.Schema().NormalizeAgents(data)
	writeJSON(w, http.StatusOK, map[string]any{
		"agents":    agents,
		"total":     len(agents),
		"fetchedAt": s.fetchedAt(),
	})
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	e, err := s.explorer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := e.ListConversations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	list := internal.ExtractList(internal.NormalizeTimestamps(data), internal.ConversationKeys...)
	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": list,
		"total":         len(list),
		"fetchedAt":     s.fetchedAt(),
	})
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	e, err := s.explorer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	detail, err := e.ShowConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	opts := e.Config().Transcript
	var transcript strings.Builder
	if err := internal.RenderTranscript(&transcript, detail.Transcript(opts.RunID), opts); err != nil {
		writeError(w, err)
		return
	}

	payload := map[string]any{
		"conversation": internal.NormalizeTimestamps(detail.Conversation),
		"items":        internal.ExtractList(internal.NormalizeTimestamps(detail.Items), internal.ConversationItemKeys...),
		"transcript":   transcript.String(),
	}
	if detail.ItemsErr != nil {
		payload["itemsError"] = detail.ItemsErr.Error()
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleConversationItems(w http.ResponseWriter, r *http.Request) {
	e, err := s.explorer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := e.ListConversationItems(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, internal.NormalizeTimestamps(data))
}

func (s *Server) handleResponses(w http.ResponseWriter, r *http.Request) {
	e, err := s.explorer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := e.ListResponses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	list := internal.WithContentPreview(internal.ExtractList(internal.NormalizeTimestamps(data), internal.ResponseKeys...))
	writeJSON(w, http.StatusOK, map[string]any{
		"responses": list,
		"total":     len(list),
		"fetchedAt": s.fetchedAt(),
	})
}

func (s *Server) handleResponse(w http.ResponseWriter, r *http.Request) {
	e, err := s.explorer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := e.GetResponse(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"response":   internal.NormalizeTimestamps(data),
		"summary":    internal.ResponseSummary(data),
		"entries":    internal.ResponseEntries(data),
		"outputText": internal.ResponseOutputText(data),
	})
}

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	if s.opts.Prefs == nil {
		writeJSON(w, http.StatusOK, internal.UISettings{})
		return
	}
	writeJSON(w, http.StatusOK, s.opts.Prefs.Load(r.Context()))
}

func (s *Server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	if s.opts.Prefs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "preferences store unavailable"})
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !json.Valid(body) {
		writeError(w, internal.NewUsageError("invalid settings JSON"))
		return
	}

	settings := internal.ParseUISettings(body)
	if err := s.opts.Prefs.Save(r.Context(), settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
