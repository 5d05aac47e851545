// Package server is the local web explorer: a JSON API proxying the agent
// service plus the embedded browser UI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iksnae/aza/internal"
	"github.com/sirupsen/logrus"
)

// DefaultPort is the port the explorer listens on when none is configured
const DefaultPort = 4173

const (
	maxBodyBytes    = 1_000_000
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server
type Options struct {
	// Defaults fill every request config before query parameters apply and
	// are used as given; start from internal.DefaultTranscriptOptions for
	// the transcript. Its Endpoint is used when a request carries no
	// ?project.
	Defaults internal.RequestConfig
	Tokens   internal.TokenSource
	// Prefs may be nil, in which case settings are not persisted
	Prefs         *internal.PrefsStore
	ClientOptions []internal.ClientOption
	Now           func() time.Time
}

// Server serves the explorer API and assets
type Server struct {
	opts Options
}

// New builds a Server
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{opts: opts}
}

// Handler returns the full handler chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/agents", s.handleAgents)
	mux.HandleFunc("GET /api/conversations", s.handleConversations)
	mux.HandleFunc("GET /api/conversations/{id}", s.handleConversation)
	mux.HandleFunc("GET /api/conversations/{id}/items", s.handleConversationItems)
	mux.HandleFunc("GET /api/responses", s.handleResponses)
	mux.HandleFunc("GET /api/responses/{id}", s.handleResponse)
	mux.HandleFunc("GET /api/settings", s.handleSettingsGet)
	mux.HandleFunc("PUT /api/settings", s.handleSettingsPut)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
	})

	mux.Handle("/", newStaticHandler())
	return withRequestLog(mux)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down explorer: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestConfig layers the query parameters over the defaults
func (s *Server) requestConfig(r *http.Request) (internal.RequestConfig, error) {
	q := r.URL.Query()
	cfg := s.opts.Defaults

	if project := strings.TrimSpace(q.Get("project")); project != "" {
		cfg.Endpoint = project
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return cfg, internal.NewUsageError("Set AZA_PROJECT or supply ?project=<endpoint>")
	}
	if v := strings.TrimSpace(q.Get("apiVersion")); v != "" {
		cfg.APIVersionOverride = v
	}

	cfg.Pagination = internal.Pagination{
		Limit:  intFromQuery(r, "limit", 0),
		Order:  strings.TrimSpace(q.Get("order")),
		After:  strings.TrimSpace(q.Get("after")),
		Before: strings.TrimSpace(q.Get("before")),
	}
	cfg.Legacy = q.Get("mode") == "legacy"
	cfg.Debug = cfg.Debug || q.Get("debug") == "true"

	t := cfg.Transcript
	t.ShowIDs = boolFromQuery(r, "showIds", t.ShowIDs)
	t.ShowCitations = boolFromQuery(r, "showCitations", t.ShowCitations)
	t.NoWrap = boolFromQuery(r, "noWrap", t.NoWrap)
	t.MaxBody = intFromQuery(r, "maxBody", t.MaxBody)
	if t.MaxBody < internal.NoTruncation {
		return cfg, internal.NewUsageError("maxBody must be -1 or greater, got %d", t.MaxBody)
	}
	if runID := strings.TrimSpace(q.Get("runId")); runID != "" {
		t.RunID = runID
	}
	t.Styled = false
	cfg.Transcript = t

	return cfg, nil
}

func (s *Server) explorer(r *http.Request) (*internal.Explorer, error) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		return nil, err
	}
	return internal.NewExplorer(cfg, s.opts.Tokens, s.opts.ClientOptions...)
}

func (s *Server) fetchedAt() string {
	return s.opts.Now().UTC().Format(internal.ISOLayout)
}

// statusRecorder captures the status code for the request log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		w.Header().Set("Cache-Control", "no-store")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := internal.Logger().WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).Round(time.Millisecond),
		})
		switch {
		case rec.status >= 500:
			entry.Error("request failed")
		case rec.status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	b, err := json.Marshal(v)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"failed to marshal json"}`))
		return
	}
	_, _ = w.Write(append(b, '\n'))
}

// writeError maps err onto its status: usage 400, upstream status for HTTP
// errors, 500 otherwise.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, internal.HTTPStatus(err), map[string]any{"error": err.Error()})
}

func readBody(r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed reading request body: %w", err)
	}
	return b, nil
}

func intFromQuery(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func boolFromQuery(r *http.Request, key string, def bool) bool {
	switch strings.TrimSpace(strings.ToLower(r.URL.Query().Get(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
