package server

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed static
var staticFiles embed.FS

const indexFile = "index.html"

var mimeTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".svg":  "image/svg+xml",
	".png":  "image/png",
}

// staticHandler serves the embedded UI. Unknown paths fall back to the
// index so client-side routes load the app.
type staticHandler struct {
	assets fs.FS
}

func newStaticHandler() *staticHandler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return &staticHandler{assets: sub}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, "/")
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			writeJSON(w, http.StatusForbidden, map[string]any{"error": "Forbidden"})
			return
		}
	}
	rel = path.Clean(rel)
	if rel == "." || rel == "" {
		rel = indexFile
	}

	data, err := fs.ReadFile(h.assets, rel)
	if err != nil && rel != indexFile {
		rel = indexFile
		data, err = fs.ReadFile(h.assets, rel)
	}
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
		return
	}

	contentType, ok := mimeTypes[path.Ext(rel)]
	if !ok {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(data)
	}
}
