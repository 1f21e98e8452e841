package handlers

import (
	"net/http"
	"path/filepath"
)

// PageHandler serves the browser client from a directory of static files.
// Access control for individual pages is applied by the router.
type PageHandler struct {
	dir   string
	files http.Handler
}

// NewPageHandler creates a PageHandler rooted at dir
func NewPageHandler(dir string) *PageHandler {
	return &PageHandler{
		dir:   dir,
		files: http.FileServer(http.Dir(dir)),
	}
}

// File returns a handler that always serves the named page
func (h *PageHandler) File(name string) http.HandlerFunc {
	path := filepath.Join(h.dir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

// Assets serves any other file below the directory
func (h *PageHandler) Assets(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
