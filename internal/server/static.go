package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// SPAHandler serves the built frontend and falls back to index.html for
// paths that are not files, so client-side routes load the app.
type SPAHandler struct {
	root  string
	files http.Handler
}

// NewSPAHandler serves files under root.
func NewSPAHandler(root string) *SPAHandler {
	return &SPAHandler{
		root:  root,
		files: http.FileServer(http.Dir(root)),
	}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)

	info, err := os.Stat(filepath.Join(h.root, filepath.FromSlash(name)))
	if err == nil && !info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
}
