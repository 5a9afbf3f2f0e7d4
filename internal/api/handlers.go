package api

import (
	"io"
	"net/http"

	"github.com/dgallion1/figweave/internal/figma"
	"github.com/dgallion1/figweave/internal/markup"
	"github.com/dgallion1/figweave/internal/render"
)

// handlePage fetches the document, renders the marked subtrees, and serves
// the page. The document is fetched fresh per request; a fetch failure is a
// whole-page failure and is not papered over.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := s.figma.File(ctx, s.fileKey)
	if err != nil {
		s.log.Error("document fetch failed", "file_key", s.fileKey, "error", err)
		http.Error(w, "upstream document fetch failed", http.StatusBadGateway)
		return
	}

	roots := figma.UIRoots(doc)

	seen := make(map[string]bool)
	var vectorIDs []string
	for _, root := range roots {
		for _, id := range figma.VectorIDs(root) {
			if !seen[id] {
				seen[id] = true
				vectorIDs = append(vectorIDs, id)
			}
		}
	}
	graphics := s.figma.GraphicsLookup(ctx, s.fileKey, vectorIDs)

	rend := &render.Renderer{
		Graphics:     graphics,
		PollInterval: s.cfg.BindingPollInterval,
		Log:          s.log,
	}
	page := rend.Page(s.fileName, roots)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, markup.Document(page))
}

// handleBindingValue resolves one binding and returns the value as plain
// text. The contract is "always a displayable string": missing parameters
// and resolver failures all map to "?" with status 200.
func (s *Server) handleBindingValue(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("src")
	path := r.URL.Query().Get("path")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if src == "" || path == "" {
		io.WriteString(w, "?")
		return
	}

	val, err := s.resolver.Resolve(r.Context(), src, path)
	if err != nil {
		s.log.Warn("binding resolve failed", "src", src, "path", path, "error", err)
		io.WriteString(w, "?")
		return
	}
	io.WriteString(w, val)
}
