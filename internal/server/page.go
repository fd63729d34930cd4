package server

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/render/sink"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>treescope · {{.ID}}</title>
  <style>
    body { margin: 0; background: #fafafa; font-family: monospace; }
    header { padding: 8px 16px; border-bottom: 1px solid #ddd; color: #555; }
    main { display: flex; justify-content: center; padding: 16px; }
    main svg { background: #fff; border: 1px solid #ddd; max-width: 100%; height: auto; }
  </style>
</head>
<body>
  <header>tree {{.ID}} · scroll to zoom · drag to pan</header>
  <main>{{.SVG}}</main>
</body>
</html>
`))

type pageData struct {
	ID  string
	SVG template.HTML
}

// handlePage serves an HTML page with the tree's interactive SVG inlined,
// so the embedded gesture script runs in the browser.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateTargetID(id); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	surface, err := s.surfaceFor(r.Context(), id)
	if err != nil {
		s.mu.Unlock()
		writeError(w, err)
		return
	}
	svg := sink.RenderSurfaceSVG(surface, s.cfg)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = pageTmpl.Execute(w, pageData{ID: id, SVG: template.HTML(svg)})
}
