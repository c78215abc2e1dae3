package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/shopspring/decimal"

	"startwise/internal/core"
	"startwise/internal/log"
	"startwise/internal/theme"
)

// page is the data every full page template receives.
type page struct {
	Title     string
	Path      string
	Theme     core.Theme
	NextTheme core.Theme
	Year      int
	Data      any
}

var templateFuncs = template.FuncMap{
	"rand":     core.FormatRand,
	"negative": func(d decimal.Decimal) bool { return d.IsNegative() },
}

// parseTemplates builds one template set per page, each holding the layout,
// the partials and that page's "content" block. Partials are also returned
// on their own for htmx swaps.
func parseTemplates(fsys fs.FS) (map[string]*template.Template, *template.Template, error) {
	partials, err := template.New("partials").Funcs(templateFuncs).ParseFS(fsys, "templates/partials/*.html")
	if err != nil {
		return nil, nil, fmt.Errorf("parse partials: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, nil, fmt.Errorf("glob pages: %w", err)
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		name := path.Base(f)
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys,
			"templates/layout.html", "templates/partials/*.html", f)
		if err != nil {
			return nil, nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, partials, nil
}

// render writes a full page. The theme comes from the request's holder.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	ctx := r.Context()
	t, ok := s.pages[name]
	if !ok {
		log.FromContext(ctx).ErrorContext(ctx, "Template not loaded", "template", name, "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	current := theme.FromContext(ctx).Theme()
	p := page{
		Title:     title,
		Path:      r.URL.Path,
		Theme:     current,
		NextTheme: current.Toggle(),
		Year:      s.now().Year(),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Template execution failed", "error", err, "template", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderPartial writes a single named partial for an htmx swap.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	ctx := r.Context()
	if s.partials == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.partials.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Partial execution failed", "error", err, "template", name)
		InternalServerError("internal error").Write(w)
		return
	}
	b.BodyHTML(buf.String()).Write(w)
}
