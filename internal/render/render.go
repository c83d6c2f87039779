// Package render produces HTML pages from a shared layout plus a named
// page template.
package render

import (
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/sessions"
)

// Data is what every template receives.
type Data struct {
	Title   string
	User    sessions.Current // zero value when anonymous
	Error   string           // one-shot error flash
	Success string           // one-shot success flash
	Content any              // page-specific payload
}

// Renderer renders page templates from a directory containing
// layout.html plus one file per page.
type Renderer struct {
	dir string
}

// New creates a Renderer reading templates from dir.
func New(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// HTML renders the named page inside the layout.
func (rr *Renderer) HTML(w http.ResponseWriter, status int, page string, data Data) {
	files := []string{
		filepath.Join(rr.dir, "layout.html"),
		filepath.Join(rr.dir, page),
	}

	t, err := template.ParseFiles(files...)
	if err != nil {
		logger.Log.Errorw("template parse failed", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		logger.Log.Errorw("template execute failed", "page", page, "error", err)
	}
}
