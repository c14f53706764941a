// internal/api/handler/web/handler.go
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
)

//go:embed templates/*
var templateFS embed.FS

// PageData is passed to the chat page template.
type PageData struct {
	Title      string
	ChatPath   string
	StreamPath string
}

// Handler serves the single-page chat UI.
type Handler struct {
	page []byte
}

// NewHandler renders the chat page once. Templates are loaded from
// templatesDir when set, otherwise from the embedded copy.
func NewHandler(templatesDir string, data PageData) (*Handler, error) {
	var (
		tmpl *template.Template
		err  error
	)

	if templatesDir != "" {
		tmpl, err = template.ParseFiles(filepath.Join(templatesDir, "index.html"))
		if err != nil {
			return nil, fmt.Errorf("parsing template index.html: %w", err)
		}
	} else {
		subFS, err := fs.Sub(templateFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("accessing embedded templates: %w", err)
		}
		tmpl, err = template.ParseFS(subFS, "index.html")
		if err != nil {
			return nil, fmt.Errorf("parsing embedded template index.html: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering index.html: %w", err)
	}
	return &Handler{page: buf.Bytes()}, nil
}

// Index serves the chat page at "/" and 404 for anything else.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(h.page)
}
