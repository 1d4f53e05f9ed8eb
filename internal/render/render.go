// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the principle viewer.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"solidview/internal/viewer"
)

//go:embed templates/*.html
var templateFS embed.FS

// HTMXScript is the HTMX build loaded by pages served over HTTP.
const HTMXScript = "https://unpkg.com/htmx.org@1.9.12"

// PageData holds all data passed to page templates.
type PageData struct {
	Title        string        // Page title for <title> tag
	Tabs         []TabLink     // Selector row in catalog order
	View         viewer.View   // Current selection
	Footer       template.HTML // Pre-rendered footer (trusted)
	StaticPrefix string        // URL prefix for stylesheets, e.g. "/static/"
	HTMX         bool          // Load HTMX and emit hx-* attributes on tabs
	Message      string        // Body text for the not_found page
}

// TabLink is a selector tab plus the URL that selects it.
type TabLink struct {
	viewer.Tab
	Href string
}

// Links pairs each tab with the URL produced by href.
func Links(tabs []viewer.Tab, href func(id string) string) []TabLink {
	links := make([]TabLink, len(tabs))
	for i, tab := range tabs {
		links[i] = TabLink{Tab: tab, Href: href(tab.ID)}
	}
	return links
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing every page template from the embedded
// filesystem, each paired with the base layout.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			// tabClass returns the CSS classes for a selector tab.
			"tabClass": func(active bool) string {
				if active {
					return "tab-button active"
				}
				return "tab-button"
			},
			"htmxScript": func() string {
				return HTMXScript
			},
		},
	}

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}

		tmplName := strings.TrimSuffix(name, path.Ext(name))
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Render writes a page to w. When partial is true only the "content"
// block is written, which is what HTMX swaps into the page.
func (rn *Renderer) Render(w io.Writer, name string, partial bool, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	execName := "base.html"
	if partial {
		execName = "content"
	}
	return tmpl.ExecuteTemplate(w, execName, data)
}

// Page renders a full page or an HTMX partial, depending on the request
// headers, and writes it with the given status.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	var buf strings.Builder
	if err := rn.Render(&buf, name, IsHTMX(r), data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", "HX-Request")
	w.WriteHeader(status)
	io.WriteString(w, buf.String())
}

// Has reports whether a page template with the given name exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
