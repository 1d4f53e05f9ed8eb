// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for the principle viewer
// page and its JSON API.
package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"solidview/internal/cache"
	"solidview/internal/catalog"
	"solidview/internal/metrics"
	"solidview/internal/render"
	"solidview/internal/viewer"
)

// SelectParam is the query parameter that selects a principle.
const SelectParam = "p"

// StaticPrefix is where the router mounts the embedded stylesheets.
const StaticPrefix = "/static/"

// Viewer serves the principle viewer page. Each request builds its own
// selection state from the catalog currently held by the source, so there
// is no shared mutable selection. Rendered pages are kept in the page
// cache, keyed by catalog version and selection.
type Viewer struct {
	source   *catalog.Source
	renderer *render.Renderer
	cache    cache.Store
	metrics  *metrics.Metrics
}

// NewViewer creates the viewer handler group.
func NewViewer(source *catalog.Source, renderer *render.Renderer, store cache.Store, m *metrics.Metrics) *Viewer {
	return &Viewer{
		source:   source,
		renderer: renderer,
		cache:    store,
		metrics:  m,
	}
}

// SelectHref returns the page URL that selects principle id.
func SelectHref(id string) string {
	return "/?" + url.Values{SelectParam: {id}}.Encode()
}

// Index renders the viewer. The ?p= query parameter selects a principle
// for this page view; a missing or unknown id leaves the first entry
// active.
func (v *Viewer) Index(w http.ResponseWriter, r *http.Request) {
	cat, version := v.source.Current()
	state := viewer.New(cat)

	if id := r.URL.Query().Get(SelectParam); id != "" && !state.Select(id) {
		v.unknown(id)
	}

	v.serve(w, r, state, version)
}

// Principle renders the viewer with the principle from the URL path
// selected. Unlike Index, an unknown id is a 404, since a permalink that
// names no principle is a broken link.
func (v *Viewer) Principle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cat, version := v.source.Current()
	state := viewer.New(cat)

	if !state.Select(id) {
		v.unknown(id)
		v.notFound(w, r, state)
		return
	}

	v.serve(w, r, state, version)
}

// unknown records a selection that named no principle. Ids are only
// logged when they are shaped like catalog ids.
func (v *Viewer) unknown(id string) {
	v.metrics.UnknownSelected()
	if validateID(id) {
		slog.Debug("ignoring unknown principle", "id", id)
		return
	}
	slog.Debug("ignoring malformed principle id", "len", len(id))
}

// serve writes the page for state, from cache when possible.
func (v *Viewer) serve(w http.ResponseWriter, r *http.Request, state *viewer.State, version uint64) {
	ctx := r.Context()
	partial := render.IsHTMX(r)
	key := cache.PageKey(version, state.ActiveID(), partial)

	if id := state.ActiveID(); id != "" {
		v.metrics.Selected(id)
	}

	if cached, ok := v.cache.Get(ctx, key); ok {
		v.metrics.CacheLookup(true)
		writeHTML(w, http.StatusOK, cached)
		return
	}
	v.metrics.CacheLookup(false)

	data, err := render.BuildPage(state, v.pageOptions())
	if err != nil {
		slog.Error("build page failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := v.renderer.Render(&buf, "viewer", partial, data); err != nil {
		slog.Error("render viewer failed", "error", err, "active", state.ActiveID())
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	v.cache.Set(ctx, key, buf.Bytes())
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// notFound renders the not_found page with the tab row so the visitor can
// pick a valid principle.
func (v *Viewer) notFound(w http.ResponseWriter, r *http.Request, state *viewer.State) {
	data, err := render.BuildPage(state, v.pageOptions())
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	data.Title = "Not found · " + data.View.Page.Heading
	data.Message = "No principle with that name. Pick one above."
	v.renderer.Page(w, r, http.StatusNotFound, "not_found", data)
}

func (v *Viewer) pageOptions() render.PageOptions {
	return render.PageOptions{
		Href:         SelectHref,
		StaticPrefix: StaticPrefix,
		HTMX:         true,
	}
}

// writeHTML writes a rendered page. Pages differ by HX-Request, so shared
// caches must key on it.
func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", "HX-Request")
	w.WriteHeader(status)
	w.Write(body)
}
