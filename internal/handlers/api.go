package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"solidview/internal/catalog"
	"solidview/internal/viewer"
)

// API serves the catalog as JSON.
type API struct {
	source *catalog.Source
}

// NewAPI creates the JSON API handler group.
func NewAPI(source *catalog.Source) *API {
	return &API{source: source}
}

// principleSummary is one entry of the list response.
type principleSummary struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
}

// principleDetail is the single-principle response. Before and After are
// the sample text exactly as stored.
type principleDetail struct {
	principleSummary
	Before string `json:"before"`
	After  string `json:"after"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// List returns every principle in catalog order.
func (a *API) List(w http.ResponseWriter, r *http.Request) {
	cat, _ := a.source.Current()
	records := cat.All()

	out := make([]principleSummary, len(records))
	for i, rec := range records {
		out[i] = summarize(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one principle including its code samples.
func (a *API) Get(w http.ResponseWriter, r *http.Request) {
	cat, _ := a.source.Current()

	rec, ok := cat.FindByID(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "principle not found"})
		return
	}

	writeJSON(w, http.StatusOK, principleDetail{
		principleSummary: summarize(rec),
		Before:           rec.Before,
		After:            rec.After,
	})
}

func summarize(rec catalog.Record) principleSummary {
	return principleSummary{
		ID:    rec.ID,
		Label: viewer.Label(rec.ID),
		Title: rec.Title,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
