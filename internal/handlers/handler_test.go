// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers are mounted on a real chi router so URL parameters resolve the
// same way they do in production.
package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/html"

	"solidview/internal/cache"
	"solidview/internal/catalog"
	"solidview/internal/metrics"
	"solidview/internal/render"
)

// testEnv bundles the handler dependencies for a test.
type testEnv struct {
	Source  *catalog.Source
	Cache   *cache.MemoryCache
	Metrics *metrics.Metrics
	Viewer  *Viewer
	API     *API
	Router  chi.Router
}

func newTestEnv(t *testing.T, cat *catalog.Catalog) *testEnv {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	env := &testEnv{
		Source:  catalog.NewSource(cat),
		Cache:   cache.NewMemoryCache(time.Minute),
		Metrics: metrics.New(),
	}
	env.Viewer = NewViewer(env.Source, renderer, env.Cache, env.Metrics)
	env.API = NewAPI(env.Source)

	r := chi.NewRouter()
	r.Get("/", env.Viewer.Index)
	r.Get("/principles/{id}", env.Viewer.Principle)
	r.Get("/api/principles", env.API.List)
	r.Get("/api/principles/{id}", env.API.Get)
	env.Router = r

	return env
}

// do performs a request against the test router.
func (env *testEnv) do(t *testing.T, target string, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	return rr
}

// scenarioCatalog is the two-entry catalog from the selection scenario.
func scenarioCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.Page{Heading: "SOLID Principles in Java", Footer: "please **like**"},
		catalog.Record{
			ID:     "srp",
			Title:  "Single Responsibility Principle (SRP)",
			Before: "class User {\n    void save() {}\n    void email() {}\n}",
			After:  "class User {}\n\nclass UserRepository {\n\tvoid save(User u) {}\n}",
		},
		catalog.Record{
			ID:     "ocp",
			Title:  "Open/Closed Principle (OCP)",
			Before: "if (shape instanceof Circle) {\n  ...\n}",
			After:  "interface Shape {\n    double area();\n}\n",
		},
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

// page is a parsed viewer page.
type page struct {
	tabs   []tab
	title  string
	before string
	after  string
	detail bool
}

type tab struct {
	label  string
	href   string
	active bool
}

func parsePage(t *testing.T, body string) page {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}

	var p page
	var pres []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			classes := strings.Fields(attr(n, "class"))
			switch {
			case n.Data == "a" && contains(classes, "tab-button"):
				p.tabs = append(p.tabs, tab{
					label:  textOf(n),
					href:   attr(n, "href"),
					active: contains(classes, "active"),
				})
			case n.Data == "div" && contains(classes, "detail"):
				p.detail = true
			case n.Data == "h2":
				p.title = textOf(n)
			case n.Data == "pre":
				pres = append(pres, textOf(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(pres) == 2 {
		p.before, p.after = pres[0], pres[1]
	}
	return p
}

func (p page) activeLabels() []string {
	var out []string
	for _, tb := range p.tabs {
		if tb.active {
			out = append(out, tb.label)
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
