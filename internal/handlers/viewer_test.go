package handlers

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"solidview/internal/cache"
	"solidview/internal/catalog"
)

// TestSelectionScenario walks through the srp → ocp scenario over HTTP.
func TestSelectionScenario(t *testing.T) {
	cat := scenarioCatalog(t)
	env := newTestEnv(t, cat)
	srp, _ := cat.FindByID("srp")
	ocp, _ := cat.FindByID("ocp")

	t.Run("initial render shows srp", func(t *testing.T) {
		rr := env.do(t, "/", false)
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		p := parsePage(t, rr.Body.String())

		if got := p.activeLabels(); !reflect.DeepEqual(got, []string{"SRP"}) {
			t.Errorf("active tabs: got %v, want [SRP]", got)
		}
		if p.title != srp.Title || p.before != srp.Before || p.after != srp.After {
			t.Errorf("detail does not match srp:\n%+v", p)
		}
	})

	t.Run("selecting ocp", func(t *testing.T) {
		rr := env.do(t, "/?p=ocp", false)
		p := parsePage(t, rr.Body.String())

		if got := p.activeLabels(); !reflect.DeepEqual(got, []string{"OCP"}) {
			t.Errorf("active tabs: got %v, want [OCP]", got)
		}
		if p.tabs[0].active {
			t.Error("SRP tab should be inactive")
		}
		if p.title != ocp.Title {
			t.Errorf("title: got %q, want %q", p.title, ocp.Title)
		}
		if p.before != ocp.Before {
			t.Errorf("before:\ngot  %q\nwant %q", p.before, ocp.Before)
		}
		if p.after != ocp.After {
			t.Errorf("after:\ngot  %q\nwant %q", p.after, ocp.After)
		}
	})

	t.Run("reload without selection resets to srp", func(t *testing.T) {
		p := parsePage(t, env.do(t, "/", false).Body.String())
		if got := p.activeLabels(); !reflect.DeepEqual(got, []string{"SRP"}) {
			t.Errorf("active tabs: got %v, want [SRP]", got)
		}
	})
}

// TestEveryPrincipleVerbatim checks every embedded principle renders its
// title and samples byte-for-byte.
func TestEveryPrincipleVerbatim(t *testing.T) {
	cat := catalog.Default()
	env := newTestEnv(t, cat)

	for _, rec := range cat.All() {
		t.Run(rec.ID, func(t *testing.T) {
			p := parsePage(t, env.do(t, SelectHref(rec.ID), false).Body.String())

			if len(p.tabs) != cat.Len() {
				t.Fatalf("tabs: got %d, want %d", len(p.tabs), cat.Len())
			}
			for i, id := range cat.IDs() {
				if p.tabs[i].label != strings.ToUpper(id) {
					t.Errorf("tab %d: got %q, want %q", i, p.tabs[i].label, strings.ToUpper(id))
				}
				if p.tabs[i].href != SelectHref(id) {
					t.Errorf("tab %d href: got %q", i, p.tabs[i].href)
				}
			}
			if got := p.activeLabels(); !reflect.DeepEqual(got, []string{strings.ToUpper(rec.ID)}) {
				t.Errorf("active tabs: got %v", got)
			}
			if p.title != rec.Title {
				t.Errorf("title: got %q, want %q", p.title, rec.Title)
			}
			if p.before != rec.Before {
				t.Errorf("before differs from the record")
			}
			if p.after != rec.After {
				t.Errorf("after differs from the record")
			}
		})
	}
}

func TestUnknownSelectionIsIgnored(t *testing.T) {
	env := newTestEnv(t, scenarioCatalog(t))

	for _, target := range []string{"/?p=dip", "/?p=SRP", "/?p=%3Cscript%3E", "/?p="} {
		t.Run(target, func(t *testing.T) {
			rr := env.do(t, target, false)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rr.Code)
			}
			p := parsePage(t, rr.Body.String())
			if got := p.activeLabels(); !reflect.DeepEqual(got, []string{"SRP"}) {
				t.Errorf("active tabs: got %v, want [SRP]", got)
			}
		})
	}

	// The empty parameter is treated as no selection at all.
	const want = `
# HELP solidview_unknown_selections_total Selections of ids that are not in the catalog (ignored).
# TYPE solidview_unknown_selections_total counter
solidview_unknown_selections_total 3
`
	if err := testutil.GatherAndCompare(env.Metrics.Registry(), strings.NewReader(want), "solidview_unknown_selections_total"); err != nil {
		t.Error(err)
	}
}

func TestReselectIsIdempotent(t *testing.T) {
	env := newTestEnv(t, scenarioCatalog(t))

	first := env.do(t, "/?p=ocp", false).Body.String()
	second := env.do(t, "/?p=ocp", false).Body.String()
	if first != second {
		t.Error("selecting the active principle again changed the page")
	}
}

func TestHTMXPartial(t *testing.T) {
	env := newTestEnv(t, scenarioCatalog(t))

	rr := env.do(t, "/?p=ocp", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") || strings.Contains(body, "<h1>") {
		t.Error("HTMX response should only contain the viewer fragment")
	}
	p := parsePage(t, body)
	if got := p.activeLabels(); !reflect.DeepEqual(got, []string{"OCP"}) {
		t.Errorf("active tabs: got %v, want [OCP]", got)
	}
	if got := rr.Header().Get("Vary"); got != "HX-Request" {
		t.Errorf("Vary: got %q", got)
	}
}

func TestPageCache(t *testing.T) {
	env := newTestEnv(t, scenarioCatalog(t))

	env.do(t, "/?p=ocp", false)
	if _, ok := env.Cache.Get(context.Background(), cache.PageKey(1, "ocp", false)); !ok {
		t.Fatal("full page should be cached under catalog version 1")
	}

	env.do(t, "/?p=ocp", true)
	if _, ok := env.Cache.Get(context.Background(), cache.PageKey(1, "ocp", true)); !ok {
		t.Fatal("partial should be cached separately")
	}

	// A new catalog version must not serve pages rendered from the old one.
	updated, err := catalog.New(catalog.Page{Heading: "Updated"},
		catalog.Record{ID: "ocp", Title: "Reworded OCP", Before: "b", After: "a"},
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	env.Source.Replace(updated)

	p := parsePage(t, env.do(t, "/?p=ocp", false).Body.String())
	if p.title != "Reworded OCP" {
		t.Errorf("title after reload: got %q, want %q", p.title, "Reworded OCP")
	}
}

func TestPrinciplePermalink(t *testing.T) {
	env := newTestEnv(t, scenarioCatalog(t))

	t.Run("known id", func(t *testing.T) {
		rr := env.do(t, "/principles/ocp", false)
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		p := parsePage(t, rr.Body.String())
		if p.title != "Open/Closed Principle (OCP)" {
			t.Errorf("title: got %q", p.title)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		rr := env.do(t, "/principles/xyz", false)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status: got %d, want 404", rr.Code)
		}
		p := parsePage(t, rr.Body.String())
		if len(p.tabs) != 2 {
			t.Errorf("not found page should still show %d tabs, got %d", 2, len(p.tabs))
		}
		if p.detail {
			t.Error("not found page should not show a principle")
		}
	})
}

func TestEmptyCatalog(t *testing.T) {
	empty, err := catalog.New(catalog.Page{Heading: "SOLID"})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	env := newTestEnv(t, empty)

	rr := env.do(t, "/?p=srp", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	p := parsePage(t, rr.Body.String())
	if len(p.tabs) != 0 || p.detail {
		t.Errorf("empty catalog should render no tabs and no detail, got %+v", p)
	}
}
