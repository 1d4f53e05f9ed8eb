// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package viewer tracks which principle is active for one page view and
// derives the tab row and detail record the page renders.
//
// A State is owned by a single request (or a single export pass) and is
// not safe for concurrent use.
package viewer

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"solidview/internal/catalog"
)

// Tab is one selector control in the tab row.
type Tab struct {
	ID     string
	Label  string // ID in upper case, e.g. "SRP"
	Active bool
}

// View is everything the page renders for the current selection.
type View struct {
	Page   catalog.Page
	Tabs   []Tab
	Detail *catalog.Record // nil when the catalog is empty
}

// State holds the active principle id for one page view.
type State struct {
	catalog  *catalog.Catalog
	activeID string
}

// New creates a State with the first catalog entry active. For an empty
// catalog the active id is empty.
func New(c *catalog.Catalog) *State {
	s := &State{catalog: c}
	if first, ok := c.First(); ok {
		s.activeID = first.ID
	}
	return s
}

// Select makes id the active principle. Ids that are not in the catalog
// are ignored and Select returns false, leaving the current selection in
// place.
func (s *State) Select(id string) bool {
	if !s.catalog.Contains(id) {
		return false
	}
	s.activeID = id
	return true
}

// ActiveID returns the id of the active principle.
func (s *State) ActiveID() string {
	return s.activeID
}

// Active returns the active record, or false for an empty catalog.
func (s *State) Active() (catalog.Record, bool) {
	return s.catalog.FindByID(s.activeID)
}

// Tabs returns one tab per catalog entry in catalog order. Exactly one tab
// is active unless the catalog is empty.
func (s *State) Tabs() []Tab {
	records := s.catalog.All()
	tabs := make([]Tab, len(records))
	for i, r := range records {
		tabs[i] = Tab{
			ID:     r.ID,
			Label:  Label(r.ID),
			Active: r.ID == s.activeID,
		}
	}
	return tabs
}

// View builds the full view model for the current selection.
func (s *State) View() View {
	v := View{
		Page: s.catalog.Page(),
		Tabs: s.Tabs(),
	}
	if r, ok := s.Active(); ok {
		v.Detail = &r
	}
	return v
}

// Label returns the tab label for a principle id. A Caser keeps state
// between calls, so each call gets its own.
func Label(id string) string {
	return cases.Upper(language.Und).String(id)
}
