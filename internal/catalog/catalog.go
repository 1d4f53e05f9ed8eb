// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the ordered, read-only list of SOLID principle
// records shown by the viewer. A Catalog is built once (from the embedded
// content or an on-disk copy) and never mutated afterwards; reloading
// content produces a new Catalog.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyID is returned when a record has no id.
	ErrEmptyID = errors.New("catalog: empty principle id")

	// ErrDuplicateID is returned when two records share an id.
	ErrDuplicateID = errors.New("catalog: duplicate principle id")
)

// Record is a single principle: a title plus a violating ("before") and a
// compliant ("after") code sample. Before and After are opaque text and are
// never reformatted.
type Record struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Page holds the page chrome that surrounds the viewer.
type Page struct {
	Heading string // Top-level <h1>
	Footer  string // Markdown source for the footer block
}

// Catalog is an ordered sequence of records with unique ids. Order defines
// the order of the selector tabs.
type Catalog struct {
	page    Page
	records []Record
	index   map[string]int
}

// New builds a Catalog from records in display order. Ids must be non-empty
// and unique.
func New(page Page, records ...Record) (*Catalog, error) {
	c := &Catalog{
		page:    page,
		records: make([]Record, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}

	for _, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("record %q: %w", r.Title, ErrEmptyID)
		}
		if _, exists := c.index[r.ID]; exists {
			return nil, fmt.Errorf("record %q: %w", r.ID, ErrDuplicateID)
		}
		c.index[r.ID] = len(c.records)
		c.records = append(c.records, r)
	}

	return c, nil
}

// Page returns the page chrome.
func (c *Catalog) Page() Page {
	return c.page
}

// All returns every record in display order. The slice is a copy.
func (c *Catalog) All() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// FindByID returns the record with the given id. The boolean is false when
// no record matches.
func (c *Catalog) FindByID(id string) (Record, bool) {
	i, ok := c.index[id]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Contains reports whether id names a record in the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// First returns the first record, or false for an empty catalog.
func (c *Catalog) First() (Record, bool) {
	if len(c.records) == 0 {
		return Record{}, false
	}
	return c.records[0], true
}

// IDs returns the record ids in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.records))
	for i, r := range c.records {
		ids[i] = r.ID
	}
	return ids
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}
