// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the name of the manifest at the root of a content tree.
const ManifestFile = "catalog.yaml"

//go:embed content
var contentFS embed.FS

// manifest mirrors catalog.yaml.
type manifest struct {
	Heading    string          `yaml:"heading"`
	Footer     string          `yaml:"footer"`
	Principles []manifestEntry `yaml:"principles"`
}

// manifestEntry references the sample files for one principle. Paths are
// relative to the content root.
type manifestEntry struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

// ContentFS returns the embedded content tree rooted at the manifest.
func ContentFS() fs.FS {
	sub, err := fs.Sub(contentFS, "content")
	if err != nil {
		// fs.Sub only fails for an invalid path literal.
		panic(err)
	}
	return sub
}

// Load reads catalog.yaml and every sample it references from fsys.
// Sample files are read verbatim, except that a single trailing newline
// (the usual end-of-file newline) is dropped.
func Load(fsys fs.FS) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	records := make([]Record, 0, len(m.Principles))
	for _, e := range m.Principles {
		before, err := readSample(fsys, e.Before)
		if err != nil {
			return nil, fmt.Errorf("principle %q before: %w", e.ID, err)
		}
		after, err := readSample(fsys, e.After)
		if err != nil {
			return nil, fmt.Errorf("principle %q after: %w", e.ID, err)
		}
		records = append(records, Record{
			ID:     e.ID,
			Title:  e.Title,
			Before: before,
			After:  after,
		})
	}

	return New(Page{
		Heading: m.Heading,
		Footer:  strings.TrimRight(m.Footer, "\n"),
	}, records...)
}

// readSample reads one sample file. An empty path yields empty text.
func readSample(fsys fs.FS, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled into the binary. The embedded content
// is validated by tests, so a load failure here is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(ContentFS())
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
