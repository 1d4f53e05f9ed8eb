package render

import (
	"fmt"

	"solidview/internal/markdown"
	"solidview/internal/viewer"
)

// PageOptions controls how a viewer page links to itself and its assets.
type PageOptions struct {
	Href         func(id string) string // URL that selects a principle
	StaticPrefix string
	HTMX         bool
}

// BuildPage assembles the PageData for the current selection of s. The
// footer Markdown from the catalog manifest is rendered here.
func BuildPage(s *viewer.State, opts PageOptions) (*PageData, error) {
	v := s.View()

	footer, err := markdown.Trusted(v.Page.Footer)
	if err != nil {
		return nil, fmt.Errorf("render footer: %w", err)
	}

	title := v.Page.Heading
	if v.Detail != nil {
		title = v.Detail.Title + " · " + v.Page.Heading
	}

	return &PageData{
		Title:        title,
		Tabs:         Links(v.Tabs, opts.Href),
		View:         v,
		Footer:       footer,
		StaticPrefix: opts.StaticPrefix,
		HTMX:         opts.HTMX,
	}, nil
}
