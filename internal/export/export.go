// Package export writes the viewer as a static site: one page per
// principle plus an index that shows the first one. Tabs link between the
// generated files, so the site works from any file server without the
// HTMX script.
package export

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"solidview/internal/catalog"
	"solidview/internal/render"
	"solidview/internal/viewer"
)

// IndexFile is the page that shows the first principle.
const IndexFile = "index.html"

// staticDir is where assets are copied, relative to the output directory.
const staticDir = "static"

// PageFile returns the file name of the page for principle id.
func PageFile(id string) string {
	return id + ".html"
}

// Result lists what an export wrote, relative to the output directory.
type Result struct {
	Pages  []string
	Assets []string
}

// Site renders every page of c into dir and copies the assets from
// static. dir is created if needed; existing files are overwritten.
func Site(c *catalog.Catalog, renderer *render.Renderer, static fs.FS, dir string) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	res := &Result{}

	// The index shows the initial selection.
	if err := writePage(renderer, viewer.New(c), filepath.Join(dir, IndexFile)); err != nil {
		return nil, err
	}
	res.Pages = append(res.Pages, IndexFile)

	for _, id := range c.IDs() {
		s := viewer.New(c)
		s.Select(id)

		name := PageFile(id)
		if err := writePage(renderer, s, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		res.Pages = append(res.Pages, name)
	}

	if static != nil {
		assets, err := copyAssets(static, filepath.Join(dir, staticDir))
		if err != nil {
			return nil, err
		}
		res.Assets = assets
	}

	slog.Info("static site exported", "dir", dir, "pages", len(res.Pages), "assets", len(res.Assets))
	return res, nil
}

func writePage(renderer *render.Renderer, s *viewer.State, path string) error {
	data, err := render.BuildPage(s, render.PageOptions{
		Href:         PageFile,
		StaticPrefix: staticDir + "/",
	})
	if err != nil {
		return fmt.Errorf("build page %s: %w", filepath.Base(path), err)
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, "viewer", false, data); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// copyAssets copies every regular file in static into dir.
func copyAssets(static fs.FS, dir string) ([]string, error) {
	var copied []string
	err := fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		copied = append(copied, staticDir+"/"+path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("copy assets: %w", err)
	}
	return copied, nil
}
