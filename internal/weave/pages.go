package weave

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// renderPages converts the configured auxiliary markdown pages (notes,
// colophon, build instructions) into HTML pages alongside the woven
// output. Returns the number of pages written.
func (e *Engine) renderPages(tmpl *template.Template, data pageData) (int, error) {
	var paths []string
	for _, pattern := range e.cfg.Pages {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return 0, fmt.Errorf("bad pages glob %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return 0, nil
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	count := 0
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return count, fmt.Errorf("reading page %s: %w", path, err)
		}

		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return count, fmt.Errorf("converting page %s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), ".md") + ".html"
		outPath := filepath.Join(e.cfg.OutputDir, name)

		pd := data
		pd.Title = pageTitle(string(src), path)
		pd.Content = template.HTML(buf.String())

		f, err := os.Create(outPath)
		if err != nil {
			return count, fmt.Errorf("creating page %s: %w", outPath, err)
		}
		if err := tmpl.Execute(f, pd); err != nil {
			f.Close()
			return count, fmt.Errorf("rendering page %s: %w", outPath, err)
		}
		if err := f.Close(); err != nil {
			return count, fmt.Errorf("closing page %s: %w", outPath, err)
		}
		count++
	}
	return count, nil
}

// pageTitle pulls the first # heading from markdown content, or falls
// back to the filename.
func pageTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(filepath.Base(path), ".md")
}
