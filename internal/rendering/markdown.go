// Package rendering converts Markdown artifacts to HTML and inspects the result.
package rendering

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown text to HTML.
type Renderer interface {
	Render(markdown string) (string, error)
}

// Markdown renders CommonMark without extensions. Raw HTML in the source,
// such as the <response> wrapper models add, is passed through as-is.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a CommonMark renderer.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts markdown to an HTML fragment. Output depends only on the input.
func (m *Markdown) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(markdown), &buf); err != nil {
		return "", &RenderError{Message: "failed to convert markdown", Cause: err}
	}
	return buf.String(), nil
}
