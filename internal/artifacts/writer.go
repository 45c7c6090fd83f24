// Package artifacts persists pipeline outputs as Markdown/HTML file pairs.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-converter/internal/rendering"
)

// Artifact names, in the order a run produces them.
const (
	ResumeRaw         = "resume_raw"
	ResumePrompt      = "resume_prompt"
	Resume            = "resume"
	CoverLetterPrompt = "cover_letter_prompt"
	CoverLetter       = "cover_letter"
)

// Names lists every artifact a successful run writes.
var Names = []string{ResumeRaw, ResumePrompt, Resume, CoverLetterPrompt, CoverLetter}

// File extensions of the two files written per artifact.
const (
	MarkdownExt = ".md"
	HTMLExt     = ".html"
)

// WriteError reports a failure persisting one artifact file.
type WriteError struct {
	Name  string
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write artifact %s to %s: %v", e.Name, e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// FileWriter writes <name>.md and <name>.html into a directory.
// The directory must already exist; existing files are overwritten.
type FileWriter struct {
	dir      string
	renderer rendering.Renderer
}

// NewFileWriter creates a writer for dir. A nil renderer selects CommonMark.
func NewFileWriter(dir string, renderer rendering.Renderer) *FileWriter {
	if renderer == nil {
		renderer = rendering.NewMarkdown()
	}
	return &FileWriter{dir: dir, renderer: renderer}
}

// Write stores text verbatim as <name>.md, then its HTML rendering as <name>.html.
func (w *FileWriter) Write(name, text string) error {
	mdPath := w.MarkdownPath(name)
	if err := os.WriteFile(mdPath, []byte(text), 0644); err != nil {
		return &WriteError{Name: name, Path: mdPath, Cause: err}
	}

	html, err := w.renderer.Render(text)
	if err != nil {
		return fmt.Errorf("failed to render artifact %s: %w", name, err)
	}

	htmlPath := w.HTMLPath(name)
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return &WriteError{Name: name, Path: htmlPath, Cause: err}
	}

	return nil
}

// MarkdownPath returns the path of the artifact's Markdown file.
func (w *FileWriter) MarkdownPath(name string) string {
	return filepath.Join(w.dir, name+MarkdownExt)
}

// HTMLPath returns the path of the artifact's HTML file.
func (w *FileWriter) HTMLPath(name string) string {
	return filepath.Join(w.dir, name+HTMLExt)
}
