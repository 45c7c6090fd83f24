// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-converter/internal/pipeline"
	"github.com/jonathan/resume-converter/internal/rendering"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxLinesToShow is the number of non-blank lines previewed per artifact
	maxLinesToShow = 5
	// maxHeadingsToShow is the number of outline entries printed per document
	maxHeadingsToShow = 12
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintArtifact outputs the size of an artifact and its first non-blank lines.
func (p *Printer) PrintArtifact(name, text string) {
	lines := strings.Split(text, "\n")

	var preview []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		preview = append(preview, line)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Lines: %d  Characters: %d\n", len(lines), utf8.RuneCountInString(text)))
	if len(preview) == 0 {
		sb.WriteString("\n(empty)")
	} else {
		sb.WriteString("\n")
		count := min(len(preview), maxLinesToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(preview[i])
			sb.WriteString("\n")
		}
		if len(preview) > maxLinesToShow {
			sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(preview)-maxLinesToShow))
		}
	}

	p.printBox(strings.ToUpper(name), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutline outputs the heading structure of a rendered document.
func (p *Printer) PrintOutline(name string, headings []rendering.Heading) {
	if len(headings) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(headings), maxHeadingsToShow)
	for i := 0; i < count; i++ {
		h := headings[i]
		indent := strings.Repeat("  ", max(h.Level-1, 0))
		sb.WriteString(fmt.Sprintf("%s• %s\n", indent, h.Text))
	}
	if len(headings) > maxHeadingsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(headings)-maxHeadingsToShow))
	}

	p.printBox("OUTLINE: "+strings.ToUpper(name), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the run ID, source details and artifact sizes of a completed run.
func (p *Printer) PrintRunSummary(result *pipeline.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", result.RunID))
	if result.Metadata != nil {
		sb.WriteString(fmt.Sprintf("Source:   %s\n", result.Metadata.Source))
		sb.WriteString(fmt.Sprintf("Pages:    %d\n", result.Metadata.Pages))
		sb.WriteString(fmt.Sprintf("SHA-256:  %s\n", result.Metadata.Hash))
	}
	sb.WriteString("\n")

	sizes := []struct {
		label string
		text  string
	}{
		{"Extracted text", result.RawText},
		{"Resume prompt", result.ResumePrompt},
		{"Resume", result.Resume},
		{"Cover letter prompt", result.CoverLetterPrompt},
		{"Cover letter", result.CoverLetter},
	}
	for _, s := range sizes {
		sb.WriteString(fmt.Sprintf("%-20s %6d chars\n", s.label+":", utf8.RuneCountInString(s.text)))
	}

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
