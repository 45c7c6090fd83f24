// Package ingestion reads the source resume PDF into plain text.
package ingestion

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageSeparator precedes every page's text in the joined document,
// including the first page.
const PageSeparator = "\n"

// ExtractPages returns the plain text of every page of the PDF at path, in page order.
// Pages without content yield an empty string so the page count is preserved.
func ExtractPages(path string) (pages []string, err error) {
	// The PDF reader panics on malformed object references.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to parse PDF %s: %v", path, r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d of %s: %w", i, path, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}

// JoinPages concatenates page texts, each preceded by PageSeparator.
func JoinPages(pages []string) string {
	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(PageSeparator)
		sb.WriteString(page)
	}
	return sb.String()
}

// ExtractText extracts the whole document as one string along with its metadata.
func ExtractText(path string) (string, *Metadata, error) {
	pages, err := ExtractPages(path)
	if err != nil {
		return "", nil, err
	}

	text := JoinPages(pages)
	return text, NewMetadata(text, path, len(pages)), nil
}

// PDFExtractor extracts resume text from PDF files on disk.
type PDFExtractor struct{}

// ExtractText implements the pipeline's extractor contract.
func (PDFExtractor) ExtractText(path string) (string, *Metadata, error) {
	return ExtractText(path)
}
