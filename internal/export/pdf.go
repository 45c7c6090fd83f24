// Package export prints rendered HTML artifacts to PDF with a headless browser.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds a single HTML to PDF conversion.
const DefaultTimeout = 30 * time.Second

// PDFExt is the extension of exported files
const PDFExt = ".pdf"

// PDFPath returns the PDF path written next to htmlPath.
func PDFPath(htmlPath string) string {
	return strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + PDFExt
}

// fileURL converts a filesystem path into a file:// URL.
func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// HTMLToPDF loads htmlPath in headless Chrome and prints it to pdfPath.
// Requires Chrome/Chromium to be installed on the system.
func HTMLToPDF(ctx context.Context, htmlPath, pdfPath string, timeout time.Duration) error {
	if _, err := os.Stat(htmlPath); err != nil {
		return fmt.Errorf("failed to read %s: %w", htmlPath, err)
	}
	target, err := fileURL(htmlPath)
	if err != nil {
		return err
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("PDF export of %s failed: %w", htmlPath, err)
	}

	if err := os.WriteFile(pdfPath, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", pdfPath, err)
	}
	return nil
}

// Exporter converts a fixed set of HTML files to PDF.
type Exporter struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewExporter creates an Exporter with DefaultTimeout.
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{Timeout: DefaultTimeout, Logger: logger}
}

// Export prints each HTML file to a sibling PDF and returns the written paths.
// It stops at the first failure.
func (e *Exporter) Export(ctx context.Context, htmlPaths ...string) ([]string, error) {
	written := make([]string, 0, len(htmlPaths))
	for _, htmlPath := range htmlPaths {
		pdfPath := PDFPath(htmlPath)
		start := time.Now()
		if err := HTMLToPDF(ctx, htmlPath, pdfPath, e.Timeout); err != nil {
			return written, err
		}
		e.Logger.Debug("exported PDF", "html", htmlPath, "pdf", pdfPath, "elapsed", time.Since(start))
		written = append(written, pdfPath)
	}
	return written, nil
}
