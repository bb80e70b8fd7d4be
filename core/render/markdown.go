// Package render provides output renderers for the protpipe pipeline.
// This file implements the Markdown renderer, which normalizes the HTML
// report rather than formatting Markdown on its own.
package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gaurav-prasanna/protpipe/core"
)

// MarkdownRenderer writes the report as Markdown.
type MarkdownRenderer struct {
	html       *HTMLRenderer
	normalizer core.Normalizer
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer(extractor core.Extractor, normalizer core.Normalizer) *MarkdownRenderer {
	return &MarkdownRenderer{html: NewHTMLRenderer(extractor), normalizer: normalizer}
}

// Render builds the HTML report and converts it to Markdown.
func (r *MarkdownRenderer) Render(w io.Writer, db *core.ProteinDB) error {
	var page bytes.Buffer
	if err := r.html.Render(&page, db); err != nil {
		return err
	}
	markdown, err := r.normalizer.Normalize(page.String())
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, markdown+"\n"); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
