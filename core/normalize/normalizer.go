// Package normalize implements the Normalizer interface.
// The Markdown report is the HTML report converted here, so both list the
// same proteins, variants and sequences.
package normalize

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MarkdownNormalizer turns a rendered protein report into Markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts the HTML protein report into Markdown. Headings become
// ATX headings, the feature list a bullet list and the sequence block a
// fenced code block.
func (n *MarkdownNormalizer) Normalize(report string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(report)
	if err != nil {
		return "", fmt.Errorf("converting protein report to markdown: %w", err)
	}
	return markdown, nil
}
