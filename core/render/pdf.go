// Package render — PDF renderer.
// Lays out the exported proteins as a printable report using gofpdf:
// a heading per protein, its gene, the variant list and the sequence.
package render

import (
	"fmt"
	"io"

	"github.com/gaurav-prasanna/protpipe/core"
	"github.com/jung-kurt/gofpdf"
)

// sequenceLineWidth is the number of residues per line in the sequence block.
const sequenceLineWidth = 60

// PDFRenderer renders exported proteins as a PDF document.
type PDFRenderer struct {
	extractor core.Extractor
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(extractor core.Extractor) *PDFRenderer {
	return &PDFRenderer{extractor: extractor}
}

// Render writes the PDF report to w.
func (r *PDFRenderer) Render(w io.Writer, db *core.ProteinDB) error {
	res, err := r.extractor.Extract(db)
	if err != nil {
		return fmt.Errorf("extracting entries: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Protein variant report", true)
	pdf.AddPage()

	// Core fonts are Latin-1; every caller-supplied string goes through tr.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	renderHeader(pdf, tr, res.Organism)
	for _, e := range res.Entries {
		renderEntry(pdf, tr, e)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func renderHeader(pdf *gofpdf.Fpdf, tr func(string) string, organism string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, "Protein variant report", "", "L", false)
	pdf.Ln(2)

	if organism != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Organism: "+organism), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)
}

func renderEntry(pdf *gofpdf.Fpdf, tr func(string) string, e core.ProteinEntry) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, tr(e.Accession), "", "L", false)

	pdf.SetFont("Helvetica", "", 10)
	gene := fmt.Sprintf("Gene: %s (%s)   Length: %d", e.Gene.Primary, e.Gene.Accession, e.Sequence.Length)
	pdf.MultiCell(0, 5, tr(gene), "", "L", false)
	pdf.Ln(1)

	if len(e.Features) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, "No sequence variants.", "", "L", false)
	}
	for _, f := range e.Features {
		pdf.SetFont("Helvetica", "", 10)
		text := fmt.Sprintf("• %s: %s > %s (%s/%s)  %s",
			formatLocation(f.Location),
			f.Reference.AminoAcids, f.Alternate.AminoAcids,
			f.Reference.Allele, f.Alternate.Allele,
			f.Description,
		)
		pdf.MultiCell(0, 5, tr(text), "", "L", false)
	}
	pdf.Ln(2)

	pdf.SetFont("Courier", "", 9)
	pdf.SetFillColor(245, 245, 245)
	for _, line := range wrapResidues(e.Sequence.Residues, sequenceLineWidth) {
		pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
	}
	pdf.Ln(5)
}

// wrapResidues splits a sequence into lines of at most width residues.
func wrapResidues(seq string, width int) []string {
	if seq == "" {
		return nil
	}
	lines := make([]string, 0, len(seq)/width+1)
	for len(seq) > width {
		lines = append(lines, seq[:width])
		seq = seq[width:]
	}
	return append(lines, seq)
}
