package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/protpipe/core"
	"github.com/gaurav-prasanna/protpipe/core/extract"
)

func TestPDFRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPDFRenderer(extract.New(nil)).Render(&buf, exampleDB()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRenderer_Extension(t *testing.T) {
	assert.Equal(t, ".pdf", NewPDFRenderer(extract.New(nil)).Extension())
}

func TestWrapResidues(t *testing.T) {
	assert.Nil(t, wrapResidues("", 4))
	assert.Equal(t, []string{"MAVK"}, wrapResidues("MAVK", 4))
	assert.Equal(t, []string{"MAVK", "LL"}, wrapResidues("MAVKLL", 4))

	long := strings.Repeat("A", 130)
	lines := wrapResidues(long, sequenceLineWidth)
	require.Len(t, lines, 3)
	assert.Len(t, lines[2], 10)
}

func TestPDFRenderer_Latin1Text(t *testing.T) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	renderHeader(pdf, tr, "Mus m\u00fcsculus")
	renderEntry(pdf, tr, core.ProteinEntry{
		Accession: "ENST\u00e901",
		Gene:      core.GeneRef{Primary: "\u00c6BC1", Accession: "ENSG01"},
		Sequence:  core.Sequence{Length: 3, Residues: "MK"},
	})

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	out := buf.String()

	// Latin-1 bytes in the content stream, no raw UTF-8 sequences.
	assert.Contains(t, out, "Mus m\xfcsculus")
	assert.Contains(t, out, "ENST\xe901")
	assert.Contains(t, out, "\xc6BC1")
	assert.NotContains(t, out, "\u00fc")
	assert.NotContains(t, out, "\u00e9")
	assert.NotContains(t, out, "\u00c6")
}
