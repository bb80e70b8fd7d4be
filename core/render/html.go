// Package render — HTML report renderer.
// Builds a standalone HTML page with one section per exported protein.
// The Markdown renderer derives its output from this page.
package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/gaurav-prasanna/protpipe/core"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"location": formatLocation,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Protein variant report</title>
</head>
<body>
<h1>Protein variant report</h1>
{{if .Organism}}<p class="organism">Organism: <em>{{.Organism}}</em></p>
{{end}}<p class="summary">{{len .Entries}} proteins, {{.Variants}} sequence variants.</p>
{{range .Entries}}<section class="entry" id="{{.Accession}}">
<h2>{{.Accession}}</h2>
<p class="gene">Gene: <strong>{{.Gene.Primary}}</strong> ({{.Gene.Accession}})</p>
<p class="length">Length: {{.Sequence.Length}}</p>
{{if .Features}}<ul class="features">
{{range .Features}}<li class="feature">{{location .Location}}: {{.Reference.AminoAcids}} &gt; {{.Alternate.AminoAcids}} ({{.Reference.Allele}}/{{.Alternate.Allele}}) <code>{{.Description}}</code></li>
{{end}}</ul>
{{else}}<p class="no-features">No sequence variants.</p>
{{end}}<pre class="sequence">{{.Sequence.Residues}}</pre>
</section>
{{end}}</body>
</html>
`))

// HTMLRenderer produces a human-readable HTML report.
type HTMLRenderer struct {
	extractor core.Extractor
}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer(extractor core.Extractor) *HTMLRenderer {
	return &HTMLRenderer{extractor: extractor}
}

type reportData struct {
	Organism string
	Entries  []core.ProteinEntry
	Variants int
}

// Render writes the report page to w.
func (r *HTMLRenderer) Render(w io.Writer, db *core.ProteinDB) error {
	res, err := r.extractor.Extract(db)
	if err != nil {
		return fmt.Errorf("extracting entries: %w", err)
	}
	data := reportData{Organism: res.Organism, Entries: res.Entries}
	for _, e := range res.Entries {
		data.Variants += len(e.Features)
	}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("executing report template: %w", err)
	}
	return nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

// formatLocation renders a location as "4" or "10-12".
func formatLocation(l core.Location) string {
	if !l.Ranged {
		return fmt.Sprintf("%d", l.Begin)
	}
	return fmt.Sprintf("%d-%d", l.Begin, l.End)
}
