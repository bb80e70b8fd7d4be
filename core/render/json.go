// Package render — JSON renderer.
// Writes the exported entries as structured JSON, mirroring the XML
// document field for field so downstream tools need no XML parser.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gaurav-prasanna/protpipe/core"
)

// JSONRenderer produces structured JSON output.
type JSONRenderer struct {
	extractor core.Extractor
}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer(extractor core.Extractor) *JSONRenderer {
	return &JSONRenderer{extractor: extractor}
}

// proteinDBJSON is the top-level JSON document.
type proteinDBJSON struct {
	Organism string              `json:"organism,omitempty"`
	Samples  []string            `json:"samples,omitempty"`
	Entries  []core.ProteinEntry `json:"entries"`
}

// Render writes the filtered entries as indented JSON.
func (r *JSONRenderer) Render(w io.Writer, db *core.ProteinDB) error {
	res, err := r.extractor.Extract(db)
	if err != nil {
		return fmt.Errorf("extracting entries: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(proteinDBJSON{
		Organism: res.Organism,
		Samples:  db.SampleNames,
		Entries:  res.Entries,
	}); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
