// Package core defines the domain model and pipeline interfaces for protpipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"io"
)

// FetchResult holds the raw body and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       []byte
}

// TranscriptEffects pairs a transcript with the effects computed for it.
type TranscriptEffects struct {
	Transcript *Transcript
	Effects    []VariantEffect
}

// ProteinDB is the input of every renderer: an ordered mapping from
// transcript to variant effects plus document-level metadata.
type ProteinDB struct {
	// Organism is the scientific name; empty means no organism block.
	Organism    string
	Transcripts []TranscriptEffects
	// SampleNames is carried for per-sample genotype output, which is
	// not supported yet.
	SampleNames []string
}

// GeneRef is the gene block of an exported entry.
type GeneRef struct {
	Primary   string `json:"primary"`
	Accession string `json:"accession"`
}

// Allele is one side of a sequence variant feature.
type Allele struct {
	Allele     string `json:"allele"`
	AminoAcids string `json:"amino_acids"`
}

// Location is the residue span of a feature. Ranged is false for a simple
// substitution, in which case Begin == End.
type Location struct {
	Begin  int  `json:"begin"`
	End    int  `json:"end"`
	Ranged bool `json:"ranged"`
}

// Feature is a sequence variant feature of an exported entry.
type Feature struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Reference   Allele   `json:"reference"`
	Alternate   Allele   `json:"alternate"`
	Location    Location `json:"location"`
}

// Sequence holds the exported protein. Length is the untrimmed length.
type Sequence struct {
	Length   int    `json:"length"`
	Residues string `json:"residues"`
}

// ProteinEntry is one exported protein, already filtered.
type ProteinEntry struct {
	Accession string    `json:"accession"`
	Name      string    `json:"name,omitempty"`
	Gene      GeneRef   `json:"gene"`
	Organism  string    `json:"organism,omitempty"`
	Features  []Feature `json:"features"`
	Sequence  Sequence  `json:"sequence"`
}

// SkipReason says why a transcript produced no entry.
type SkipReason string

const (
	SkipNotProteinCoding SkipReason = "not_protein_coding"
	SkipEmptyProtein     SkipReason = "empty_protein"
	SkipStartCodonError  SkipReason = "start_codon_error"
	SkipNoStopCodon      SkipReason = "no_stop_codon"
)

// Extraction is the result of filtering a ProteinDB.
type Extraction struct {
	Organism string
	Entries  []ProteinEntry
	Skipped  map[SkipReason]int
	// DroppedEffects counts effects ranked below missense.
	DroppedEffects int
}

// Fetcher retrieves a remote resource.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor applies the export inclusion rules to a ProteinDB.
type Extractor interface {
	Extract(db *ProteinDB) (*Extraction, error)
}

// Normalizer converts an HTML report into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer streams a ProteinDB to w in a final output format.
// Renderers never close w.
type Renderer interface {
	Render(w io.Writer, db *ProteinDB) error
	// Extension returns the file extension for this renderer (e.g. ".xml").
	Extension() string
}
