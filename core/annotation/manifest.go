// Package annotation loads precomputed variant-effect annotations into a
// core.ProteinDB. Sources are YAML/JSON manifests (local or remote) and
// SQLite annotation stores.
package annotation

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/protpipe/core"
)

// Manifest is the on-disk form of a ProteinDB. Genes own their transcripts,
// which gives every transcript its parent gene. JSON is accepted as well.
type Manifest struct {
	Organism string       `yaml:"organism,omitempty"`
	Samples  []string     `yaml:"samples,omitempty"`
	Genes    []GeneRecord `yaml:"genes"`
}

// GeneRecord declares one gene and its transcripts.
type GeneRecord struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name,omitempty"`
	Transcripts []TranscriptRecord `yaml:"transcripts"`
}

// TranscriptRecord declares one transcript and its computed effects.
type TranscriptRecord struct {
	ID              string         `yaml:"id"`
	ProteinCoding   bool           `yaml:"protein_coding"`
	Protein         string         `yaml:"protein"`
	ProteinTrimmed  string         `yaml:"protein_trimmed,omitempty"`
	ErrorStartCodon bool           `yaml:"error_start_codon,omitempty"`
	Effects         []EffectRecord `yaml:"effects,omitempty"`
}

// VariantRecord declares the variant behind an effect.
type VariantRecord struct {
	Chromosome string `yaml:"chromosome"`
	Start      int64  `yaml:"start"`
	Ref        string `yaml:"ref"`
	Alt        string `yaml:"alt"`
	ID         string `yaml:"id,omitempty"`
}

// EffectRecord declares one computed variant effect.
type EffectRecord struct {
	Variant         VariantRecord `yaml:"variant"`
	Effect          string        `yaml:"effect,omitempty"`
	FunctionalClass string        `yaml:"functional_class"`
	AaRef           string        `yaml:"aa_ref"`
	AaAlt           string        `yaml:"aa_alt"`
	AaNetChange     *string       `yaml:"aa_net_change,omitempty"`
	Codon           int           `yaml:"codon"`
	Description     string        `yaml:"description,omitempty"`
}

// ParseManifest decodes a YAML or JSON manifest. Unknown keys are rejected
// and an empty document yields an empty manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// ProteinDB converts the manifest, keeping gene and transcript order.
func (m *Manifest) ProteinDB() (*core.ProteinDB, error) {
	db := &core.ProteinDB{
		Organism:    m.Organism,
		SampleNames: m.Samples,
	}
	for _, g := range m.Genes {
		gene := &core.Gene{ID: g.ID, Name: g.Name}
		for _, t := range g.Transcripts {
			te := core.TranscriptEffects{
				Transcript: &core.Transcript{
					ID:              t.ID,
					ProteinCoding:   t.ProteinCoding,
					Protein:         t.Protein,
					ProteinTrimmed:  t.ProteinTrimmed,
					ErrorStartCodon: t.ErrorStartCodon,
					Gene:            gene,
				},
			}
			for i, e := range t.Effects {
				eff, err := e.effect()
				if err != nil {
					return nil, fmt.Errorf("transcript %s effect %d: %w", t.ID, i+1, err)
				}
				te.Effects = append(te.Effects, eff)
			}
			db.Transcripts = append(db.Transcripts, te)
		}
	}
	return db, nil
}

func (e EffectRecord) effect() (core.VariantEffect, error) {
	class, err := core.ParseFunctionalClass(e.FunctionalClass)
	if err != nil {
		return core.VariantEffect{}, err
	}
	return core.VariantEffect{
		Variant: core.Variant{
			Chromosome: e.Variant.Chromosome,
			Start:      e.Variant.Start,
			Ref:        e.Variant.Ref,
			Alt:        e.Variant.Alt,
			ID:         e.Variant.ID,
		},
		EffectType:      e.Effect,
		FunctionalClass: class,
		AaRef:           e.AaRef,
		AaAlt:           e.AaAlt,
		AaNetChange:     e.AaNetChange,
		CodonNum:        e.Codon,
		Description:     e.Description,
	}, nil
}
