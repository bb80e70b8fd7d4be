// Package extract implements the Extractor interface.
// It isolates the exportable proteins from a ProteinDB by:
//  1. Dropping transcripts that cannot be exported (non-coding, empty
//     protein, start codon error, no stop codon)
//  2. Dropping effects ranked below missense
package extract

import (
	"fmt"
	"log/slog"

	"github.com/gaurav-prasanna/protpipe/core"
)

// FeatureType is the feature type attribute of every exported variant.
const FeatureType = "sequence variant"

// EffectExtractor filters transcripts and effects into ProteinEntry values.
type EffectExtractor struct {
	logger *slog.Logger
}

// New creates an EffectExtractor. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *EffectExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &EffectExtractor{logger: logger}
}

// Extract returns one entry per qualifying transcript, in input order.
// A qualifying transcript without a parent gene is an error.
func (e *EffectExtractor) Extract(db *core.ProteinDB) (*core.Extraction, error) {
	out := &core.Extraction{
		Organism: db.Organism,
		Entries:  make([]core.ProteinEntry, 0, len(db.Transcripts)),
		Skipped:  make(map[core.SkipReason]int),
	}

	for _, te := range db.Transcripts {
		tr := te.Transcript
		if reason, skip := skipReason(tr); skip {
			out.Skipped[reason]++
			e.logger.Debug("skipping transcript", "transcript", tr.ID, "reason", reason)
			continue
		}
		if tr.Gene == nil {
			return nil, fmt.Errorf("transcript %s: %w", tr.ID, core.ErrMissingGene)
		}

		entry := core.ProteinEntry{
			Accession: tr.ID,
			Name:      tr.ID,
			Gene: core.GeneRef{
				Primary:   tr.Gene.PrimaryName(),
				Accession: tr.Gene.ID,
			},
			Organism: db.Organism,
			Features: make([]core.Feature, 0, len(te.Effects)),
			Sequence: core.Sequence{
				Length:   len(tr.Protein),
				Residues: tr.Trimmed(),
			},
		}

		for _, eff := range te.Effects {
			if !eff.FunctionalClass.IsNonSynonymous() {
				out.DroppedEffects++
				continue
			}
			entry.Features = append(entry.Features, featureFor(eff))
		}
		out.Entries = append(out.Entries, entry)
	}

	e.logger.Debug("extraction complete",
		"entries", len(out.Entries),
		"skipped", skippedTotal(out.Skipped),
		"dropped_effects", out.DroppedEffects,
	)
	return out, nil
}

// skipReason applies the inclusion rules in a fixed order so the reported
// reason is stable.
func skipReason(tr *core.Transcript) (core.SkipReason, bool) {
	switch {
	case !tr.ProteinCoding:
		return core.SkipNotProteinCoding, true
	case tr.Protein == "":
		return core.SkipEmptyProtein, true
	case tr.ErrorStartCodon:
		return core.SkipStartCodonError, true
	case !tr.HasStopCodon():
		return core.SkipNoStopCodon, true
	}
	return "", false
}

// featureFor builds the feature for a qualifying effect. A recorded net
// change spans len(change) residues starting at the codon.
func featureFor(eff core.VariantEffect) core.Feature {
	loc := core.Location{Begin: eff.CodonNum, End: eff.CodonNum}
	if eff.AaNetChange != nil {
		loc.Ranged = true
		loc.End = eff.CodonNum + len(*eff.AaNetChange) - 1
	}
	return core.Feature{
		Type:        FeatureType,
		Description: eff.String(),
		Reference:   core.Allele{Allele: eff.Variant.Ref, AminoAcids: eff.AaRef},
		Alternate:   core.Allele{Allele: eff.Variant.Alt, AminoAcids: eff.AaAlt},
		Location:    loc,
	}
}

func skippedTotal(m map[core.SkipReason]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
