package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/protpipe/core"
)

func strPtr(s string) *string { return &s }

func codingTranscript(id, protein string) *core.Transcript {
	return &core.Transcript{
		ID:            id,
		ProteinCoding: true,
		Protein:       protein,
		Gene:          &core.Gene{ID: "G-" + id},
	}
}

func TestExtract_SkipsNonExportableTranscripts(t *testing.T) {
	nonCoding := codingTranscript("nc", "MAVK*")
	nonCoding.ProteinCoding = false
	badStart := codingTranscript("start", "MAVK*")
	badStart.ErrorStartCodon = true

	db := &core.ProteinDB{Transcripts: []core.TranscriptEffects{
		{Transcript: nonCoding},
		{Transcript: codingTranscript("empty", "")},
		{Transcript: badStart},
		{Transcript: codingTranscript("nostop", "MAVK")},
		{Transcript: codingTranscript("ok", "MAVK*")},
	}}

	res, err := New(nil).Extract(db)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "ok", res.Entries[0].Accession)
	assert.Equal(t, map[core.SkipReason]int{
		core.SkipNotProteinCoding: 1,
		core.SkipEmptyProtein:     1,
		core.SkipStartCodonError:  1,
		core.SkipNoStopCodon:      1,
	}, res.Skipped)
}

func TestExtract_SkippedTranscriptNeedsNoGene(t *testing.T) {
	tr := &core.Transcript{ID: "orphan", ProteinCoding: false}
	res, err := New(nil).Extract(&core.ProteinDB{Transcripts: []core.TranscriptEffects{{Transcript: tr}}})
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
}

func TestExtract_MissingGene(t *testing.T) {
	tr := codingTranscript("orphan", "MAVK*")
	tr.Gene = nil
	_, err := New(nil).Extract(&core.ProteinDB{Transcripts: []core.TranscriptEffects{{Transcript: tr}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingGene))
	assert.Contains(t, err.Error(), "orphan")
}

func TestExtract_FiltersSubMissenseEffects(t *testing.T) {
	db := &core.ProteinDB{Transcripts: []core.TranscriptEffects{{
		Transcript: codingTranscript("t1", "MAVK*"),
		Effects: []core.VariantEffect{
			{FunctionalClass: core.FunctionalNone, CodonNum: 1},
			{FunctionalClass: core.FunctionalSilent, CodonNum: 2},
			{FunctionalClass: core.FunctionalMissense, CodonNum: 3},
			{FunctionalClass: core.FunctionalNonsense, CodonNum: 4},
		},
	}}}

	res, err := New(nil).Extract(db)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	features := res.Entries[0].Features
	require.Len(t, features, 2)
	assert.Equal(t, 3, features[0].Location.Begin)
	assert.Equal(t, 4, features[1].Location.Begin)
	assert.Equal(t, 2, res.DroppedEffects)
}

func TestExtract_EntryShape(t *testing.T) {
	tr := codingTranscript("ENST01", "MAVK*")
	tr.Gene = &core.Gene{ID: "ENSG01", Name: "ABC1"}
	db := &core.ProteinDB{
		Organism: "Homo sapiens",
		Transcripts: []core.TranscriptEffects{{
			Transcript: tr,
			Effects: []core.VariantEffect{{
				Variant:         core.Variant{Ref: "A", Alt: "G"},
				FunctionalClass: core.FunctionalMissense,
				AaRef:           "K",
				AaAlt:           "R",
				CodonNum:        4,
				Description:     "K4R",
			}},
		}},
	}

	res, err := New(nil).Extract(db)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)

	e := res.Entries[0]
	assert.Equal(t, "ENST01", e.Accession)
	assert.Equal(t, "ENST01", e.Name)
	assert.Equal(t, core.GeneRef{Primary: "ABC1", Accession: "ENSG01"}, e.Gene)
	assert.Equal(t, "Homo sapiens", e.Organism)
	assert.Equal(t, core.Sequence{Length: 5, Residues: "MAVK"}, e.Sequence)
	assert.Equal(t, core.Feature{
		Type:        FeatureType,
		Description: "K4R",
		Reference:   core.Allele{Allele: "A", AminoAcids: "K"},
		Alternate:   core.Allele{Allele: "G", AminoAcids: "R"},
		Location:    core.Location{Begin: 4, End: 4},
	}, e.Features[0])
}

func TestFeatureFor_NetChangeSpansResidues(t *testing.T) {
	ranged := featureFor(core.VariantEffect{CodonNum: 10, AaNetChange: strPtr("KRS")})
	assert.Equal(t, core.Location{Begin: 10, End: 12, Ranged: true}, ranged.Location)

	single := featureFor(core.VariantEffect{CodonNum: 10})
	assert.Equal(t, core.Location{Begin: 10, End: 10}, single.Location)
}
