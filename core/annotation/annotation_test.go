package annotation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/protpipe/core"
	"github.com/gaurav-prasanna/protpipe/core/fetch"
)

const manifestYAML = `
organism: Homo sapiens
samples: [S1, S2]
genes:
  - id: ENSG01
    name: ABC1
    transcripts:
      - id: ENST01
        protein_coding: true
        protein: MAVK*
        effects:
          - variant: {chromosome: "1", start: 100, ref: A, alt: G, id: rs1}
            effect: NON_SYNONYMOUS_CODING
            functional_class: missense
            aa_ref: K
            aa_alt: R
            codon: 4
          - variant: {chromosome: "1", start: 90, ref: C, alt: CTTT}
            effect: CODON_INSERTION
            functional_class: MISSENSE
            aa_ref: A
            aa_alt: AF
            aa_net_change: F
            codon: 2
      - id: ENST02
        protein_coding: false
        protein: ""
  - id: ENSG02
    transcripts:
      - id: ENST03
        protein_coding: true
        protein: MKL*
`

func TestParseManifest_YAML(t *testing.T) {
	m, err := ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)
	db, err := m.ProteinDB()
	require.NoError(t, err)

	assert.Equal(t, "Homo sapiens", db.Organism)
	assert.Equal(t, []string{"S1", "S2"}, db.SampleNames)
	require.Len(t, db.Transcripts, 3)

	first := db.Transcripts[0]
	assert.Equal(t, "ENST01", first.Transcript.ID)
	assert.Equal(t, &core.Gene{ID: "ENSG01", Name: "ABC1"}, first.Transcript.Gene)
	require.Len(t, first.Effects, 2)
	assert.Equal(t, core.FunctionalMissense, first.Effects[0].FunctionalClass)
	assert.Nil(t, first.Effects[0].AaNetChange)
	require.NotNil(t, first.Effects[1].AaNetChange)
	assert.Equal(t, "F", *first.Effects[1].AaNetChange)
	assert.Equal(t, "rs1", first.Effects[0].Variant.ID)

	// Transcripts of one gene share the same Gene value.
	assert.Same(t, first.Transcript.Gene, db.Transcripts[1].Transcript.Gene)
	assert.Equal(t, "ENSG02", db.Transcripts[2].Transcript.Gene.PrimaryName())
}

func TestParseManifest_JSON(t *testing.T) {
	data := `{"organism":"Mus musculus","genes":[{"id":"G","transcripts":[{"id":"T","protein_coding":true,"protein":"M*"}]}]}`
	m, err := ParseManifest([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "Mus musculus", m.Organism)
	require.Len(t, m.Genes, 1)
	assert.Equal(t, "T", m.Genes[0].Transcripts[0].ID)
}

func TestParseManifest_Empty(t *testing.T) {
	m, err := ParseManifest(nil)
	require.NoError(t, err)
	assert.Empty(t, m.Genes)
}

func TestParseManifest_UnknownField(t *testing.T) {
	_, err := ParseManifest([]byte("organism: x\nspecies: y\n"))
	assert.Error(t, err)
}

func TestManifest_BadFunctionalClass(t *testing.T) {
	m, err := ParseManifest([]byte(`
genes:
  - id: G
    transcripts:
      - id: T
        effects:
          - functional_class: catastrophic
`))
	require.NoError(t, err)
	_, err = m.ProteinDB()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownFunctionalClass))
	assert.Contains(t, err.Error(), "transcript T effect 1")
}

func TestSourcePredicates(t *testing.T) {
	assert.True(t, IsRemote("https://example.org/a.yaml"))
	assert.False(t, IsRemote("a.yaml"))
	assert.True(t, IsManifest("https://example.org/a.YAML?x=1"))
	assert.True(t, IsManifest("dir/a.json"))
	assert.True(t, IsStore("annotations.sqlite"))
	assert.False(t, IsStore("a.yml"))
	assert.False(t, IsManifest("a.vcf"))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifestYAML), 0644))

	db, err := Load(context.Background(), path, fetch.New())
	require.NoError(t, err)
	assert.Len(t, db.Transcripts, 3)
}

func TestLoad_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(manifestYAML))
	}))
	defer srv.Close()

	db, err := Load(context.Background(), srv.URL+"/m.yaml", fetch.New())
	require.NoError(t, err)
	assert.Equal(t, "Homo sapiens", db.Organism)
}

func TestLoad_UnknownSource(t *testing.T) {
	_, err := Load(context.Background(), "calls.vcf", fetch.New())
	assert.True(t, errors.Is(err, core.ErrUnknownSource))

	_, err = Load(context.Background(), "https://example.org/a.db", fetch.New())
	assert.True(t, errors.Is(err, core.ErrUnknownSource))
}

func TestLoad_MissingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	_, err := Load(context.Background(), path, fetch.New())
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "loading must not create the store")
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	m, err := ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)
	want, err := m.ProteinDB()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "store", "annotations.db")
	st, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, want))
	require.NoError(t, st.Close())

	got, err := Load(ctx, path, fetch.New())
	require.NoError(t, err)

	assert.Equal(t, want.Organism, got.Organism)
	assert.Equal(t, want.SampleNames, got.SampleNames)
	require.Len(t, got.Transcripts, len(want.Transcripts))
	for i := range want.Transcripts {
		assert.Equal(t, *want.Transcripts[i].Transcript.Gene, *got.Transcripts[i].Transcript.Gene)
		assert.Equal(t, want.Transcripts[i].Transcript.ID, got.Transcripts[i].Transcript.ID)
		assert.Equal(t, want.Transcripts[i].Transcript.ProteinCoding, got.Transcripts[i].Transcript.ProteinCoding)
		assert.Equal(t, want.Transcripts[i].Transcript.Protein, got.Transcripts[i].Transcript.Protein)
		assert.Equal(t, want.Transcripts[i].Effects, got.Transcripts[i].Effects)
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	st, err := OpenStore(filepath.Join(t.TempDir(), "a.db"))
	require.NoError(t, err)
	defer st.Close()

	gene := &core.Gene{ID: "G"}
	first := &core.ProteinDB{Organism: "A", Transcripts: []core.TranscriptEffects{
		{Transcript: &core.Transcript{ID: "T1", Gene: gene}},
		{Transcript: &core.Transcript{ID: "T2", Gene: gene}},
	}}
	require.NoError(t, st.Save(ctx, first))
	require.NoError(t, st.Save(ctx, &core.ProteinDB{Transcripts: []core.TranscriptEffects{
		{Transcript: &core.Transcript{ID: "T3"}},
	}}))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Organism)
	require.Len(t, got.Transcripts, 1)
	assert.Equal(t, "T3", got.Transcripts[0].Transcript.ID)
	assert.Nil(t, got.Transcripts[0].Transcript.Gene)
}
