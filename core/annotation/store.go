package annotation

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gaurav-prasanna/protpipe/core"
)

//go:embed schema.sql
var schema string

const metaOrganism = "organism"

// Store is a SQLite annotation store holding exactly one ProteinDB.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (creating if needed) the store at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save replaces the stored ProteinDB with pdb in one transaction.
// Genes are keyed by ID; the first name seen for an ID is kept.
func (s *Store) Save(ctx context.Context, pdb *core.ProteinDB) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		"DELETE FROM effects", "DELETE FROM transcripts", "DELETE FROM genes",
		"DELETE FROM samples", "DELETE FROM meta",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing store: %w", err)
		}
	}

	if pdb.Organism != "" {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", metaOrganism, pdb.Organism); err != nil {
			return fmt.Errorf("saving organism: %w", err)
		}
	}
	for i, name := range pdb.SampleNames {
		if _, err := tx.ExecContext(ctx, "INSERT INTO samples (ord, name) VALUES (?, ?)", i, name); err != nil {
			return fmt.Errorf("saving sample %s: %w", name, err)
		}
	}

	for i, te := range pdb.Transcripts {
		tr := te.Transcript
		var geneID sql.NullString
		if tr.Gene != nil {
			geneID = sql.NullString{String: tr.Gene.ID, Valid: true}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO genes (id, name) VALUES (?, ?) ON CONFLICT(id) DO NOTHING",
				tr.Gene.ID, tr.Gene.Name,
			); err != nil {
				return fmt.Errorf("saving gene %s: %w", tr.Gene.ID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transcripts (ord, id, gene_id, protein_coding, protein, protein_trimmed, error_start_codon)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, tr.ID, geneID, tr.ProteinCoding, tr.Protein, tr.ProteinTrimmed, tr.ErrorStartCodon,
		); err != nil {
			return fmt.Errorf("saving transcript %s: %w", tr.ID, err)
		}

		for j, e := range te.Effects {
			var netChange sql.NullString
			if e.AaNetChange != nil {
				netChange = sql.NullString{String: *e.AaNetChange, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO effects (transcript_ord, ord, chromosome, start, ref, alt, variant_id,
					effect_type, functional_class, aa_ref, aa_alt, aa_net_change, codon, description)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				i, j, e.Variant.Chromosome, e.Variant.Start, e.Variant.Ref, e.Variant.Alt, e.Variant.ID,
				e.EffectType, e.FunctionalClass.String(), e.AaRef, e.AaAlt, netChange, e.CodonNum, e.Description,
			); err != nil {
				return fmt.Errorf("saving effect %d of transcript %s: %w", j+1, tr.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Load reads the stored ProteinDB, in the order it was saved.
func (s *Store) Load(ctx context.Context) (*core.ProteinDB, error) {
	pdb := &core.ProteinDB{}

	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", metaOrganism).Scan(&pdb.Organism)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading organism: %w", err)
	}

	samples, err := s.loadSamples(ctx)
	if err != nil {
		return nil, err
	}
	pdb.SampleNames = samples

	genes, err := s.loadGenes(ctx)
	if err != nil {
		return nil, err
	}

	byOrd := make(map[int64]int)
	rows, err := s.db.QueryContext(ctx, `
		SELECT ord, id, gene_id, protein_coding, protein, protein_trimmed, error_start_codon
		FROM transcripts ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("querying transcripts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ord    int64
			geneID sql.NullString
			tr     core.Transcript
		)
		if err := rows.Scan(&ord, &tr.ID, &geneID, &tr.ProteinCoding, &tr.Protein, &tr.ProteinTrimmed, &tr.ErrorStartCodon); err != nil {
			return nil, fmt.Errorf("scanning transcript: %w", err)
		}
		if geneID.Valid {
			tr.Gene = genes[geneID.String]
		}
		byOrd[ord] = len(pdb.Transcripts)
		pdb.Transcripts = append(pdb.Transcripts, core.TranscriptEffects{Transcript: &tr})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcripts: %w", err)
	}

	if err := s.loadEffects(ctx, pdb, byOrd); err != nil {
		return nil, err
	}
	return pdb, nil
}

func (s *Store) loadSamples(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM samples ORDER BY ord")
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) loadGenes(ctx context.Context) (map[string]*core.Gene, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM genes")
	if err != nil {
		return nil, fmt.Errorf("querying genes: %w", err)
	}
	defer rows.Close()

	genes := make(map[string]*core.Gene)
	for rows.Next() {
		g := &core.Gene{}
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scanning gene: %w", err)
		}
		genes[g.ID] = g
	}
	return genes, rows.Err()
}

func (s *Store) loadEffects(ctx context.Context, pdb *core.ProteinDB, byOrd map[int64]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transcript_ord, chromosome, start, ref, alt, variant_id, effect_type,
			functional_class, aa_ref, aa_alt, aa_net_change, codon, description
		FROM effects ORDER BY transcript_ord, ord`)
	if err != nil {
		return fmt.Errorf("querying effects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			trOrd     int64
			class     string
			netChange sql.NullString
			e         core.VariantEffect
		)
		if err := rows.Scan(&trOrd, &e.Variant.Chromosome, &e.Variant.Start, &e.Variant.Ref, &e.Variant.Alt,
			&e.Variant.ID, &e.EffectType, &class, &e.AaRef, &e.AaAlt, &netChange, &e.CodonNum, &e.Description); err != nil {
			return fmt.Errorf("scanning effect: %w", err)
		}
		if e.FunctionalClass, err = core.ParseFunctionalClass(class); err != nil {
			return err
		}
		if netChange.Valid {
			change := netChange.String
			e.AaNetChange = &change
		}
		idx, ok := byOrd[trOrd]
		if !ok {
			continue
		}
		pdb.Transcripts[idx].Effects = append(pdb.Transcripts[idx].Effects, e)
	}
	return rows.Err()
}
