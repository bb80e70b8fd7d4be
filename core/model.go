package core

import (
	"fmt"
	"strings"
)

// StopCodon is the marker a translated protein carries at its stop codon.
const StopCodon = "*"

// Gene is the parent of one or more transcripts.
type Gene struct {
	ID   string // Gene identifier (e.g., ENSG00000133703)
	Name string // Gene symbol (e.g., KRAS), optional
}

// PrimaryName returns the display name, falling back to the identifier.
func (g *Gene) PrimaryName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

// Transcript is a translatable transcript as produced by the gene model.
type Transcript struct {
	ID              string
	ProteinCoding   bool
	Protein         string // full translation, stop marker included
	ProteinTrimmed  string // optional; derived from Protein when empty
	ErrorStartCodon bool
	Gene            *Gene
}

// HasStopCodon reports whether the full protein contains the stop marker.
func (t *Transcript) HasStopCodon() bool {
	return strings.Contains(t.Protein, StopCodon)
}

// Trimmed returns the protein cut at the first stop codon.
func (t *Transcript) Trimmed() string {
	if t.ProteinTrimmed != "" {
		return t.ProteinTrimmed
	}
	if i := strings.Index(t.Protein, StopCodon); i >= 0 {
		return t.Protein[:i]
	}
	return t.Protein
}

// Variant is a single sequence change.
type Variant struct {
	Chromosome string
	Start      int64 // 1-based
	Ref        string
	Alt        string
	ID         string
}

func (v Variant) String() string {
	return fmt.Sprintf("%s:%d_%s/%s", v.Chromosome, v.Start, v.Ref, v.Alt)
}

// FunctionalClass ranks the severity of an effect on the protein.
type FunctionalClass int

const (
	FunctionalNone FunctionalClass = iota
	FunctionalSilent
	FunctionalMissense
	FunctionalNonsense
)

var functionalClassNames = [...]string{"NONE", "SILENT", "MISSENSE", "NONSENSE"}

func (c FunctionalClass) String() string {
	if c < 0 || int(c) >= len(functionalClassNames) {
		return fmt.Sprintf("FunctionalClass(%d)", int(c))
	}
	return functionalClassNames[c]
}

// IsNonSynonymous reports whether c ranks at or above missense.
func (c FunctionalClass) IsNonSynonymous() bool {
	return c >= FunctionalMissense
}

// ParseFunctionalClass parses a class name case-insensitively.
// The empty string parses as FunctionalNone.
func ParseFunctionalClass(s string) (FunctionalClass, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FunctionalNone, nil
	}
	for i, name := range functionalClassNames {
		if strings.EqualFold(s, name) {
			return FunctionalClass(i), nil
		}
	}
	return FunctionalNone, fmt.Errorf("%w: %q", ErrUnknownFunctionalClass, s)
}

// VariantEffect is a precomputed effect of a variant on one transcript.
type VariantEffect struct {
	Variant         Variant
	EffectType      string // e.g. NON_SYNONYMOUS_CODING
	FunctionalClass FunctionalClass
	AaRef           string
	AaAlt           string
	// AaNetChange is nil for a simple substitution and holds the residue
	// delta for insertions, deletions and frameshifts.
	AaNetChange *string
	CodonNum    int
	Description string
}

// String returns Description when set, otherwise a compact summary.
func (e VariantEffect) String() string {
	if e.Description != "" {
		return e.Description
	}
	parts := []string{e.Variant.String()}
	if e.EffectType != "" {
		parts = append(parts, e.EffectType)
	}
	parts = append(parts, fmt.Sprintf("%s%d%s", e.AaRef, e.CodonNum, e.AaAlt))
	return strings.Join(parts, " ")
}
