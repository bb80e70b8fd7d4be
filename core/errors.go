package core

import "errors"

var (
	// ErrGenotypesUnsupported is returned when per-sample genotype output is
	// requested. Variant effects carry no reference to genotype records.
	ErrGenotypesUnsupported = errors.New("per-sample genotype output is not supported")

	// ErrMissingGene indicates a qualifying transcript has no parent gene.
	ErrMissingGene = errors.New("transcript has no parent gene")

	// ErrUnknownSource indicates an annotation source that no loader accepts.
	ErrUnknownSource = errors.New("unknown annotation source")

	// ErrUnknownFunctionalClass indicates an unparseable functional class.
	ErrUnknownFunctionalClass = errors.New("unknown functional class")

	// ErrNoFormat indicates no output format was selected.
	ErrNoFormat = errors.New("no output format selected")
)
