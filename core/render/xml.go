// Package render — protein database XML renderer.
// Writes the mzLibProteinDb document: one <entry> per exported protein with
// its gene, organism, sequence variant features and trimmed sequence.
// Output is pretty-printed with two spaces per nesting level.
package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/protpipe/core"
)

const (
	rootElement = "mzLibProteinDb"
	indentUnit  = "  "
)

// xmlDeclaration is written before the root element.
var xmlDeclaration = xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)}

// XMLRenderer produces the mzLibProteinDb protein database.
type XMLRenderer struct {
	extractor core.Extractor
	// Genotypes requests per-sample genotype and allele depth elements.
	// Effects carry no genotype reference, so Render rejects it.
	Genotypes bool
}

// NewXMLRenderer creates an XMLRenderer.
func NewXMLRenderer(extractor core.Extractor) *XMLRenderer {
	return &XMLRenderer{extractor: extractor}
}

// Render filters db and writes the document to w. Any write error aborts
// the document; w is flushed but never closed.
func (r *XMLRenderer) Render(w io.Writer, db *core.ProteinDB) error {
	if r.Genotypes {
		return core.ErrGenotypesUnsupported
	}
	res, err := r.extractor.Extract(db)
	if err != nil {
		return fmt.Errorf("extracting entries: %w", err)
	}
	return WriteProteinXML(w, res.Entries)
}

// Extension returns the file extension for XML output.
func (r *XMLRenderer) Extension() string {
	return ".xml"
}

// WriteProteinXML writes already-filtered entries as an mzLibProteinDb
// document. Each call uses its own depth counter, so concurrent calls on
// different writers are safe.
func WriteProteinXML(w io.Writer, entries []core.ProteinEntry) error {
	e := &xmlEmitter{enc: xml.NewEncoder(w)}
	if err := e.enc.EncodeToken(xmlDeclaration); err != nil {
		return fmt.Errorf("writing declaration: %w", err)
	}
	err := e.element(rootElement, nil, func() error {
		for i := range entries {
			if err := e.entry(&entries[i]); err != nil {
				return fmt.Errorf("writing entry %s: %w", entries[i].Accession, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	// Close flushes and rejects unbalanced documents; it does not close w.
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("finishing document: %w", err)
	}
	return nil
}

// xmlEmitter owns the nesting depth for one document.
type xmlEmitter struct {
	enc   *xml.Encoder
	depth int
}

func (e *xmlEmitter) entry(p *core.ProteinEntry) error {
	return e.element("entry", nil, func() error {
		if err := e.text("accession", nil, p.Accession); err != nil {
			return err
		}
		if p.Name != "" {
			if err := e.text("name", nil, p.Name); err != nil {
				return err
			}
		}
		err := e.element("gene", nil, func() error {
			if err := e.text("name", attrs("type", "primary"), p.Gene.Primary); err != nil {
				return err
			}
			return e.text("name", attrs("type", "accession"), p.Gene.Accession)
		})
		if err != nil {
			return err
		}
		if p.Organism != "" {
			err := e.element("organism", nil, func() error {
				return e.text("name", attrs("type", "scientific"), p.Organism)
			})
			if err != nil {
				return err
			}
		}
		for i := range p.Features {
			if err := e.feature(&p.Features[i]); err != nil {
				return err
			}
		}
		return e.text("sequence", attrs("length", strconv.Itoa(p.Sequence.Length)), p.Sequence.Residues)
	})
}

func (e *xmlEmitter) feature(f *core.Feature) error {
	return e.element("feature", attrs("type", f.Type, "description", f.Description), func() error {
		if err := e.text("reference", attrs("allele", f.Reference.Allele), f.Reference.AminoAcids); err != nil {
			return err
		}
		if err := e.text("alternate", attrs("allele", f.Alternate.Allele), f.Alternate.AminoAcids); err != nil {
			return err
		}
		return e.element("location", nil, func() error {
			if !f.Location.Ranged {
				return e.text("position", attrs("position", strconv.Itoa(f.Location.Begin)), "")
			}
			if err := e.text("begin", attrs("position", strconv.Itoa(f.Location.Begin)), ""); err != nil {
				return err
			}
			return e.text("end", attrs("position", strconv.Itoa(f.Location.End)), "")
		})
	})
}

// element writes an element whose body writes child elements. The end tag
// is indented to match the start tag. depth is restored on every path.
func (e *xmlEmitter) element(name string, attr []xml.Attr, body func() error) (err error) {
	if err := e.open(name, attr); err != nil {
		return err
	}
	defer func() {
		e.depth--
		if err != nil {
			return
		}
		if err = e.indent(); err == nil {
			err = e.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
		}
	}()
	return body()
}

// text writes an element holding only character data (possibly none).
// It closes on the same line.
func (e *xmlEmitter) text(name string, attr []xml.Attr, data string) (err error) {
	if err := e.open(name, attr); err != nil {
		return err
	}
	defer func() {
		e.depth--
		if err == nil {
			err = e.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
		}
	}()
	if data == "" {
		return nil
	}
	return e.enc.EncodeToken(xml.CharData(data))
}

func (e *xmlEmitter) open(name string, attr []xml.Attr) error {
	if err := e.indent(); err != nil {
		return err
	}
	if err := e.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attr}); err != nil {
		return err
	}
	e.depth++
	return nil
}

func (e *xmlEmitter) indent() error {
	return e.enc.EncodeToken(xml.CharData("\n" + strings.Repeat(indentUnit, e.depth)))
}

// attrs builds attributes from name/value pairs, preserving order.
func attrs(kv ...string) []xml.Attr {
	out := make([]xml.Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, xml.Attr{Name: xml.Name{Local: kv[i]}, Value: kv[i+1]})
	}
	return out
}
