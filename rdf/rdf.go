// Package rdf converts a factsdb.Store's triples to and from standard
// RDF N-Quads, using github.com/piprate/json-gold/ld's RDFDataset/Quad
// types as the in-memory graph representation.
//
// The teacher this module is adapted from converted arity-N Datalog
// atoms to RDF by arity-dependent branching (0/1/2/3+, the last via
// reification) because a Datalog atom isn't already a triple. A
// factsdb.Fact is already subject-predicate-object shaped, so this
// package only needs the arity-2 branch of that conversion: one Quad per
// Fact, no reification.
package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/tripledb/factsdb"
)

const defaultGraph = "@default"

// ToDataset converts facts to an RDF dataset, one Quad per Fact. Every
// component becomes an IRI: atoms are opaque strings with no
// literal/IRI distinction to preserve, so there is no separate "is this
// a literal" signal to branch on (documented simplification relative to
// the teacher's richer, type-aware constant-to-RDF-node mapping).
func ToDataset(facts []*factsdb.Fact) *ld.RDFDataset {
	dataset := ld.NewRDFDataset()
	quads := make([]*ld.Quad, 0, len(facts))
	for _, f := range facts {
		quads = append(quads, ld.NewQuad(
			ld.NewIRI(f.S.Value),
			ld.NewIRI(f.P.Value),
			ld.NewIRI(f.O.Value),
			defaultGraph,
		))
	}
	dataset.Graphs[defaultGraph] = quads
	return dataset
}

// FromDataset converts the default graph of dataset back to facts. Only
// IRI subjects/predicates/objects are supported, matching ToDataset; a
// literal or blank node in the input is reported as an error. Returned
// facts are not interned into any Store; callers add them with
// Store.AddFact or Store.AddSPO.
func FromDataset(dataset *ld.RDFDataset) ([]*factsdb.Fact, error) {
	quads := dataset.GetQuads(defaultGraph)
	facts := make([]*factsdb.Fact, 0, len(quads))
	for _, q := range quads {
		s, err := iriValue(q.Subject)
		if err != nil {
			return nil, fmt.Errorf("subject: %w", err)
		}
		p, err := iriValue(q.Predicate)
		if err != nil {
			return nil, fmt.Errorf("predicate: %w", err)
		}
		o, err := iriValue(q.Object)
		if err != nil {
			return nil, fmt.Errorf("object: %w", err)
		}
		facts = append(facts, uninternedFact(s, p, o))
	}
	return facts, nil
}

// uninternedFact builds a Fact directly from string values. Exported
// fields make this possible without a constructor in factsdb: the Fact
// returned here is not registered in any AtomPool until a caller passes
// its atom values through Store.AddSPO.
func uninternedFact(s, p, o string) *factsdb.Fact {
	return &factsdb.Fact{
		S: &factsdb.Atom{Value: s},
		P: &factsdb.Atom{Value: p},
		O: &factsdb.Atom{Value: o},
	}
}

func iriValue(n ld.Node) (string, error) {
	if !ld.IsIRI(n) {
		return "", fmt.Errorf("expected an IRI node, got %T", n)
	}
	return n.(ld.IRI).Value, nil
}

// ToNQuads serializes facts directly to N-Quads text, one quad per line:
// "<s> <p> <o> .\n". It does not round-trip through an ld.RDFDataset;
// that conversion is exposed separately as ToDataset for callers that
// want json-gold's richer graph operations (framing, normalization)
// before serializing.
func ToNQuads(facts []*factsdb.Fact) (string, error) {
	var buf strings.Builder
	if err := writeNQuads(&buf, facts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FromNQuads parses N-Quads text of the form ToNQuads produces into
// facts not yet interned into any Store.
func FromNQuads(r io.Reader) ([]*factsdb.Fact, error) {
	sc := bufio.NewScanner(r)
	var facts []*factsdb.Fact
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		f, err := parseNQuadLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		facts = append(facts, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return facts, nil
}

func writeNQuads(w io.Writer, facts []*factsdb.Fact) error {
	bw := bufio.NewWriter(w)
	for _, f := range facts {
		if _, err := fmt.Fprintf(bw, "<%s> <%s> <%s> .\n", escapeIRI(f.S.Value), escapeIRI(f.P.Value), escapeIRI(f.O.Value)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func parseNQuadLine(text string) (*factsdb.Fact, error) {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "."))
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return nil, fmt.Errorf("expected 3 IRI terms, got %d in %q", len(fields), text)
	}
	s, err := unwrapIRI(fields[0])
	if err != nil {
		return nil, err
	}
	p, err := unwrapIRI(fields[1])
	if err != nil {
		return nil, err
	}
	o, err := unwrapIRI(fields[2])
	if err != nil {
		return nil, err
	}
	return uninternedFact(s, p, o), nil
}

func unwrapIRI(field string) (string, error) {
	if len(field) < 2 || field[0] != '<' || field[len(field)-1] != '>' {
		return "", fmt.Errorf("expected <iri>, got %q", field)
	}
	return field[1 : len(field)-1], nil
}

// escapeIRI escapes the handful of bytes N-Quads forbids unescaped
// inside an IRI reference.
func escapeIRI(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		">", "\\u003E",
		"<", "\\u003C",
		" ", "\\u0020",
	)
	return replacer.Replace(s)
}
