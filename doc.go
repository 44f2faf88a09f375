// Package factsdb implements an in-memory triple store: facts are
// (subject, predicate, object) triples over interned string atoms,
// indexed three ways (SPO, POS, OSP) for single-pattern queries.
package factsdb
