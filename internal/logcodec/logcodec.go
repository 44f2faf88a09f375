// Package logcodec encodes and decodes the write-ahead log's text
// records: one "<op> <atom> <atom> <atom>" line per add/remove operation.
// Atoms are encoded as Go-quoted strings, following the same
// scanner-based tokenizing technique the corpus's own atom grammar
// parser uses for its (much richer) constant syntax: recognize a token
// with text/scanner, then strconv.Unquote/Quote to handle escapes.
package logcodec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"
)

// Op names the two operations the log records.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Record is one decoded log line.
type Record struct {
	Op      Op
	S, P, O string
	Line    int
}

// WriteRecord appends one record to w in the line format
// "<op> <quoted-s> <quoted-p> <quoted-o>\n".
func WriteRecord(w io.Writer, op Op, s, p, o string) error {
	_, err := fmt.Fprintf(w, "%s %s %s %s\n", op, quoteAtom(s), quoteAtom(p), quoteAtom(o))
	return err
}

func quoteAtom(s string) string {
	return strconv.Quote(s)
}

// ReadRecord decodes a single log line. line is the 1-based line number,
// used only to annotate parse errors.
func ReadRecord(text string, line int) (Record, error) {
	var sc scanner.Scanner
	sc.Init(strings.NewReader(text))
	sc.Mode = scanner.ScanIdents | scanner.ScanStrings
	sc.Error = func(_ *scanner.Scanner, msg string) {
		// text/scanner's default error handler prints to stderr; swallow it,
		// the caller gets a proper error from the ReadRecord return value.
	}

	opTok := sc.Scan()
	if opTok != scanner.Ident {
		return Record{}, fmt.Errorf("line %d: expected operation token, got %q", line, sc.TokenText())
	}
	op := Op(sc.TokenText())
	if op != OpAdd && op != OpRemove {
		return Record{}, fmt.Errorf("line %d: unknown operation %q", line, op)
	}

	s, err := scanQuotedAtom(&sc, line)
	if err != nil {
		return Record{}, err
	}
	p, err := scanQuotedAtom(&sc, line)
	if err != nil {
		return Record{}, err
	}
	o, err := scanQuotedAtom(&sc, line)
	if err != nil {
		return Record{}, err
	}

	return Record{Op: op, S: s, P: p, O: o, Line: line}, nil
}

func scanQuotedAtom(sc *scanner.Scanner, line int) (string, error) {
	tok := sc.Scan()
	if tok != scanner.String {
		return "", fmt.Errorf("line %d: expected quoted atom, got %q", line, sc.TokenText())
	}
	v, err := strconv.Unquote(sc.TokenText())
	if err != nil {
		return "", fmt.Errorf("line %d: could not unquote atom %q: %w", line, sc.TokenText(), err)
	}
	return v, nil
}

// ScanLines splits r into trimmed, non-blank, 1-indexed lines, calling
// yield for each. Stops and returns yield's error, if any.
func ScanLines(r io.Reader, yield func(line int, text string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := yield(line, text); err != nil {
			return err
		}
	}
	return sc.Err()
}
