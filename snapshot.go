package factsdb

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// countingWriter wraps an io.Writer and counts bytes written, the same
// idiom the SQL-backed ancestor of this store used for its own
// WriteTo/ReadFrom pair.
type countingWriter struct {
	w     io.Writer
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}

type countingReader struct {
	r     io.Reader
	count int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.count += int64(n)
	return n, err
}

// WriteTo serializes every fact currently in the store to w as a JSON
// array of [subject, predicate, object] triples, in SPO order. It
// implements io.WriterTo.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	enc := jsontext.NewEncoder(cw)

	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return cw.count, NewErrIO("write snapshot", err)
	}

	c := s.Match(NewBindings(), "?s", "?p", "?o")
	for f := c.Next(); f != nil; f = c.Next() {
		triple := [3]string{f.S.Value, f.P.Value, f.O.Value}
		if err := json.MarshalEncode(enc, &triple); err != nil {
			return cw.count, NewErrIO("write snapshot", err)
		}
	}

	if err := enc.WriteToken(jsontext.EndArray); err != nil {
		return cw.count, NewErrIO("write snapshot", err)
	}
	return cw.count, nil
}

// ReadFrom loads a snapshot produced by WriteTo, calling AddFact for
// every triple. It implements io.ReaderFrom.
func (s *Store) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	dec := jsontext.NewDecoder(cr)

	tok, err := dec.ReadToken()
	if err != nil {
		return cr.count, NewErrIO("read snapshot: opening token", err)
	}
	if tok.Kind() != '[' {
		return cr.count, NewErrIO("read snapshot", io.ErrUnexpectedEOF)
	}

	for dec.PeekKind() != ']' {
		var triple [3]string
		if err := json.UnmarshalDecode(dec, &triple); err != nil {
			return cr.count, NewErrIO("read snapshot: decode triple", err)
		}
		if _, err := s.AddSPO(triple[0], triple[1], triple[2]); err != nil {
			return cr.count, err
		}
	}

	if _, err := dec.ReadToken(); err != nil {
		return cr.count, NewErrIO("read snapshot: closing token", err)
	}
	return cr.count, nil
}
