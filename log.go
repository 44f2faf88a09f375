package factsdb

import (
	"io"

	"go.uber.org/zap"

	"github.com/tripledb/factsdb/internal/logcodec"
)

const (
	opAdd    = logcodec.OpAdd
	opRemove = logcodec.OpRemove
)

// Op is the write-ahead log's operation tag ("add" or "remove").
type Op = logcodec.Op

// LogWriter appends one write-ahead record per successful mutation. A
// Store configured with WithLog writes the record before applying the
// mutation in memory, giving true WAL semantics (a deliberate break from
// the add-before/remove-after inconsistency of the system this store's
// design is adapted from).
type LogWriter interface {
	WriteRecord(op Op, f *Fact) error
}

// FileLog is a LogWriter that appends records to an io.Writer, one line
// per record, in the format "<op> <quoted atom> <quoted atom> <quoted atom>".
type FileLog struct {
	w io.Writer
}

// NewFileLog wraps w as a LogWriter.
func NewFileLog(w io.Writer) *FileLog {
	return &FileLog{w: w}
}

// WriteRecord implements LogWriter.
func (l *FileLog) WriteRecord(op Op, f *Fact) error {
	if err := logcodec.WriteRecord(l.w, op, f.S.Value, f.P.Value, f.O.Value); err != nil {
		return NewErrIO("write log record", err)
	}
	return nil
}

// LoadLog replays every record in r against the store without
// re-logging, in file order. Replay is idempotent: a duplicate "add"
// returns the existing fact as a no-op, and "remove" of an absent fact
// returns false, both without error. A line that fails to parse yields a
// MalformedLogRecord error; the caller decides whether to skip or abort
// (see the skipMalformed parameter).
func (s *Store) LoadLog(r io.Reader, skipMalformed bool) error {
	replayLog := s.log
	s.log = nil // replay never re-logs
	defer func() { s.log = replayLog }()

	// ScanLines returns either the yield callback's own (already
	// classified) error, unchanged, or sc.Err() when the stream itself
	// failed after every line yielded cleanly. yieldErr records the
	// former so the two can be told apart below: only a genuine stream
	// failure still needs an IoError wrapper.
	var yieldErr error
	err := logcodec.ScanLines(r, func(line int, text string) error {
		rec, err := logcodec.ReadRecord(text, line)
		if err != nil {
			wrapped := NewErrMalformedLogRecord(line, text, err)
			if skipMalformed {
				s.logger.Warn("skipping malformed log record", zap.Stringer("store", s.id), zap.Int("line", line), zap.Error(wrapped))
				return nil
			}
			yieldErr = wrapped
			return wrapped
		}

		switch rec.Op {
		case opAdd:
			_, err := s.AddSPO(rec.S, rec.P, rec.O)
			yieldErr = err
			return err
		case opRemove:
			_, err := s.RemoveSPO(rec.S, rec.P, rec.O)
			yieldErr = err
			return err
		default:
			wrapped := NewErrMalformedLogRecord(line, text, nil)
			yieldErr = wrapped
			return wrapped
		}
	})
	if err == nil || err == yieldErr {
		return err
	}
	return NewErrIO("replay log", err)
}
