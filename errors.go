package factsdb

import (
	"github.com/agilira/go-errors"
)

// Error codes for factsdb operations. NotFound is deliberately absent:
// per the store's contract, a missing fact is a normal (value, false)
// result, never an error.
const (
	ErrCodeOutOfMemory        errors.ErrorCode = "FACTSDB_OUT_OF_MEMORY"
	ErrCodeMalformedLogRecord errors.ErrorCode = "FACTSDB_MALFORMED_LOG_RECORD"
	ErrCodeIO                 errors.ErrorCode = "FACTSDB_IO_ERROR"
)

const (
	msgOutOfMemory        = "failed to allocate atom or fact storage"
	msgMalformedLogRecord = "log record did not parse"
	msgIO                 = "log or snapshot stream operation failed"
)

// NewErrOutOfMemory wraps an allocation failure surfaced by
// AtomPool.Intern. Unreachable in normal operation (the Go runtime
// aborts the process on true allocation failure rather than returning an
// error); reachable only by swapping an AtomPool's allocate hook, which
// is how the fault-injection test in atom_test.go exercises it.
func NewErrOutOfMemory(operation string) error {
	return errors.NewWithField(ErrCodeOutOfMemory, msgOutOfMemory, "operation", operation)
}

// NewErrMalformedLogRecord reports a log line that failed to parse.
func NewErrMalformedLogRecord(line int, text string, cause error) error {
	return errors.Wrap(cause, ErrCodeMalformedLogRecord, msgMalformedLogRecord).
		WithContext("line", line).
		WithContext("text", text)
}

// NewErrIO wraps an underlying stream error during log append, snapshot,
// or replay.
func NewErrIO(operation string, cause error) error {
	return errors.Wrap(cause, ErrCodeIO, msgIO).
		WithContext("operation", operation).
		AsRetryable()
}

// IsOutOfMemory reports whether err wraps an AtomPool allocation
// failure.
func IsOutOfMemory(err error) bool {
	return errors.HasCode(err, ErrCodeOutOfMemory)
}

// IsMalformedLogRecord reports whether err is a malformed-log-record
// error.
func IsMalformedLogRecord(err error) bool {
	return errors.HasCode(err, ErrCodeMalformedLogRecord)
}

// IsIOError reports whether err wraps a log/snapshot stream failure.
func IsIOError(err error) bool {
	return errors.HasCode(err, ErrCodeIO)
}
