// Package ledger implements the append-only record store.
//
// A Log is the raw backend: it only knows how to append one line and how to
// read every line back in append order. Ledger[T] layers the record codec on
// top: one JSON object per line on the way in, and on the way out every line
// that does not decode (or does not validate) is skipped instead of failing
// the whole load, since a torn final line is the expected residue of an
// interrupted write.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/actadigital/registry/internal/domain"
	"github.com/actadigital/registry/pkg/logger"
	"github.com/actadigital/registry/pkg/metrics"
)

// Log is an append-only sequence of lines.
//
// Append must not return before the line is durable, and concurrent Appends
// on the same log must never interleave their bytes. ReadAll returns an empty
// slice when the log does not exist yet. Both wrap backend failures with
// domain.ErrStorageUnavailable.
type Log interface {
	Name() string
	Append(ctx context.Context, line []byte) error
	ReadAll(ctx context.Context) ([][]byte, error)
}

// Validator is implemented by records that can reject a syntactically valid
// line whose content is unusable (a missing fingerprint, an unknown vote).
type Validator interface {
	Validate() error
}

// Ledger is the typed view of a Log.
type Ledger[T any] struct {
	log Log
}

// New wraps log with the JSON-lines codec for T.
func New[T any](log Log) *Ledger[T] {
	return &Ledger[T]{log: log}
}

// Log returns the underlying backend.
func (l *Ledger[T]) Log() Log { return l.log }

// Append encodes rec as a single line and appends it.
func (l *Ledger[T]) Append(ctx context.Context, rec T) error {
	line, err := Encode(rec)
	if err != nil {
		return err
	}
	if err := l.log.Append(ctx, line); err != nil {
		metrics.LedgerAppendFailures.WithLabelValues(l.log.Name()).Inc()
		return err
	}
	metrics.LedgerAppends.WithLabelValues(l.log.Name()).Inc()
	return nil
}

// LoadAll decodes every well-formed record in append order.
func (l *Ledger[T]) LoadAll(ctx context.Context) ([]T, error) {
	lines, err := l.log.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(lines))
	for i, line := range lines {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		rec, err := Decode[T](line)
		if err != nil {
			metrics.LedgerMalformedLines.WithLabelValues(l.log.Name()).Inc()
			logger.Warnf("ledger %s: skipping line %d: %v", l.log.Name(), i+1, err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Encode marshals rec to a JSON line without the trailing newline.
// encoding/json escapes control characters, so the result never spans lines.
func Encode[T any](rec T) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

// Decode parses one line, reporting domain.ErrMalformedRecord on failure.
func Decode[T any](line []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(line, &rec); err != nil {
		return rec, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if v, ok := any(&rec).(Validator); ok {
		if err := v.Validate(); err != nil {
			return rec, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
		}
	}
	return rec, nil
}
