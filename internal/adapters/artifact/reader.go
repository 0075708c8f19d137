package artifact

import (
	"encoding/csv"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"io"
	"iter"
	"strings"
)

// Reader streams pair records back out of an artifact. The first line is
// treated as the header and skipped.
type Reader struct {
	cr     *csv.Reader
	line   int
	header bool
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{cr: cr}
}

// Next returns the next record, io.EOF at the end of input, or an error
// wrapping domain.ErrInputParse for a malformed line. Reading may continue
// after a malformed line.
func (r *Reader) Next() (domain.PairRecord, error) {
	if !r.header {
		r.header = true
		if _, err := r.read(); err != nil {
			return domain.PairRecord{}, err
		}
	}

	row, err := r.read()
	if err != nil {
		return domain.PairRecord{}, err
	}

	if len(row) != 3 {
		return domain.PairRecord{}, fmt.Errorf("%w: line %d: expected 3 fields, got %d", domain.ErrInputParse, r.line, len(row))
	}

	a, b := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
	if !domain.ValidStopID(a) || !domain.ValidStopID(b) {
		return domain.PairRecord{}, fmt.Errorf("%w: line %d: invalid stop ids %q, %q", domain.ErrInputParse, r.line, a, b)
	}

	d, err := domain.ParseDuration(row[2])
	if err != nil {
		return domain.PairRecord{}, fmt.Errorf("line %d: %w", r.line, err)
	}

	return domain.PairRecord{StopA: a, StopB: b, Duration: d}, nil
}

// Line is the 1-based number of the last line read.
func (r *Reader) Line() int { return r.line }

func (r *Reader) read() ([]string, error) {
	row, err := r.cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}

	var pe *csv.ParseError
	if errors.As(err, &pe) {
		r.line = pe.Line
		return nil, fmt.Errorf("%w: %w", domain.ErrInputParse, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	r.line, _ = r.cr.FieldPos(0)
	return row, nil
}

// All yields every record in order. Malformed lines are yielded as errors
// wrapping domain.ErrInputParse and iteration continues; any other error
// is yielded once and ends the sequence.
func (r *Reader) All() iter.Seq2[domain.PairRecord, error] {
	return func(yield func(domain.PairRecord, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil && !errors.Is(err, domain.ErrInputParse) {
				yield(domain.PairRecord{}, err)
				return
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}
