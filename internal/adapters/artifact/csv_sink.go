package artifact

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Header is the fixed first line of every duration artifact.
var Header = []string{"stop_id", "stop_id", "duration"}

// CSVSink appends pair records to a CSV artifact that never replaces the
// output of an earlier run.
type CSVSink struct {
	f      *os.File
	path   string
	closed bool
}

// CreateCSVSink creates preferred, or preferred_2, preferred_3, ... (the suffix
// goes before the extension) using the first name that does not exist yet,
// and writes the header.
func CreateCSVSink(preferred string) (*CSVSink, error) {
	f, path, err := createUnique(preferred)
	if err != nil {
		return nil, err
	}

	s := &CSVSink{f: f, path: path}
	if err := s.writeRows([][]string{Header}); err != nil {
		s.Close()
		return nil, fmt.Errorf("create artifact %q: write header: %w", path, err)
	}

	return s, nil
}

// createUnique probes candidate names with O_EXCL so an existing file is
// never truncated, even if another process creates it concurrently.
func createUnique(preferred string) (*os.File, string, error) {
	if strings.TrimSpace(preferred) == "" {
		return nil, "", fmt.Errorf("create artifact: %w: empty file name", domain.ErrResourceUnavailable)
	}

	ext := filepath.Ext(preferred)
	base := strings.TrimSuffix(preferred, ext)

	name := preferred
	for counter := 2; ; counter++ {
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("create artifact %q: %w: %w", name, domain.ErrResourceUnavailable, err)
		}
		name = base + "_" + strconv.Itoa(counter) + ext
	}
}

// Path is the file actually chosen for this run.
func (s *CSVSink) Path() string { return s.path }

// WriteBatch encodes the whole batch first and hands it to the file in a
// single write, so a failed batch never leaves a partial block behind.
func (s *CSVSink) WriteBatch(ctx context.Context, records []domain.PairRecord) error {
	if s.closed {
		return errors.New("write artifact: sink is closed")
	}
	if len(records) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.StopA, r.StopB, r.Duration.String()})
	}

	if err := s.writeRows(rows); err != nil {
		return fmt.Errorf("write artifact %q: %w", s.path, err)
	}
	return nil
}

func (s *CSVSink) writeRows(rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return err
	}

	_, err := s.f.Write(buf.Bytes())
	return err
}

func (s *CSVSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	syncErr := s.f.Sync()
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close artifact %q: %w", s.path, err)
	}
	if syncErr != nil {
		return fmt.Errorf("sync artifact %q: %w", s.path, syncErr)
	}
	return nil
}
