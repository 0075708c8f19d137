package stops

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// GTFSStopSource reads an agency's stops.txt, either directly or from inside
// a GTFS zip. Columns are located by header name, so agencies that add or
// drop optional columns (stop_desc, zone_id, ...) parse the same way.
type GTFSStopSource struct {
	agency string
	path   string
	log    *zap.Logger
}

func NewGTFSStopSource(agency, path string, log *zap.Logger) *GTFSStopSource {
	return &GTFSStopSource{agency: agency, path: path, log: log}
}

func (s *GTFSStopSource) Name() string { return s.agency }

// LoadStops returns the stops in file order. Rows with a missing id or
// unparsable coordinates are logged and skipped.
func (s *GTFSStopSource) LoadStops(ctx context.Context) ([]domain.Stop, int, error) {
	if strings.EqualFold(path.Ext(s.path), ".zip") {
		return s.loadFromZip(ctx)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, 0, fmt.Errorf("load stops %s: %w: %w", s.agency, domain.ErrResourceUnavailable, err)
	}
	defer f.Close()

	return s.parse(ctx, f)
}

func (s *GTFSStopSource) loadFromZip(ctx context.Context) ([]domain.Stop, int, error) {
	zr, err := zip.OpenReader(s.path)
	if err != nil {
		return nil, 0, fmt.Errorf("load stops %s: %w: %w", s.agency, domain.ErrResourceUnavailable, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if strings.ToLower(path.Base(f.Name)) != "stops.txt" {
			continue
		}

		r, err := f.Open()
		if err != nil {
			return nil, 0, fmt.Errorf("load stops %s: open %s: %w", s.agency, f.Name, err)
		}
		defer r.Close()

		return s.parse(ctx, r)
	}

	return nil, 0, fmt.Errorf("load stops %s: %w: no stops.txt in %q", s.agency, domain.ErrResourceUnavailable, s.path)
}

func (s *GTFSStopSource) parse(ctx context.Context, r io.Reader) ([]domain.Stop, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		s.log.Warn("empty stop file", zap.String("agency", s.agency), zap.String("path", s.path))
		return []domain.Stop{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load stops %s: read header: %w", s.agency, err)
	}

	idx := func(col string) int {
		for i, h := range head {
			// GTFS files frequently start with a UTF-8 BOM.
			if strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(h), "\ufeff"), col) {
				return i
			}
		}
		return -1
	}

	sID, sLat, sLon := idx("stop_id"), idx("stop_lat"), idx("stop_lon")
	if sID < 0 || sLat < 0 || sLon < 0 {
		return nil, 0, fmt.Errorf("load stops %s: %w: header lacks stop_id/stop_lat/stop_lon", s.agency, domain.ErrInputParse)
	}

	stops := make([]domain.Stop, 0, 256)
	skipped := 0
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			skipped++
			s.log.Warn("skip stop row", zap.String("agency", s.agency), zap.Int("line", line), zap.Error(err))
			continue
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		stop, err := s.stopFromRow(row, sID, sLat, sLon)
		if err != nil {
			skipped++
			s.log.Warn("skip stop row", zap.String("agency", s.agency), zap.Int("line", line), zap.Error(err))
			continue
		}
		stops = append(stops, stop)
	}

	return stops, skipped, nil
}

func (s *GTFSStopSource) stopFromRow(row []string, sID, sLat, sLon int) (domain.Stop, error) {
	if sID >= len(row) || sLat >= len(row) || sLon >= len(row) {
		return domain.Stop{}, fmt.Errorf("%w: row has %d fields", domain.ErrInputParse, len(row))
	}

	id := strings.TrimSpace(row[sID])
	if !domain.ValidStopID(id) {
		return domain.Stop{}, fmt.Errorf("%w: invalid stop_id %q", domain.ErrInputParse, id)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(row[sLat]), 64)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("%w: stop %s latitude %q", domain.ErrInputParse, id, row[sLat])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row[sLon]), 64)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("%w: stop %s longitude %q", domain.ErrInputParse, id, row[sLon])
	}

	c := domain.Coordinates{Lon: lon, Lat: lat}
	if !c.Valid() {
		return domain.Stop{}, fmt.Errorf("%w: stop %s coordinates out of range (%v, %v)", domain.ErrInputParse, id, lat, lon)
	}

	return domain.Stop{StopID: id, Agency: s.agency, Coordinates: c}, nil
}
