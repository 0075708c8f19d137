package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/platform/obs"
	"net/http"
	"strconv"
	"strings"
)

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Durations [][]*float64 `json:"durations"`
}

// Durations retrieves walking durations from the batch's source stop to each
// of its destinations. Position i of the result is stops[batch.DestStart+i];
// a null cell becomes domain.NoRoute without shifting its neighbours.
func (o *OSRMTableProvider) Durations(
	ctx context.Context,
	stops []domain.Stop,
	batch domain.Batch,
) (_ []domain.Duration, err error) {
	defer obs.Time(o.log, "osrm.Durations")(&err)

	if err := batch.Validate(len(stops)); err != nil {
		return nil, fmt.Errorf("osrm table: %w", err)
	}

	url := o.tableURL(stops, batch)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("osrm table %s: %w: %w", batch, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	var tr tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("osrm table %s: %w: decode response: %w", batch, domain.ErrPayload, err)
	}

	return parseTableRow(tr, batch)
}

// tableURL lists the source first and the destinations in batch order, so the
// destination indices are always 1..n and the source is never a destination.
func (o *OSRMTableProvider) tableURL(stops []domain.Stop, batch domain.Batch) string {
	n := batch.Size()

	coords := make([]string, 0, 1+n)
	coords = append(coords, stops[batch.Source].LonLat())
	for i := batch.DestStart; i <= batch.DestEnd; i++ {
		coords = append(coords, stops[i].LonLat())
	}

	destIdx := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		destIdx = append(destIdx, strconv.Itoa(i))
	}

	return fmt.Sprintf(
		"%s/table/v1/%s/%s?sources=0&destinations=%s",
		o.baseURL, o.profile, strings.Join(coords, ";"), strings.Join(destIdx, ";"),
	)
}

func parseTableRow(tr tableResponse, batch domain.Batch) ([]domain.Duration, error) {
	if tr.Code != "" && tr.Code != "Ok" {
		return nil, fmt.Errorf("osrm table %s: %w: code=%s message=%q", batch, domain.ErrPayload, tr.Code, tr.Message)
	}

	if len(tr.Durations) != 1 {
		return nil, fmt.Errorf("osrm table %s: %w: expected 1 source row; got %d", batch, domain.ErrPayload, len(tr.Durations))
	}

	row := tr.Durations[0]
	if len(row) != batch.Size() {
		return nil, fmt.Errorf(
			"osrm table %s: %w: row length does not match destinations: durations=%d destinations=%d",
			batch, domain.ErrPayload, len(row), batch.Size(),
		)
	}

	out := make([]domain.Duration, len(row))
	for i, cell := range row {
		if cell == nil {
			out[i] = domain.NoRoute
			continue
		}
		if *cell < 0 {
			return nil, fmt.Errorf("osrm table %s: %w: negative duration %v at position %d", batch, domain.ErrPayload, *cell, i)
		}
		out[i] = domain.Duration(*cell)
	}

	return out, nil
}
