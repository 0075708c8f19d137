package distance

import (
	"context"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"sync"
)

type MockPair struct {
	From, To string
	Seconds  domain.Duration
}

// MockDurationProvider answers from a fixed pair table. Pairs absent from the
// table are NoRoute; sources listed in FailSources fail with ErrTransport.
type MockDurationProvider struct {
	m           map[string]domain.Duration
	FailSources map[string]bool

	mu    sync.Mutex
	calls []domain.Batch
}

func NewMockDurationProvider(pairs []MockPair) *MockDurationProvider {
	m := make(map[string]domain.Duration, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = p.Seconds
	}
	return &MockDurationProvider{m: m, FailSources: map[string]bool{}}
}

func (p *MockDurationProvider) Durations(ctx context.Context, stops []domain.Stop, batch domain.Batch) ([]domain.Duration, error) {
	p.mu.Lock()
	p.calls = append(p.calls, batch)
	p.mu.Unlock()

	if err := batch.Validate(len(stops)); err != nil {
		return nil, err
	}

	from := stops[batch.Source].StopID
	if p.FailSources[from] {
		return nil, fmt.Errorf("mock source %q: %w", from, domain.ErrTransport)
	}

	out := make([]domain.Duration, 0, batch.Size())
	for i := batch.DestStart; i <= batch.DestEnd; i++ {
		d, ok := p.m[from+"|"+stops[i].StopID]
		if !ok {
			d = domain.NoRoute
		}
		out = append(out, d)
	}

	return out, nil
}

// Calls returns the batches requested so far, in call order.
func (p *MockDurationProvider) Calls() []domain.Batch {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Batch(nil), p.calls...)
}
