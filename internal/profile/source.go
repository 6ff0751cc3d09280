package profile

import (
	"context"
	"time"

	"github.com/jonathan/profile-editor/internal/types"
)

// DefaultFetchDelay is how long the simulated fetch takes to resolve.
const DefaultFetchDelay = 1000 * time.Millisecond

// FetchResult is the outcome of a Source fetch.
type FetchResult struct {
	Data types.ProfileData
	Err  error
}

// Source supplies the initial profile when storage has none.
// Fetch returns immediately; the channel receives exactly one result.
type Source interface {
	Fetch(ctx context.Context) <-chan FetchResult
}

// SimulatedSource stands in for a network call: it resolves with DefaultData after Delay.
type SimulatedSource struct {
	Delay time.Duration
}

// NewSimulatedSource creates a source with the given delay. A negative delay uses the default.
func NewSimulatedSource(delay time.Duration) *SimulatedSource {
	if delay < 0 {
		delay = DefaultFetchDelay
	}
	return &SimulatedSource{Delay: delay}
}

// Fetch implements Source. It only fails if ctx is done before the delay elapses.
func (s *SimulatedSource) Fetch(ctx context.Context) <-chan FetchResult {
	out := make(chan FetchResult, 1)
	go func() {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			out <- FetchResult{Data: DefaultData()}
		case <-ctx.Done():
			out <- FetchResult{Err: ctx.Err()}
		}
	}()
	return out
}

// DefaultData is the fixed dataset the simulated fetch resolves with.
func DefaultData() types.ProfileData {
	return types.ProfileData{
		Education: []string{
			"Azerbaijan Technical University - Information Security (1st year, 2024-present)",
			"Baku School No. 252 (2014-2024)",
		},
		Experience: []string{
			"Internship planned",
		},
		Skills: []string{
			"Python",
			"HTML, CSS",
		},
	}
}
