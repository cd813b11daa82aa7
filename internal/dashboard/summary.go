package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/clock"
)

const NotAvailable = "N/A"

// Stats are the figures shown on the summary cards.
type Stats struct {
	Total    int
	Recent   int
	Latest   string
	LatestAt time.Time
}

// ComputeStats counts stamps, those strictly after now-window, and the newest one.
func ComputeStats(stamps []time.Time, now time.Time, window time.Duration) Stats {
	stats := Stats{Total: len(stamps), Latest: NotAvailable}
	cutoff := now.Add(-window)
	for _, ts := range stamps {
		if ts.After(cutoff) {
			stats.Recent++
		}
		if ts.After(stats.LatestAt) {
			stats.LatestAt = ts
		}
	}
	if stats.Total > 0 {
		stats.Latest = FormatDate(stats.LatestAt)
	}
	return stats
}

// FormatDate renders t like "June 10th, 2024".
func FormatDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s %s, %d", t.Month(), ordinal(t.Day()), t.Year())
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// Summary aggregates every creation timestamp of the signed-in user.
type Summary struct {
	backend Backend
	clock   clock.Clock
	window  time.Duration

	mu    sync.Mutex
	stats Stats
}

func NewSummary(backend Backend, clk clock.Clock, window time.Duration) *Summary {
	if clk == nil {
		clk = clock.New()
	}
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &Summary{
		backend: backend,
		clock:   clk,
		window:  window,
		stats:   Stats{Latest: NotAvailable},
	}
}

// Refresh refetches the timestamps. On failure the stats read as empty.
func (s *Summary) Refresh(ctx context.Context) error {
	stamps, err := s.backend.FetchCreatedAt(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.stats = Stats{Latest: NotAvailable}
		return fmt.Errorf("fetch summary: %w", err)
	}
	s.stats = ComputeStats(stamps, s.clock.Now(), s.window)
	return nil
}

// Reset drops the figures of the previous user.
func (s *Summary) Reset() {
	s.mu.Lock()
	s.stats = Stats{Latest: NotAvailable}
	s.mu.Unlock()
}

func (s *Summary) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
