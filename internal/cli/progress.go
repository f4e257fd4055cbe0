package cli

import (
	"fmt"
	"time"
)

// maxETA caps the estimate shown to the user.
const maxETA = 24 * time.Hour

// ProgressState aggregates per-tile progress and estimates the remaining
// time from an exponentially smoothed rate. It is not safe for concurrent
// use; DisplayProgress owns it.
type ProgressState struct {
	tiles []float64
	now   func() time.Time

	start        time.Time
	lastUpdate   time.Time
	lastProgress float64
	// rate is the smoothed progress per second.
	rate float64
}

// NewProgressState tracks numTiles tiles starting now.
func NewProgressState(numTiles int) *ProgressState {
	return newProgressState(numTiles, time.Now)
}

func newProgressState(numTiles int, now func() time.Time) *ProgressState {
	t := now()
	return &ProgressState{
		tiles:      make([]float64, max(numTiles, 0)),
		now:        now,
		start:      t,
		lastUpdate: t,
	}
}

// Update records the progress of one tile. Out-of-range indices are ignored.
func (ps *ProgressState) Update(tile int, value float64) {
	if tile < 0 || tile >= len(ps.tiles) {
		return
	}
	ps.tiles[tile] = value

	progress := ps.Average()
	now := ps.now()
	if now.Sub(ps.start) < 100*time.Millisecond || progress <= 0.001 {
		ps.lastUpdate, ps.lastProgress = now, progress
		return
	}

	dt := now.Sub(ps.lastUpdate).Seconds()
	if dt < 0.05 {
		return
	}
	if delta := progress - ps.lastProgress; delta > 0 {
		instant := delta / dt
		if ps.rate > 0 {
			ps.rate = 0.7*ps.rate + 0.3*instant
		} else {
			ps.rate = progress / now.Sub(ps.start).Seconds()
		}
	}
	ps.lastUpdate, ps.lastProgress = now, progress
}

// Average is the mean progress over all tiles.
func (ps *ProgressState) Average() float64 {
	if len(ps.tiles) == 0 {
		return 0
	}
	var sum float64
	for _, p := range ps.tiles {
		sum += p
	}
	return sum / float64(len(ps.tiles))
}

// ETA estimates the remaining time, or 0 while no rate is known.
func (ps *ProgressState) ETA() time.Duration {
	progress := ps.Average()
	if ps.rate <= 0 || progress >= 1 {
		return 0
	}
	eta := time.Duration((1 - progress) / ps.rate * float64(time.Second))
	return min(eta, maxETA)
}

// FormatETA renders eta as "< 1s", "42s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m, s := int(eta.Minutes()), int(eta.Seconds())%60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h, m := int(eta.Hours()), int(eta.Minutes())%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}
