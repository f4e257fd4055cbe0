package mandelbrot

import (
	"sync"
)

// ProgressReporter receives the completed fraction (0.0 to 1.0) of a
// long-running evaluation.
type ProgressReporter func(progress float64)

// ProgressUpdate is one progress notification for a tile.
type ProgressUpdate struct {
	TileIndex int
	Value     float64
}

// ─────────────────────────────────────────────────────────────────────────────
// Observer Pattern Interfaces
// ─────────────────────────────────────────────────────────────────────────────

// ProgressObserver receives progress notifications for tiles, so UI,
// logging and metrics consumers stay decoupled from the evaluation loop.
type ProgressObserver interface {
	// Update is called when progress changes.
	//
	// Parameters:
	//   - tileIndex: The tile identifier (for concurrent evaluations).
	//   - progress: The normalized progress value (0.0 to 1.0).
	Update(tileIndex int, progress float64)
}

// ─────────────────────────────────────────────────────────────────────────────
// Progress Subject (Observable)
// ─────────────────────────────────────────────────────────────────────────────

// ProgressSubject fans progress notifications out to registered observers.
//
// ProgressSubject is safe for concurrent use.
type ProgressSubject struct {
	observers []ProgressObserver
	mu        sync.RWMutex
}

// NewProgressSubject creates an empty subject.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{
		observers: make([]ProgressObserver, 0),
	}
}

// Register adds an observer. Observers are notified in registration order.
// A nil observer is ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes an observer. Unknown observers are ignored.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify sends a progress update to all registered observers synchronously.
func (s *ProgressSubject) Notify(tileIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, observer := range s.observers {
		observer.Update(tileIndex, progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// AsProgressReporter binds the subject to one tile index.
//
// Parameters:
//   - tileIndex: The tile identifier to include in notifications.
//
// Returns:
//   - ProgressReporter: A function that can be passed to TileInto.
func (s *ProgressSubject) AsProgressReporter(tileIndex int) ProgressReporter {
	return func(progress float64) {
		s.Notify(tileIndex, progress)
	}
}
