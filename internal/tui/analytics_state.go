package tui

import (
	"sync"

	"github.com/studiowebux/shopdemo/internal/analytics"
)

// StatsState encapsulates the call log overlay state
type StatsState struct {
	mu sync.RWMutex

	// Manager for database operations; nil when the call log is disabled
	manager *analytics.Manager

	stats []analytics.Stats
	index int
}

// NewStatsState creates a new call log state
func NewStatsState(manager *analytics.Manager) *StatsState {
	return &StatsState{
		manager: manager,
		stats:   []analytics.Stats{},
	}
}

// GetManager returns the analytics manager
func (s *StatsState) GetManager() *analytics.Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manager
}

// GetStats returns a copy of the stats slice
func (s *StatsState) GetStats() []analytics.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]analytics.Stats, len(s.stats))
	copy(result, s.stats)
	return result
}

// SetStats sets the stats slice and clamps the index
func (s *StatsState) SetStats(stats []analytics.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	s.index = clamp(s.index, len(stats))
}

// GetIndex returns the current index
func (s *StatsState) GetIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// SetIndex sets the current index
func (s *StatsState) SetIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = clamp(index, len(s.stats))
}

// Move moves the index by delta, clamped to the stats
func (s *StatsState) Move(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = clamp(s.index+delta, len(s.stats))
}

// GetCurrentStats returns the selected entry, nil when empty
func (s *StatsState) GetCurrentStats() *analytics.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.stats) == 0 {
		return nil
	}
	stat := s.stats[s.index]
	return &stat
}
