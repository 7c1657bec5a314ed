package usecase

import (
	"sync"
	"time"
)

// AnalysisState holds the completion time of the last batch run.
// It is shared between HTTP handlers and the scheduler.
type AnalysisState struct {
	mu          sync.RWMutex
	lastUpdated time.Time
}

func NewAnalysisState() *AnalysisState {
	return &AnalysisState{}
}

func (s *AnalysisState) MarkUpdated(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdated = at
}

// LastUpdated reports false until the first batch has finished
func (s *AnalysisState) LastUpdated() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated, !s.lastUpdated.IsZero()
}
