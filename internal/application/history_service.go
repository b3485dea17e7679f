package application

import (
	"fmt"
	"time"

	"github.com/archguard/archguard/internal/domain"
)

// HistoryService records condensed runs and reads them back.
type HistoryService struct {
	history domain.RunHistory
	now     func() time.Time
}

func NewHistoryService(history domain.RunHistory) *HistoryService {
	return &HistoryService{history: history, now: time.Now}
}

// WithClock replaces the clock used to stamp entries.
func (s *HistoryService) WithClock(now func() time.Time) *HistoryService {
	s.now = now
	return s
}

// Record appends result to the history of the project containing target.
func (s *HistoryService) Record(target string, result *domain.RunResult) (domain.RunEntry, error) {
	entry := domain.EntryFor(result, s.now().UTC().Format(time.RFC3339))
	root, err := FindProjectRoot(target)
	if err != nil {
		return entry, err
	}
	if err := s.history.Append(root, entry); err != nil {
		return entry, fmt.Errorf("recording run: %w", err)
	}
	return entry, nil
}

// List returns the recorded runs of the project containing target, oldest first.
func (s *HistoryService) List(target string) ([]domain.RunEntry, error) {
	root, err := FindProjectRoot(target)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}
