package service

import (
	"context"
	"log"
	"time"
)

// AutoCompleteStore is the storage surface of the auto-complete sweep.
type AutoCompleteStore interface {
	AutoCompletePastDue(ctx context.Context, now time.Time) (int64, error)
}

// AutoCompleteService closes past-due tasks automatically instead of
// letting them go stale. It is a collaborator of the reminder engine, not
// part of it: when enabled it runs on the same cron and competes for the
// same pending tasks the archiver would otherwise pick up.
type AutoCompleteService struct {
	tasks AutoCompleteStore
}

func NewAutoCompleteService(tasks AutoCompleteStore) *AutoCompleteService {
	return &AutoCompleteService{tasks: tasks}
}

// Run marks pending, non-recurring tasks due at or before now as completed
// and flags them as auto-completed. Returns the number of tasks changed.
func (s *AutoCompleteService) Run(ctx context.Context, now time.Time) (int64, error) {
	changed, err := s.tasks.AutoCompletePastDue(ctx, now.UTC())
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		log.Printf("[info] auto-completed %d past-due tasks", changed)
	}
	return changed, nil
}
