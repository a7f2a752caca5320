package store

import "time"

// SetNow overrides the store clock in tests.
func SetNow(s *TasksStore, now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
