package token

import "time"

// SetNow pins the manager clock in tests.
func SetNow(m *Manager, now time.Time) {
	m.now = func() time.Time { return now }
}
