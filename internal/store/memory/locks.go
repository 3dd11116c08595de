package memory

import (
	"context"
	"time"
)

// Locks mirrors the redis SETNX lock with expiry.
type Locks struct {
	s *Store
}

func (l *Locks) AcquireLock(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	now := time.Now()
	if held, ok := l.s.locks[key]; ok && now.Before(held.expires) {
		return false, nil
	}
	l.s.locks[key] = lockEntry{value: value, expires: now.Add(ttl)}
	return true, nil
}

func (l *Locks) ReleaseLock(_ context.Context, key, value string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if held, ok := l.s.locks[key]; ok && held.value == value {
		delete(l.s.locks, key)
	}
	return nil
}
