package storage

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/talentscout/talentscout/internal/candidate"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testRecord(name, email, phone string) candidate.Record {
	return candidate.Record{
		Name:       name,
		Email:      email,
		Phone:      phone,
		Location:   "Berlin",
		Position:   "Backend Engineer",
		Experience: 4,
		TechStack:  "Go, PostgreSQL",
		Questions:  "1. What is a goroutine?",
	}
}

func newTestStore(t *testing.T, clock Clock) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "candidates.json")
	return New(path, Options{Clock: clock, SerializeWrites: true})
}
