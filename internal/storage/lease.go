package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLeaseHold is how long a lease suppresses a second save for the
	// same identity key.
	DefaultLeaseHold = 10 * time.Second
	// DefaultLeaseExpiry is the age after which a lease is purged even if
	// its holder never released it.
	DefaultLeaseExpiry = 30 * time.Second
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Lease is held by one in-flight save.
type Lease struct {
	Key   string
	Token string
	Start time.Time
}

// LeaseRegistry tracks in-flight saves per identity key. The mutex guards
// only the map; callers never hold it across I/O.
type LeaseRegistry struct {
	clock  Clock
	hold   time.Duration
	expiry time.Duration

	mu     sync.Mutex
	leases map[string]Lease
}

// NewLeaseRegistry creates a registry with the default hold and expiry.
func NewLeaseRegistry() *LeaseRegistry {
	return NewLeaseRegistryWithClock(realClock{}, DefaultLeaseHold, DefaultLeaseExpiry)
}

// NewLeaseRegistryWithClock creates a registry with a custom clock and
// durations (for testing).
func NewLeaseRegistryWithClock(clock Clock, hold, expiry time.Duration) *LeaseRegistry {
	return &LeaseRegistry{
		clock:  clock,
		hold:   hold,
		expiry: expiry,
		leases: make(map[string]Lease),
	}
}

// Acquire takes a lease for key. ok is false when another save for the same
// key started less than the hold duration ago.
func (r *LeaseRegistry) Acquire(key string) (lease Lease, ok bool) {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for k, l := range r.leases {
		if now.Sub(l.Start) > r.expiry {
			delete(r.leases, k)
		}
	}

	if held, exists := r.leases[key]; exists && now.Sub(held.Start) < r.hold {
		return Lease{}, false
	}

	lease = Lease{Key: key, Token: uuid.NewString(), Start: now}
	r.leases[key] = lease
	return lease, true
}

// Release drops the lease if it is still the one recorded for its key. A
// lease that expired and was taken over by another save is left alone.
func (r *LeaseRegistry) Release(lease Lease) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.leases[lease.Key]; ok && cur.Token == lease.Token {
		delete(r.leases, lease.Key)
	}
}

// Len returns the number of leases currently recorded.
func (r *LeaseRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.leases)
}
