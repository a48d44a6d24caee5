// Package idempotency tracks client supplied Idempotency-Key values so a
// retried create request is not stored twice.
package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State of a key.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
)

var (
	ErrInFlight = errors.New("idempotency key is already being processed")
	// ErrKeyReused is returned when a key comes back with a different request.
	ErrKeyReused = errors.New("idempotency key was already used for a different request")
)

// Record is what a key holds. Fingerprint identifies the request that
// claimed it; Ref is set once the request completed.
type Record struct {
	State       State
	Fingerprint string
	Ref         string
}

// Matches reports whether fingerprint belongs to the request that claimed r.
func (r Record) Matches(fingerprint string) bool {
	return r.Fingerprint == fingerprint
}

// Store claims, completes and releases keys. Claim returns the existing
// record when the key was already claimed.
type Store interface {
	Claim(ctx context.Context, key, fingerprint string) (claimed bool, existing Record, err error)
	Complete(ctx context.Context, key, fingerprint, ref string) error
	Release(ctx context.Context, key string) error
	Lookup(ctx context.Context, key string) (Record, bool, error)
}

type memoryEntry struct {
	record  Record
	expires time.Time
}

// MemoryStore is a process local Store used when Redis is not configured.
// Expired entries are swept on Claim at most once per TTL.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	m         map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{ttl: ttl, now: time.Now, m: map[string]memoryEntry{}}
}

// Len counts stored keys, expired ones included until the next sweep.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *MemoryStore) get(key string) (memoryEntry, bool) {
	e, ok := s.m[key]
	if !ok {
		return memoryEntry{}, false
	}
	if s.now().After(e.expires) {
		delete(s.m, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (s *MemoryStore) sweep() {
	now := s.now()
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for k, e := range s.m {
		if now.After(e.expires) {
			delete(s.m, k)
		}
	}
}

func (s *MemoryStore) Claim(_ context.Context, key, fingerprint string) (bool, Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	if e, ok := s.get(key); ok {
		return false, e.record, nil
	}
	rec := Record{State: StatePending, Fingerprint: fingerprint}
	s.m[key] = memoryEntry{record: rec, expires: s.now().Add(s.ttl)}
	return true, rec, nil
}

func (s *MemoryStore) Complete(_ context.Context, key, fingerprint, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = memoryEntry{
		record:  Record{State: StateCompleted, Fingerprint: fingerprint, Ref: ref},
		expires: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, key string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(key)
	return e.record, ok, nil
}
