/*
Package presence contains the relay's core: the Registry of connected
participants, the Router that turns client events into Registry mutations and
broadcasts, and the event names and payloads both sides agree on.

This file defines the Registry, the single source of truth for who is present.
*/
package presence

import (
	"sync"
	"time"

	"github.com/samber/lo"

	"georelay/internal/app/participant"
)

// Registry maps connection identifiers to participant records.
// One mutex guards the whole map; every operation holds it for a short,
// allocation-light critical section and never calls out while locked.
type Registry struct {
	mu      sync.RWMutex
	records map[string]participant.Participant
	now     func() time.Time
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithClock replaces time.Now as the source of UpdatedAt.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		records: make(map[string]participant.Participant),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Upsert inserts the default record for connID if it is absent, applies mutate
// to it (mutate may be nil) and refreshes UpdatedAt. The whole read-modify-write
// runs under the lock. It returns a copy of the stored record.
func (r *Registry) Upsert(connID string, mutate func(p *participant.Participant)) participant.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	record, ok := r.records[connID]
	if !ok {
		record = participant.New(connID, now)
	}

	if mutate != nil {
		mutate(&record)
	}

	record.ConnectionID = connID
	record.UpdatedAt = now
	r.records[connID] = record

	return record.Clone()
}

// Remove deletes the record for connID and returns it. Removing an absent
// identifier is a no-op that returns false.
func (r *Registry) Remove(connID string) (participant.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[connID]
	if !ok {
		return participant.Participant{}, false
	}

	delete(r.records, connID)
	return record, true
}

// Get returns a copy of the record for connID.
func (r *Registry) Get(connID string) (participant.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[connID]
	if !ok {
		return participant.Participant{}, false
	}

	return record.Clone(), true
}

// SnapshotOthers returns every record except excludeID's. Order is unspecified.
func (r *Registry) SnapshotOthers(excludeID string) []participant.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	others := lo.Filter(lo.Values(r.records), func(p participant.Participant, _ int) bool {
		return p.ConnectionID != excludeID
	})

	return lo.Map(others, func(p participant.Participant, _ int) participant.Participant {
		return p.Clone()
	})
}

// ListSummaries returns the monitoring projection of every record.
func (r *Registry) ListSummaries() []participant.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(lo.Values(r.records), func(p participant.Participant, _ int) participant.Summary {
		return p.Summary()
	})
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}
