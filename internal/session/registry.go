package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Registry owns every live Store in memory. Nothing is persisted: a restart
// leaves every client signed out.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	store    *Store
	lastSeen time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Create files a new empty store under a fresh random id.
func (r *Registry) Create() *Store {
	store := newStoreWithID(uuid.NewString())

	r.mu.Lock()
	r.entries[store.id] = &entry{store: store, lastSeen: r.now()}
	r.mu.Unlock()
	return store
}

// Get looks up a store and marks it as seen.
func (r *Registry) Get(id string) (*Store, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.store, true
}

func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops stores not seen within idle and reports how many were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle stores every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration, logger *logrus.Logger) {
	if interval <= 0 || idle <= 0 {
		return
	}
	if logger == nil {
		logger = logrus.New()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				logger.Infof("expired %d idle sessions", n)
			}
		}
	}
}
