package server

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pable/go-cricket-metrics/internal/metrics"
	"github.com/pable/go-cricket-metrics/internal/query"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

// snapshot pairs a store with the alias extractor built from its roster and
// the time both were built. The extractor is a pure function of the roster,
// so it is rebuilt only when the store is.
type snapshot struct {
	store     *metrics.Store
	extractor *query.Extractor
	builtAt   time.Time
}

// StoreCache serves a read-only store snapshot and rebuilds it from storage
// when the TTL lapses. The snapshot is swapped whole, so a query holding the
// old one keeps a consistent view; staleness is bounded by the TTL and is
// tolerated.
type StoreCache struct {
	db  *storage.DB
	ttl time.Duration
	log *slog.Logger

	cur atomic.Pointer[snapshot]
	mu  sync.Mutex // serializes rebuilds
}

func NewStoreCache(db *storage.DB, ttl time.Duration, log *slog.Logger) *StoreCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &StoreCache{db: db, ttl: ttl, log: log}
}

// Get returns the current snapshot, rebuilding first if it is missing or
// expired. Concurrent callers during a rebuild either take the rebuild lock
// in turn (and see the fresh pointer on re-check) or keep using the old
// snapshot they already loaded.
func (c *StoreCache) Get() (*metrics.Store, *query.Extractor, error) {
	if s := c.cur.Load(); s != nil && time.Since(s.builtAt) < c.ttl {
		storeAgeSeconds.Set(time.Since(s.builtAt).Seconds())
		return s.store, s.extractor, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.cur.Load(); s != nil && time.Since(s.builtAt) < c.ttl {
		return s.store, s.extractor, nil
	}

	store, err := c.db.LoadStore()
	if err != nil {
		// Keep serving the stale snapshot if one exists.
		if s := c.cur.Load(); s != nil {
			c.log.Warn("store rebuild failed, serving stale snapshot", "err", err)
			return s.store, s.extractor, nil
		}
		return nil, nil, err
	}

	c.cur.Store(&snapshot{
		store:     store,
		extractor: query.NewExtractor(store.Players()),
		builtAt:   time.Now(),
	})
	storeRebuildsTotal.Inc()
	storeAgeSeconds.Set(0)
	c.log.Info("store rebuilt", "players", len(store.Players()), "entries", len(store.Entries()))
	s := c.cur.Load()
	return s.store, s.extractor, nil
}

// Invalidate drops the snapshot so the next Get rebuilds.
func (c *StoreCache) Invalidate() {
	c.cur.Store(nil)
}
