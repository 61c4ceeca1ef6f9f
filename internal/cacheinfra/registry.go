package cacheinfra

import (
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

const defaultSweepEvery = 1024

// keyRegistry remembers which cache keys belong to which namespace so a write
// can evict exactly the entries it affects. Entries carry their expiry and are
// swept once every sweepEvery registrations.
type keyRegistry struct {
	namespaces *xsync.MapOf[string, *namespaceKeys]
	sweepEvery int64
}

type namespaceKeys struct {
	keys   *xsync.MapOf[string, time.Time]
	tracks atomic.Int64
}

func newNamespaceKeys() *namespaceKeys {
	return &namespaceKeys{keys: xsync.NewMapOf[string, time.Time]()}
}

func newKeyRegistry(sweepEvery int64) *keyRegistry {
	if sweepEvery <= 0 {
		sweepEvery = defaultSweepEvery
	}
	return &keyRegistry{
		namespaces: xsync.NewMapOf[string, *namespaceKeys](),
		sweepEvery: sweepEvery,
	}
}

func (r *keyRegistry) track(namespace, key string, expiresAt, now time.Time) {
	ns, _ := r.namespaces.LoadOrCompute(namespace, newNamespaceKeys)
	ns.keys.Store(key, expiresAt)
	if ns.tracks.Add(1)%r.sweepEvery == 0 {
		ns.sweep(now)
	}
}

// drain removes and returns every key registered for namespace.
func (r *keyRegistry) drain(namespace string) []string {
	ns, ok := r.namespaces.Load(namespace)
	if !ok {
		return nil
	}

	keys := make([]string, 0, ns.keys.Size())
	ns.keys.Range(func(key string, _ time.Time) bool {
		keys = append(keys, key)
		return true
	})

	drained := keys[:0]
	for _, key := range keys {
		if _, loaded := ns.keys.LoadAndDelete(key); loaded {
			drained = append(drained, key)
		}
	}
	return drained
}

func (r *keyRegistry) size(namespace string) int {
	ns, ok := r.namespaces.Load(namespace)
	if !ok {
		return 0
	}
	return ns.keys.Size()
}

func (r *keyRegistry) clear() {
	r.namespaces.Clear()
}

// sweep drops registrations whose entry already expired. Compute keeps a key
// that was re-tracked with a later expiry while the sweep was running.
func (ns *namespaceKeys) sweep(now time.Time) {
	ns.keys.Range(func(key string, expiresAt time.Time) bool {
		if !now.Before(expiresAt) {
			ns.keys.Compute(key, func(current time.Time, loaded bool) (time.Time, bool) {
				return current, !loaded || !now.Before(current)
			})
		}
		return true
	})
}
