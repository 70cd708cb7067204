// Package shared holds cross-cutting helpers used by the ledger
// services: period parsing and per-key write serialisation.
package shared

import (
	"fmt"
	"sync"
)

// LedgerLockKey builds the critical-section key for a company period.
func LedgerLockKey(companyID, periodID string) string {
	return fmt.Sprintf("ledger:%s:%s:lock", companyID, periodID)
}

// KeyedMutex serialises work per string key. The ledger core is pure;
// this provides the single-writer discipline around load-merge-persist
// for a given company period.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex constructs an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the mutex for key and returns its release function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
