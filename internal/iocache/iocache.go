// Package iocache is for caching I/O calls.
package iocache

import (
	"sync"

	"github.com/huangsam/gitpulse/internal/contract"
)

// CacheStoreManager manages the CacheStore instances used by analyzers.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	activity     contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetActivityStore returns the activity CacheStore, or nil before InitStores.
func (mgr *CacheStoreManager) GetActivityStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.activity
}
