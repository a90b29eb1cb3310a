package stripe

import (
	"sync"
)

// LockManager manages per-campaign locks to serialise webhook processing for
// the same campaign while allowing parallel processing for different ones.
type LockManager struct {
	locks sync.Map // map[string]*sync.Mutex
}

// NewLockManager creates a new lock manager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// Lock acquires the lock of the given key and returns the function that
// releases it.
func (lm *LockManager) Lock(key string) func() {
	lockInterface, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	lock, ok := lockInterface.(*sync.Mutex)
	if !ok {
		panic("unexpected type in lock manager")
	}
	lock.Lock()
	return lock.Unlock
}

// CleanupLocks removes the locks that are not held right now.
func (lm *LockManager) CleanupLocks() {
	lm.locks.Range(func(key, value any) bool {
		lock, ok := value.(*sync.Mutex)
		if !ok {
			return true
		}
		if lock.TryLock() {
			lm.locks.Delete(key)
			lock.Unlock()
		}
		return true
	})
}
