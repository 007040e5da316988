// Package rwsync provides drop-in sync.RWMutex and sync.Mutex replacements
// instrumented through the rwprobe facade.
//
// The wrappers bracket every acquisition with the rwprobe start/end wait
// protocol and report releases, so a bound sink sees per-instance
// contention for free. When the wrapper's key is uninstrumented (or no
// sink is bound) every method is a plain passthrough to the inner lock.
package rwsync

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/kolkov/lockprobe/rwprobe"
)

// RWMutex is an instrumented reader/writer mutex.
//
// Create instances with New; the zero value is a valid uninstrumented
// mutex. RWMutex implements sync.Locker.
type RWMutex struct {
	inner sync.RWMutex // the real lock
	probe *rwprobe.Lock
}

// New returns an RWMutex instrumented under the given registered key.
//
// The wrapper's own address is the handle identity, so every instance is
// individually attributable. With KeyDisabled (or an unbound facility) the
// returned mutex is a pure passthrough.
func New(key rwprobe.Key) *RWMutex {
	m := &RWMutex{}
	m.probe = rwprobe.CreateLock(key, uintptr(unsafe.Pointer(m)))
	return m
}

// Destroy releases the instrumentation handle. Call it when the mutex
// goes out of service; the mutex itself remains usable, uninstrumented.
// Nil-safe and idempotent at this level.
func (m *RWMutex) Destroy() {
	rwprobe.DestroyLock(m.probe)
	m.probe = nil
}

// Lock acquires the write lock, reporting the wait.
func (m *RWMutex) Lock() {
	if m.probe == nil || !rwprobe.Enabled() {
		m.inner.Lock()
		return
	}
	_, file, line, _ := runtime.Caller(1)
	var state rwprobe.LockerState
	locker := rwprobe.StartWriteWait(&state, m.probe, rwprobe.OpWriteLock, file, line)
	m.inner.Lock()
	if locker != nil {
		rwprobe.EndWriteWait(locker, 0)
	}
}

// TryLock attempts the write lock without blocking. A failed attempt is
// reported as a non-granted write wait.
func (m *RWMutex) TryLock() bool {
	if m.probe == nil || !rwprobe.Enabled() {
		return m.inner.TryLock()
	}
	_, file, line, _ := runtime.Caller(1)
	var state rwprobe.LockerState
	locker := rwprobe.StartWriteWait(&state, m.probe, rwprobe.OpTryWriteLock, file, line)
	ok := m.inner.TryLock()
	if locker != nil {
		rwprobe.EndWriteWait(locker, tryRC(ok))
	}
	return ok
}

// Unlock releases the write lock and reports the release.
func (m *RWMutex) Unlock() {
	m.inner.Unlock()
	rwprobe.Unlock(m.probe)
}

// RLock acquires the read lock, reporting the wait.
func (m *RWMutex) RLock() {
	if m.probe == nil || !rwprobe.Enabled() {
		m.inner.RLock()
		return
	}
	_, file, line, _ := runtime.Caller(1)
	var state rwprobe.LockerState
	locker := rwprobe.StartReadWait(&state, m.probe, rwprobe.OpReadLock, file, line)
	m.inner.RLock()
	if locker != nil {
		rwprobe.EndReadWait(locker, 0)
	}
}

// TryRLock attempts the read lock without blocking. A failed attempt is
// reported as a non-granted read wait.
func (m *RWMutex) TryRLock() bool {
	if m.probe == nil || !rwprobe.Enabled() {
		return m.inner.TryRLock()
	}
	_, file, line, _ := runtime.Caller(1)
	var state rwprobe.LockerState
	locker := rwprobe.StartReadWait(&state, m.probe, rwprobe.OpTryReadLock, file, line)
	ok := m.inner.TryRLock()
	if locker != nil {
		rwprobe.EndReadWait(locker, tryRC(ok))
	}
	return ok
}

// RUnlock releases the read lock and reports the release.
func (m *RWMutex) RUnlock() {
	m.inner.RUnlock()
	rwprobe.Unlock(m.probe)
}

// RLocker returns a sync.Locker that locks and unlocks the read side.
func (m *RWMutex) RLocker() sync.Locker {
	return rlocker{m}
}

type rlocker struct{ m *RWMutex }

func (r rlocker) Lock()   { r.m.RLock() }
func (r rlocker) Unlock() { r.m.RUnlock() }

// tryRC maps a try-lock outcome to a wait return code (0 = granted).
func tryRC(ok bool) int {
	if ok {
		return 0
	}
	return 1
}
