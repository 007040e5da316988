package rwsync

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/kolkov/lockprobe/rwprobe"
)

// Mutex is an instrumented exclusive mutex.
//
// All acquisitions report through the write-side wait pair, since an
// exclusive mutex has no read mode. Implements sync.Locker.
type Mutex struct {
	inner sync.Mutex
	probe *rwprobe.Lock
}

// NewMutex returns a Mutex instrumented under the given registered key.
func NewMutex(key rwprobe.Key) *Mutex {
	m := &Mutex{}
	m.probe = rwprobe.CreateLock(key, uintptr(unsafe.Pointer(m)))
	return m
}

// Destroy releases the instrumentation handle.
func (m *Mutex) Destroy() {
	rwprobe.DestroyLock(m.probe)
	m.probe = nil
}

// Lock acquires the mutex, reporting the wait.
func (m *Mutex) Lock() {
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

// TryLock attempts the mutex without blocking; failures are reported as
// non-granted waits.
func (m *Mutex) TryLock() bool {
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

// Unlock releases the mutex and reports the release.
func (m *Mutex) Unlock() {
	m.inner.Unlock()
	rwprobe.Unlock(m.probe)
}
