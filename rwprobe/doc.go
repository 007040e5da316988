/*
Package rwprobe is the public API for the lockprobe rwlock wait
instrumentation facade.

lockprobe lets lock-implementing code measure and classify contention on
reader/writer locks without knowing how measurements are stored, aggregated
or reported. The locking code reports wait events through this package; a
pluggable Sink, bound once at process start, receives the completed
observations. When no sink is bound, every operation degrades to a true
no-op costing a single comparison.

# Protocol

A lock class is registered once to obtain a Key, a handle is created per
lock instance, and every acquisition is bracketed by a start/end pair:

	// At startup (after Bind):
	var key rwprobe.Key
	rwprobe.Register("cache", []rwprobe.LockInfo{
		{Key: &key, Name: "shard", Documentation: "per-shard table lock"},
	})

	// Alongside the real lock's creation:
	handle := rwprobe.CreateLock(key, uintptr(unsafe.Pointer(&mu)))

	// On every write acquisition:
	var state rwprobe.LockerState
	locker := rwprobe.StartWriteWait(&state, handle, rwprobe.OpWriteLock, file, line)
	mu.Lock() // the real wait
	if locker != nil {
		rwprobe.EndWriteWait(locker, 0)
	}

	// On release:
	mu.Unlock()
	rwprobe.Unlock(handle)

	// Alongside the real lock's destruction:
	rwprobe.DestroyLock(handle)

A nil result from CreateLock or a start call means "uninstrumented": the
caller passes nil handles straight back in (they short-circuit) and must
skip the end call for a nil locker. LockerState is caller-owned scratch
storage, typically a stack variable; the probe never allocates on the wait
path.

# Hot-path contract

Every function here runs inline on the locking goroutine, completes in
small bounded time, never blocks, never panics in production builds, and
never surfaces an error to the instrumented code. A wait abandoned by the
caller must still be closed with an end call carrying a nonzero return
code. Start/end pairs are per-goroutine: a Locker must not cross
goroutines.

Protocol misuse (double end, end without start, use after destroy) is
undefined; build with -tags=probedebug to turn it into immediate panics
during development.

# Read vs write waits

Read-side and write-side waits are reported through distinct call pairs
and never conflated: N StartReadWait/EndReadWait pairs on a handle produce
exactly N read-class observations and no write-class ones.

For drop-in instrumented mutexes built on this package, see the rwsync
package. For an instrumentation coverage report over a module's source,
see cmd/lockprobe.
*/
package rwprobe
