// Package api implements the rwlock wait instrumentation engine.
//
// This package sits on the lock/unlock path of every instrumented
// reader/writer lock in the host program, making every exported function
// here a CRITICAL HOT PATH. The contract is strict:
//
//   - No blocking, no suspension points: calls complete in small bounded
//     time because the caller may already hold other locks.
//   - No heap allocation on the wait path: the Locker returned by a start
//     call points into the caller-owned LockerState.
//   - No panics, no error returns: every failure mode (facility disabled,
//     unknown key, missing sink) degrades to "return nil / do nothing".
//     The instrumented program's correctness never depends on the probe.
//
// Disabled cost: a nil lock handle short-circuits on a single pointer
// comparison; an unbound facility on a single atomic load. Misuse of the
// protocol (double end, end without start, use after destroy) is undefined
// and checked only by probedebug builds, never in production.
//
// The public wrappers live in the rwprobe package; this package is the
// implementation they delegate to.
package api

import (
	"github.com/kolkov/lockprobe/internal/probe/registry"
)

// reg is the process-wide key registry. Registration happens at startup,
// never on the wait path.
var reg = registry.New()

// Register assigns process-wide keys to the descriptors in info.
//
// While the facility is unbound (globally off) every key slot is left at
// the disabled sentinel, so all downstream handle creation cheaply returns
// nil. Safe for concurrent callers; internally serialized by the registry.
//
// Duplicate (category, name) pairs resolve first-wins to the key minted by
// the earliest registration in this process run.
func Register(category string, info []LockInfo) {
	if !enabled.Load() {
		return
	}
	reg.Register(category, info)
}

// LookupKey resolves a registered (category, name) pair. Tooling/testing
// helper, not part of the wait protocol.
func LookupKey(category, name string) (Key, bool) {
	return reg.LookupKey(category, name)
}

// CreateLock creates the instrumentation handle for one lock instance.
//
// key is the registered key of the lock's class; identity is the address
// of the real lock (or any stable per-instance value). Returns nil when
// the key is the disabled sentinel, the facility is off, or the key was
// never registered. The nil result is the explicit "uninstrumented"
// value: callers pass it straight into the start calls, which treat it as
// a single-comparison no-op.
//
// O(1) apart from the handle allocation itself; must be called alongside
// the real lock's creation, never per wait.
func CreateLock(key Key, identity uintptr) *Lock {
	if key == KeyDisabled || !enabled.Load() {
		return nil
	}
	name, ok := reg.LookupName(key)
	if !ok {
		return nil
	}
	return &Lock{key: key, identity: identity, name: name}
}

// DestroyLock releases the handle created by CreateLock.
//
// Safe to call with nil (no-op). Must be called exactly once per non-nil
// handle, synchronously with the real lock's destruction; using a handle
// after DestroyLock is undefined, mirroring the real lock's own
// single-destruction contract. probedebug builds panic on reuse.
func DestroyLock(lk *Lock) {
	if lk == nil {
		return
	}
	debugAssertLive(lk, "DestroyLock")
	lk.destroyed = true
}

// StartReadWait records the start of a read-side wait.
//
// state must point to caller-owned storage that stays valid until the
// matching EndReadWait returns. lk may be nil (uninstrumented lock), in
// which case nil is returned and the caller must skip the end call.
//
// This call brackets the real wait, it does not itself wait: the caller
// performs the actual acquisition between start and end.
//
//go:nosplit
func StartReadWait(state *LockerState, lk *Lock, op Operation, file string, line int) *Locker {
	return startWait(state, lk, op, WaitRead, file, line)
}

// EndReadWait records the end of a read-side wait.
//
// locker must be the exact non-nil value returned by the matching
// StartReadWait, not yet ended, on the same goroutine. rc is the wait's
// return code: zero classifies the observation as granted.
//
//go:nosplit
func EndReadWait(locker *Locker, rc int) {
	endWait(locker, WaitRead, rc)
}

// StartWriteWait records the start of a write-side wait. Same contract as
// StartReadWait; kept as a distinct pair so shared and exclusive wait time
// are never conflated at the reporting layer.
//
//go:nosplit
func StartWriteWait(state *LockerState, lk *Lock, op Operation, file string, line int) *Locker {
	return startWait(state, lk, op, WaitWrite, file, line)
}

// EndWriteWait records the end of a write-side wait. Same contract as
// EndReadWait.
//
//go:nosplit
func EndWriteWait(locker *Locker, rc int) {
	endWait(locker, WaitWrite, rc)
}

// Unlock records a release notification for an instrumented lock.
//
// Direct notification, no Locker involved: unlock events are counted and
// attributed independently of any wait. Safe to call with nil (no-op).
//
//go:nosplit
func Unlock(lk *Lock) {
	if lk == nil {
		return
	}
	if !enabled.Load() {
		return
	}
	debugAssertLive(lk, "Unlock")
	if s := loadSink(); s != nil {
		s.LockUnlocked(lk.key, lk.identity)
	}
}

// startWait populates the caller's state and opens the wait.
//
// Flow:
//  1. nil handle or disabled facility: return nil (fast path, one
//     comparison / one atomic load, no state touched).
//  2. Populate state in place: operation, class, handle, goroutine id,
//     timer source and start timestamp, source location.
//  3. Return the Locker embedded in state. Zero heap allocations: the
//     returned pointer aliases the caller's storage.
func startWait(state *LockerState, lk *Lock, op Operation, class WaitClass, file string, line int) *Locker {
	if lk == nil {
		return nil
	}
	if !enabled.Load() {
		return nil
	}
	debugAssertLive(lk, "startWait")

	l := &state.locker
	debugAssertReusable(l)

	t := loadTimer()
	l.flags = flagStarted
	l.op = op
	l.class = class
	l.lock = lk
	l.gid = getGoroutineID()
	l.timer = t
	l.timerStart = t()
	l.file = file
	l.line = line
	l.wait = nil
	return l
}

// endWait closes the wait and emits exactly one observation.
//
// Flow:
//  1. Read "now" from the timer source captured at start time and compute
//     the elapsed wait, clamped non-negative (a well-behaved timer never
//     goes backwards, but the observation must not either way).
//  2. Classify rc: zero means the lock was granted.
//  3. Hand the observation to the bound sink, if one is still bound.
//
// The locker becomes invalid for further use: STARTED -> ENDED.
func endWait(l *Locker, class WaitClass, rc int) {
	debugAssertStarted(l, class)

	now := l.timer()
	var elapsed uint64
	if now > l.timerStart {
		elapsed = now - l.timerStart
	}
	l.flags |= flagEnded

	s := loadSink()
	if s == nil {
		return
	}
	s.WaitEnded(Observation{
		Key:      l.lock.key,
		Identity: l.lock.identity,
		Name:     l.lock.name,
		Op:       l.op,
		Class:    class,
		Elapsed:  elapsed,
		Granted:  rc == 0,
		File:     l.file,
		Line:     l.line,
		GID:      l.gid,
	})
}
