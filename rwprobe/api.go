// Package rwprobe provides the public API for rwlock wait instrumentation.
//
// See doc.go for the protocol documentation and examples.
package rwprobe

import internal "github.com/kolkov/lockprobe/internal/probe/api"

// Re-exported probe types. The implementation lives in internal/probe/api;
// these aliases are the only names callers need.
type (
	// Key identifies one registered rwlock class; zero disables.
	Key = internal.Key

	// LockInfo is the registration descriptor consumed by Register.
	LockInfo = internal.LockInfo

	// Lock is the per-instance instrumentation handle.
	Lock = internal.Lock

	// LockerState is caller-owned scratch storage for one wait.
	LockerState = internal.LockerState

	// Locker correlates one wait's start and end reports.
	Locker = internal.Locker

	// Operation classifies the acquisition mode of a wait.
	Operation = internal.Operation

	// WaitClass separates read-side from write-side reporting.
	WaitClass = internal.WaitClass

	// Observation is one completed wait, delivered to the Sink.
	Observation = internal.Observation

	// Sink is the aggregation collaborator bound via Bind.
	Sink = internal.Sink

	// TimerFunc is the injected monotonic timestamp source.
	TimerFunc = internal.TimerFunc
)

// KeyDisabled is the zero key: instrumentation off.
const KeyDisabled = internal.KeyDisabled

// FlagSingleton marks a single-instance lock class at registration time.
const FlagSingleton = internal.FlagSingleton

// Acquisition modes.
const (
	OpReadLock               = internal.OpReadLock
	OpWriteLock              = internal.OpWriteLock
	OpTryReadLock            = internal.OpTryReadLock
	OpTryWriteLock           = internal.OpTryWriteLock
	OpSharedLock             = internal.OpSharedLock
	OpSharedExclusiveLock    = internal.OpSharedExclusiveLock
	OpExclusiveLock          = internal.OpExclusiveLock
	OpTrySharedLock          = internal.OpTrySharedLock
	OpTrySharedExclusiveLock = internal.OpTrySharedExclusiveLock
	OpTryExclusiveLock       = internal.OpTryExclusiveLock
)

// Wait classes.
const (
	WaitRead  = internal.WaitRead
	WaitWrite = internal.WaitWrite
)

// Register assigns a process-wide key to every descriptor in info.
//
// Keys are stable per (category, name) pair within a process run
// (first-wins on duplicates). While the facility is unbound, key slots are
// left at KeyDisabled. Safe for concurrent callers.
func Register(category string, info []LockInfo) {
	internal.Register(category, info)
}

// CreateLock creates the instrumentation handle for one lock instance,
// identified by the registered key and the real lock's address. Returns
// nil (cheaply, O(1)) for a disabled key or unbound facility.
func CreateLock(key Key, identity uintptr) *Lock {
	return internal.CreateLock(key, identity)
}

// DestroyLock releases a handle. Nil-safe; a non-nil handle must be
// destroyed exactly once, alongside the real lock's destruction.
func DestroyLock(lock *Lock) {
	internal.DestroyLock(lock)
}

// StartReadWait opens a read-side wait on lock, recording into the
// caller-owned state. Returns nil when the lock is uninstrumented or the
// facility is disabled; the caller must then skip the end call.
func StartReadWait(state *LockerState, lock *Lock, op Operation, file string, line int) *Locker {
	return internal.StartReadWait(state, lock, op, file, line)
}

// EndReadWait closes a read-side wait. locker must be the exact value the
// matching StartReadWait returned, on the same goroutine. rc zero
// classifies the observation as granted.
func EndReadWait(locker *Locker, rc int) {
	internal.EndReadWait(locker, rc)
}

// StartWriteWait opens a write-side wait. Same contract as StartReadWait;
// distinct pair so shared and exclusive wait time never mix.
func StartWriteWait(state *LockerState, lock *Lock, op Operation, file string, line int) *Locker {
	return internal.StartWriteWait(state, lock, op, file, line)
}

// EndWriteWait closes a write-side wait. Same contract as EndReadWait.
func EndWriteWait(locker *Locker, rc int) {
	internal.EndWriteWait(locker, rc)
}

// Unlock reports a release of the instrumented lock. No Locker involved;
// nil-safe.
func Unlock(lock *Lock) {
	internal.Unlock(lock)
}

// TrackReadWait brackets wait with a read-side start/end pair, owning the
// LockerState and guaranteeing the end call on every exit path, panics
// included (an abandoned wait is closed as non-granted). wait performs
// the real acquisition and returns its return code, zero for granted.
func TrackReadWait(lock *Lock, op Operation, file string, line int, wait func() int) {
	internal.TrackReadWait(lock, op, file, line, wait)
}

// TrackWriteWait brackets wait with a write-side start/end pair. Same
// contract as TrackReadWait.
func TrackWriteWait(lock *Lock, op Operation, file string, line int, wait func() int) {
	internal.TrackWriteWait(lock, op, file, line, wait)
}

// SetTimer replaces the timer source captured by subsequent start calls.
// Nil restores the default monotonic nanosecond timer.
func SetTimer(fn TimerFunc) {
	internal.SetTimer(fn)
}
