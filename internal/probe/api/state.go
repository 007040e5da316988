package api

import "github.com/kolkov/lockprobe/internal/probe/registry"

// Key re-exports the registry key type so callers of the probe API only
// deal with one package.
type Key = registry.Key

// KeyDisabled is the zero key: instrumentation off.
const KeyDisabled = registry.KeyDisabled

// FlagSingleton marks a single-instance lock class at registration time.
const FlagSingleton = registry.FlagSingleton

// LockInfo is the registration descriptor, see registry.LockInfo.
type LockInfo = registry.LockInfo

// Operation classifies the acquisition mode of one wait attempt.
//
// For basic reader/writer locks the operations are read/write and their
// non-blocking "try" variants. SX-capable locks additionally distinguish
// shared, shared-exclusive and exclusive modes. The operation carries no
// data beyond its tag; sinks use it purely for classification.
type Operation uint8

const (
	// OpReadLock is a blocking read (shared) acquisition.
	OpReadLock Operation = iota
	// OpWriteLock is a blocking write (exclusive) acquisition.
	OpWriteLock
	// OpTryReadLock is a non-blocking read acquisition attempt.
	OpTryReadLock
	// OpTryWriteLock is a non-blocking write acquisition attempt.
	OpTryWriteLock

	// OpSharedLock is a blocking S acquisition on an SX lock.
	OpSharedLock
	// OpSharedExclusiveLock is a blocking SX acquisition.
	OpSharedExclusiveLock
	// OpExclusiveLock is a blocking X acquisition on an SX lock.
	OpExclusiveLock
	// OpTrySharedLock is a non-blocking S attempt.
	OpTrySharedLock
	// OpTrySharedExclusiveLock is a non-blocking SX attempt.
	OpTrySharedExclusiveLock
	// OpTryExclusiveLock is a non-blocking X attempt.
	OpTryExclusiveLock
)

var operationNames = [...]string{
	OpReadLock:               "READLOCK",
	OpWriteLock:              "WRITELOCK",
	OpTryReadLock:            "TRYREADLOCK",
	OpTryWriteLock:           "TRYWRITELOCK",
	OpSharedLock:             "SHAREDLOCK",
	OpSharedExclusiveLock:    "SHAREDEXCLUSIVELOCK",
	OpExclusiveLock:          "EXCLUSIVELOCK",
	OpTrySharedLock:          "TRYSHAREDLOCK",
	OpTrySharedExclusiveLock: "TRYSHAREDEXCLUSIVELOCK",
	OpTryExclusiveLock:       "TRYEXCLUSIVELOCK",
}

// String returns the canonical upper-case operation name.
func (op Operation) String() string {
	if int(op) < len(operationNames) {
		return operationNames[op]
	}
	return "UNKNOWN"
}

// WaitClass separates read-side from write-side wait reporting.
//
// Shared and exclusive wait time must never be conflated at the reporting
// layer, so the start/end call pairs exist per class and every observation
// carries the class it was reported through.
type WaitClass uint8

const (
	// WaitRead is a read-side (shared) wait.
	WaitRead WaitClass = iota
	// WaitWrite is a write-side (exclusive) wait.
	WaitWrite
)

// String returns "read" or "write".
func (c WaitClass) String() string {
	if c == WaitRead {
		return "read"
	}
	return "write"
}

// TimerFunc is the injected timing collaborator: a zero-argument function
// returning a monotonically non-decreasing timestamp. The probe treats the
// unit as opaque; the default timer reports nanoseconds from a
// process-local origin.
type TimerFunc func() uint64

// Lock is the handle for one instrumented lock instance.
//
// Handles are created alongside the real lock via CreateLock and destroyed
// exactly once via DestroyLock, synchronously with the real lock's own
// destruction. A Lock is immutable after creation: the wait path reads it
// concurrently from many goroutines with no shared mutable state.
type Lock struct {
	key      Key
	identity uintptr
	name     string
	// destroyed is only inspected by probedebug builds; DestroyLock sets
	// it unconditionally because the store is free off the wait path.
	destroyed bool
}

// Key returns the registered key the handle was created with.
func (l *Lock) Key() Key { return l.key }

// Identity returns the address identity supplied at creation, typically
// the address of the real lock.
func (l *Lock) Identity() uintptr { return l.identity }

// Name returns the registered "category/name" of the lock class.
func (l *Lock) Name() string { return l.name }

// Locker state flag bits.
const (
	flagStarted uint32 = 1 << 0
	flagEnded   uint32 = 1 << 1
)

// Locker correlates the start and end reports of one wait attempt.
//
// A Locker is valid only between the start call that returned it and the
// matching end call, on the same goroutine. It is backed by the caller's
// LockerState storage; the probe never allocates it.
type Locker struct {
	flags      uint32
	op         Operation
	class      WaitClass
	lock       *Lock
	gid        int64
	timerStart uint64
	timer      TimerFunc
	file       string
	line       int
	// wait is an implementation-private correlation slot for sinks that
	// need to attach per-wait context between start and end.
	wait any
}

// Operation returns the acquisition mode recorded at start time.
func (l *Locker) Operation() Operation { return l.op }

// LockerState is the caller-owned scratch storage for one in-flight wait.
//
// The caller supplies it (typically as a stack variable) to a start call
// and must keep it alive until the matching end call returns:
//
//	var state api.LockerState
//	locker := api.StartWriteWait(&state, lk, api.OpWriteLock, file, line)
//	// ... the real wait ...
//	if locker != nil {
//		api.EndWriteWait(locker, 0)
//	}
//
// The Locker returned by a start call points into this storage, which is
// how the whole protocol stays allocation-free. A LockerState may be
// reused for a new wait once the previous one has ended.
type LockerState struct {
	locker Locker
}

// Observation is one completed wait, handed to the bound Sink.
type Observation struct {
	// Key and Identity identify the lock instance.
	Key      Key
	Identity uintptr
	// Name is the registered "category/name" of the lock class.
	Name string
	// Op is the acquisition mode requested.
	Op Operation
	// Class is the reporting class (read-side or write-side wait).
	Class WaitClass
	// Elapsed is the wait duration in the timer's unit, never negative.
	Elapsed uint64
	// Granted is true when the wait ended with the lock acquired
	// (return code zero).
	Granted bool
	// File and Line locate the waiting call site.
	File string
	Line int
	// GID is the goroutine that performed the wait.
	GID int64
}

// Sink is the aggregation/storage collaborator.
//
// The probe guarantees exactly one WaitEnded call per ended wait while a
// sink is bound, and one LockUnlocked call per unlock notification.
// Implementations must be safe for concurrent use and must not block:
// they run inline on the waiting goroutine.
type Sink interface {
	// WaitEnded receives one completed wait observation.
	WaitEnded(obs Observation)

	// LockUnlocked receives a release notification for an instrumented
	// lock. Not correlated to any wait.
	LockUnlocked(key Key, identity uintptr)
}
