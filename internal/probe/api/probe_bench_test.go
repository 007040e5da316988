package api

import (
	"testing"

	"github.com/kolkov/lockprobe/internal/probe/registry"
)

// nullSink drops everything; isolates probe overhead from sink cost.
type nullSink struct{}

func (nullSink) WaitEnded(Observation)     {}
func (nullSink) LockUnlocked(Key, uintptr) {}

func benchSetup(b *testing.B) *Lock {
	b.Helper()
	Unbind()
	reg = registry.New()
	if err := Bind(CurrentVersion, nullSink{}); err != nil {
		b.Fatalf("Bind: %v", err)
	}
	var key Key
	Register("bench", []LockInfo{{Key: &key, Name: "lock"}})
	lk := CreateLock(key, 0xBEEF)
	b.Cleanup(func() {
		Unbind()
		reg = registry.New()
	})
	return lk
}

// BenchmarkStartWaitNilHandle measures the uninstrumented fast path: this
// is the cost paid by every lock attempt in a host program whose locks
// are not registered. Must be a single comparison, zero allocations.
func BenchmarkStartWaitNilHandle(b *testing.B) {
	var state LockerState
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if locker := StartReadWait(&state, nil, OpReadLock, "f.go", 1); locker != nil {
			b.Fatal("nil handle produced a locker")
		}
	}
}

// BenchmarkStartWaitDisabled measures the fast path with a live handle
// but an unbound facility.
func BenchmarkStartWaitDisabled(b *testing.B) {
	lk := benchSetup(b)
	Unbind()
	var state LockerState
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if locker := StartWriteWait(&state, lk, OpWriteLock, "f.go", 1); locker != nil {
			b.Fatal("disabled facility produced a locker")
		}
	}
}

// BenchmarkWaitPair measures a full enabled start/end write-wait pair,
// including goroutine id extraction and the timer reads.
func BenchmarkWaitPair(b *testing.B) {
	lk := benchSetup(b)
	var state LockerState
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		locker := StartWriteWait(&state, lk, OpWriteLock, "f.go", 1)
		EndWriteWait(locker, 0)
	}
}

// BenchmarkUnlock measures the unlock notification path.
func BenchmarkUnlock(b *testing.B) {
	lk := benchSetup(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Unlock(lk)
	}
}

// BenchmarkGetGoroutineID measures goroutine id extraction, the dominant
// cost of an enabled start call.
func BenchmarkGetGoroutineID(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if getGoroutineID() == 0 {
			b.Fatal("gid parse failed")
		}
	}
}
