package rwprobe_test

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/kolkov/lockprobe/rwprobe"
)

// printSink counts events; a real sink would aggregate into histograms.
type printSink struct {
	waits   int
	unlocks int
}

func (s *printSink) WaitEnded(obs rwprobe.Observation) {
	s.waits++
	fmt.Printf("wait: %s %s granted=%v\n", obs.Name, obs.Op, obs.Granted)
}

func (s *printSink) LockUnlocked(rwprobe.Key, uintptr) {
	s.unlocks++
}

// Example demonstrates the full instrumentation protocol around a real
// sync.RWMutex. Lock-implementing code usually wraps this pattern once;
// see the rwsync package for ready-made wrappers.
func Example() {
	sink := &printSink{}
	if err := rwprobe.Bind(rwprobe.CurrentVersion, sink); err != nil {
		fmt.Println("instrumentation unavailable:", err)
		return
	}
	defer rwprobe.Unbind()

	// Register the lock class once, at startup.
	var key rwprobe.Key
	rwprobe.Register("example", []rwprobe.LockInfo{
		{Key: &key, Name: "demo", Documentation: "example lock"},
	})

	// Create the handle alongside the real lock.
	var mu sync.RWMutex
	handle := rwprobe.CreateLock(key, uintptr(unsafe.Pointer(&mu)))

	// Bracket an acquisition with a start/end pair.
	var state rwprobe.LockerState
	locker := rwprobe.StartWriteWait(&state, handle, rwprobe.OpWriteLock, "example.go", 10)
	mu.Lock()
	if locker != nil {
		rwprobe.EndWriteWait(locker, 0)
	}

	mu.Unlock()
	rwprobe.Unlock(handle)

	// Destroy the handle alongside the real lock.
	rwprobe.DestroyLock(handle)

	fmt.Printf("%d waits, %d unlocks\n", sink.waits, sink.unlocks)

	// Output:
	// wait: example/demo WRITELOCK granted=true
	// 1 waits, 1 unlocks
}

// Example_disabled shows the uninstrumented path: with a disabled key
// every probe call is a cheap no-op and the caller's branching collapses
// to nil checks.
func Example_disabled() {
	handle := rwprobe.CreateLock(rwprobe.KeyDisabled, 0x1000)
	fmt.Println("handle:", handle)

	var state rwprobe.LockerState
	locker := rwprobe.StartReadWait(&state, handle, rwprobe.OpReadLock, "example.go", 20)
	fmt.Println("locker:", locker)
	// locker is nil: skip the end call entirely.

	rwprobe.Unlock(handle)
	rwprobe.DestroyLock(handle)

	// Output:
	// handle: <nil>
	// locker: <nil>
}
