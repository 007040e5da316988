//go:build probedebug

package api

import "fmt"

// Debug-build protocol assertions.
//
// Misuse of the wait protocol (double end, end without start, use after
// destroy) is undefined by contract and must stay invisible to production
// builds to preserve the zero-overhead-when-disabled property. Under the
// probedebug build tag the same misuse panics immediately at the violating
// call, which is the only supportable way to find these bugs: by the time
// a corrupted observation reaches a sink, the guilty call site is gone.
//
//	go test -tags=probedebug ./...

// debugAssertLive panics if the handle was already destroyed.
func debugAssertLive(lk *Lock, op string) {
	if lk.destroyed {
		panic(fmt.Sprintf("lockprobe: %s on destroyed handle %q (identity %#x)", op, lk.name, lk.identity))
	}
}

// debugAssertReusable panics when a LockerState still has an open wait.
func debugAssertReusable(l *Locker) {
	if l.flags&flagStarted != 0 && l.flags&flagEnded == 0 {
		panic(fmt.Sprintf("lockprobe: start on state with unfinished %s wait for %q", l.class, l.lock.name))
	}
}

// debugAssertStarted panics on end-without-start, double end, and
// read/write pair mismatches.
func debugAssertStarted(l *Locker, class WaitClass) {
	switch {
	case l == nil:
		panic("lockprobe: end of nil locker (caller must skip the end call when start returned nil)")
	case l.flags&flagStarted == 0:
		panic("lockprobe: end without matching start")
	case l.flags&flagEnded != 0:
		panic(fmt.Sprintf("lockprobe: double end of %s wait for %q", l.class, l.lock.name))
	case l.class != class:
		panic(fmt.Sprintf("lockprobe: %s wait for %q ended through the %s pair", l.class, l.lock.name, class))
	case l.gid != getGoroutineID():
		panic(fmt.Sprintf("lockprobe: locker for %q crossed goroutines (started on %d)", l.lock.name, l.gid))
	}
}
