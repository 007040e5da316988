package api

// Scoped wait helpers.
//
// The raw start/end protocol relies on caller discipline: every exit path
// out of the wait, including early returns and panics, must reach the end
// call. These helpers own that discipline instead. The LockerState lives
// in the helper's frame and the end call is deferred, so a wait function
// that panics still closes its locker with a failure code before the
// panic propagates — an abandoned wait is reported as an ordinary
// non-granted end, exactly like caller-side cancellation.

// TrackReadWait brackets wait with a read-side start/end pair.
//
// wait performs the real acquisition and returns its return code (zero
// for granted). With a nil lock or disabled facility wait runs alone and
// nothing is reported.
func TrackReadWait(lk *Lock, op Operation, file string, line int, wait func() int) {
	var state LockerState
	locker := StartReadWait(&state, lk, op, file, line)
	if locker == nil {
		wait()
		return
	}
	rc := 1 // a wait that never returns a code was abandoned
	defer func() { EndReadWait(locker, rc) }()
	rc = wait()
}

// TrackWriteWait brackets wait with a write-side start/end pair. Same
// contract as TrackReadWait.
func TrackWriteWait(lk *Lock, op Operation, file string, line int, wait func() int) {
	var state LockerState
	locker := StartWriteWait(&state, lk, op, file, line)
	if locker == nil {
		wait()
		return
	}
	rc := 1
	defer func() { EndWriteWait(locker, rc) }()
	rc = wait()
}
