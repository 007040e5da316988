//go:build probedebug

package api

import (
	"testing"

	"github.com/kolkov/lockprobe/internal/probe/registry"
)

// Protocol misuse assertions only exist under the probedebug tag:
//
//	go test -tags=probedebug ./internal/probe/api

func debugSetup(t *testing.T) *Lock {
	t.Helper()
	Unbind()
	reg = registry.New()
	if err := Bind(CurrentVersion, &recordingSink{}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	var key Key
	Register("debug", []LockInfo{{Key: &key, Name: "mu"}})
	lk := CreateLock(key, 0xD0)
	t.Cleanup(func() {
		Unbind()
		reg = registry.New()
	})
	return lk
}

func wantPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("misuse did not panic under probedebug")
		}
	}()
	f()
}

// TestDebugDoubleEnd tests that ending a locker twice panics.
func TestDebugDoubleEnd(t *testing.T) {
	lk := debugSetup(t)

	var state LockerState
	locker := StartWriteWait(&state, lk, OpWriteLock, "f.go", 1)
	EndWriteWait(locker, 0)
	wantPanic(t, func() { EndWriteWait(locker, 0) })
}

// TestDebugEndWithoutStart tests that ending a never-started locker panics.
func TestDebugEndWithoutStart(t *testing.T) {
	debugSetup(t)

	var state LockerState
	wantPanic(t, func() { EndReadWait(&state.locker, 0) })
}

// TestDebugEndNilLocker tests that the nil-locker misuse panics instead
// of dereferencing.
func TestDebugEndNilLocker(t *testing.T) {
	debugSetup(t)
	wantPanic(t, func() { EndReadWait(nil, 0) })
}

// TestDebugClassMismatch tests that closing a read wait through the write
// pair panics.
func TestDebugClassMismatch(t *testing.T) {
	lk := debugSetup(t)

	var state LockerState
	locker := StartReadWait(&state, lk, OpReadLock, "f.go", 1)
	wantPanic(t, func() { EndWriteWait(locker, 0) })
}

// TestDebugStateReuseWhileOpen tests that reusing a LockerState with an
// unfinished wait panics.
func TestDebugStateReuseWhileOpen(t *testing.T) {
	lk := debugSetup(t)

	var state LockerState
	if locker := StartWriteWait(&state, lk, OpWriteLock, "f.go", 1); locker == nil {
		t.Fatal("StartWriteWait = nil")
	}
	wantPanic(t, func() { StartWriteWait(&state, lk, OpWriteLock, "f.go", 2) })
}

// TestDebugUseAfterDestroy tests that starting a wait on a destroyed
// handle panics.
func TestDebugUseAfterDestroy(t *testing.T) {
	lk := debugSetup(t)
	DestroyLock(lk)

	var state LockerState
	wantPanic(t, func() { StartReadWait(&state, lk, OpReadLock, "f.go", 1) })
}
