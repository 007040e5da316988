package api

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Interface versions.
//
// The probe interface is exposed under an explicit integer version tag so
// a sink built against one revision of the protocol never silently binds
// to another. Version mismatches are load-time configuration errors: the
// facility simply stays disabled and the host locks keep working
// uninstrumented.
const (
	// Version1 is the first (and current) wait-reporting protocol.
	Version1 = 1

	// CurrentVersion always aliases the latest supported version.
	CurrentVersion = Version1
)

// Binding errors. Returned by Bind only; nothing on the wait path ever
// surfaces an error to the instrumented code.
var (
	// ErrVersionMismatch reports a Bind with an unsupported version tag.
	ErrVersionMismatch = errors.New("lockprobe: unsupported interface version")

	// ErrNilSink reports a Bind with no sink.
	ErrNilSink = errors.New("lockprobe: nil sink")
)

// Global probe state.
//
// Bound once at process start and read lock-free on every wait. The
// enabled flag is the single branch the disabled fast path pays.
var (
	// enabled gates every operation. False until a sink is bound.
	enabled atomic.Bool

	// sinkPtr holds the bound sink. Loaded once per end/unlock event.
	sinkPtr atomic.Pointer[Sink]

	// timerPtr holds the current timer source, captured into each
	// LockerState at start time.
	timerPtr atomic.Pointer[TimerFunc]

	// bindMu serializes Bind/Unbind against each other.
	bindMu sync.Mutex
)

// processStart anchors the default timer. Monotonic by construction:
// time.Since uses the runtime's monotonic clock reading.
var processStart = time.Now()

// defaultTimer reports nanoseconds elapsed since process start.
func defaultTimer() uint64 {
	return uint64(time.Since(processStart))
}

func init() {
	t := TimerFunc(defaultTimer)
	timerPtr.Store(&t)
}

// Bind installs the sink and enables instrumentation.
//
// version must be CurrentVersion (or an older still-supported tag);
// anything else returns ErrVersionMismatch and leaves the facility
// disabled. Bind is meant to run once at process start, before
// registration: keys requested while unbound stay at the disabled
// sentinel.
func Bind(version int, sink Sink) error {
	if version != Version1 {
		return fmt.Errorf("%w: got %d, supported %d", ErrVersionMismatch, version, CurrentVersion)
	}
	if sink == nil {
		return ErrNilSink
	}
	bindMu.Lock()
	defer bindMu.Unlock()
	sinkPtr.Store(&sink)
	enabled.Store(true)
	return nil
}

// Unbind disables instrumentation and drops the sink.
//
// In-flight waits that started while bound still complete their end calls;
// their observations are dropped if the sink is already gone. Keys minted
// earlier remain valid and can be re-enabled by a later Bind.
func Unbind() {
	bindMu.Lock()
	defer bindMu.Unlock()
	enabled.Store(false)
	sinkPtr.Store(nil)
}

// Enabled reports whether a sink is currently bound.
func Enabled() bool {
	return enabled.Load()
}

// SetTimer replaces the timer source for subsequent waits. A nil fn
// restores the default monotonic nanosecond timer. Process-start
// configuration, not intended for concurrent flipping under load.
func SetTimer(fn TimerFunc) {
	if fn == nil {
		fn = defaultTimer
	}
	timerPtr.Store(&fn)
}

// loadSink returns the bound sink or nil.
func loadSink() Sink {
	p := sinkPtr.Load()
	if p == nil {
		return nil
	}
	return *p
}

// loadTimer returns the current timer source. Never nil.
func loadTimer() TimerFunc {
	return *timerPtr.Load()
}
