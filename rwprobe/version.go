package rwprobe

import internal "github.com/kolkov/lockprobe/internal/probe/api"

// Wait-reporting interface versions.
//
// A sink binds against an explicit version tag; the probe and the sink
// must agree on a single version. A mismatch is a load-time configuration
// error: Bind fails, the facility stays disabled, and the host locks keep
// working uninstrumented.
const (
	// Version1 is the first wait-reporting protocol version.
	Version1 = internal.Version1

	// CurrentVersion always aliases the latest supported version.
	CurrentVersion = internal.CurrentVersion
)

// Binding errors.
var (
	// ErrVersionMismatch reports an unsupported version tag passed to Bind.
	ErrVersionMismatch = internal.ErrVersionMismatch

	// ErrNilSink reports a Bind call without a sink.
	ErrNilSink = internal.ErrNilSink
)

// Bind installs sink as the aggregation collaborator and enables
// instrumentation. Call once at process start, before registering keys:
//
//	if err := rwprobe.Bind(rwprobe.CurrentVersion, sink); err != nil {
//		// instrumentation unavailable; the program runs uninstrumented
//	}
//
// Keys registered while unbound stay at KeyDisabled.
func Bind(version int, sink Sink) error {
	return internal.Bind(version, sink)
}

// Unbind disables instrumentation and drops the bound sink.
func Unbind() {
	internal.Unbind()
}

// Enabled reports whether a sink is currently bound.
func Enabled() bool {
	return internal.Enabled()
}
