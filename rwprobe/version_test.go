package rwprobe_test

import (
	"errors"
	"testing"

	"github.com/kolkov/lockprobe/rwprobe"
)

type nopSink struct{}

func (nopSink) WaitEnded(rwprobe.Observation)     {}
func (nopSink) LockUnlocked(rwprobe.Key, uintptr) {}

// TestVersionConstants pins the published version tags.
func TestVersionConstants(t *testing.T) {
	if rwprobe.Version1 != 1 {
		t.Errorf("Version1 = %d, want 1", rwprobe.Version1)
	}
	if rwprobe.CurrentVersion != rwprobe.Version1 {
		t.Errorf("CurrentVersion = %d, want Version1", rwprobe.CurrentVersion)
	}
}

// TestBindVersionMismatch tests that binding with a foreign version tag
// fails at bind time and leaves the facility disabled.
func TestBindVersionMismatch(t *testing.T) {
	t.Cleanup(rwprobe.Unbind)

	err := rwprobe.Bind(rwprobe.CurrentVersion+1, nopSink{})
	if !errors.Is(err, rwprobe.ErrVersionMismatch) {
		t.Fatalf("Bind = %v, want ErrVersionMismatch", err)
	}
	if rwprobe.Enabled() {
		t.Errorf("facility enabled after failed Bind")
	}

	// The host locks must keep working uninstrumented.
	var key rwprobe.Key
	rwprobe.Register("version_test", []rwprobe.LockInfo{{Key: &key, Name: "mu"}})
	if key != rwprobe.KeyDisabled {
		t.Errorf("key minted while disabled: %d", key)
	}
	if handle := rwprobe.CreateLock(key, 0x1); handle != nil {
		t.Errorf("CreateLock returned handle while disabled")
	}
}

// TestBindCurrentVersion tests the successful negotiation round trip.
func TestBindCurrentVersion(t *testing.T) {
	t.Cleanup(rwprobe.Unbind)

	if err := rwprobe.Bind(rwprobe.CurrentVersion, nopSink{}); err != nil {
		t.Fatalf("Bind(CurrentVersion) = %v", err)
	}
	if !rwprobe.Enabled() {
		t.Errorf("facility disabled after successful Bind")
	}
	rwprobe.Unbind()
	if rwprobe.Enabled() {
		t.Errorf("facility still enabled after Unbind")
	}
}
