package bench

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestSignals(t *testing.T) *SignalManager {
	t.Helper()
	sm, err := NewSignalManager(filepath.Join(t.TempDir(), "signals"))
	if err != nil {
		t.Fatalf("NewSignalManager: %v", err)
	}
	t.Cleanup(sm.Close)
	return sm
}

func TestSignalManager_StopSignal(t *testing.T) {
	sm := newTestSignals(t)

	if sm.ShouldStop() {
		t.Fatal("stop reported before any signal")
	}
	if err := sm.SendStop(); err != nil {
		t.Fatalf("SendStop: %v", err)
	}
	// The stat fallback makes this immediate regardless of watcher timing.
	if !sm.ShouldStop() {
		t.Error("stop signal not seen")
	}
}

func TestSignalManager_PauseFollowsFile(t *testing.T) {
	sm := newTestSignals(t)

	if sm.ShouldPause() {
		t.Fatal("pause reported before any signal")
	}
	if err := sm.SendPause(); err != nil {
		t.Fatalf("SendPause: %v", err)
	}
	if !sm.ShouldPause() {
		t.Error("pause signal not seen")
	}

	if err := os.Remove(filepath.Join(sm.Dir(), "pause")); err != nil {
		t.Fatalf("remove pause file: %v", err)
	}
	if sm.ShouldPause() {
		t.Error("pause did not lift when the file was removed")
	}
}

func TestSignalManager_ClearSignals(t *testing.T) {
	sm := newTestSignals(t)

	if err := sm.SendStop(); err != nil {
		t.Fatalf("SendStop: %v", err)
	}
	if err := sm.SendPause(); err != nil {
		t.Fatalf("SendPause: %v", err)
	}

	sm.ClearSignals()
	// A watcher event queued before the clear may still land; settle and
	// clear once more before asserting.
	time.Sleep(50 * time.Millisecond)
	sm.ClearSignals()

	if _, err := os.Stat(filepath.Join(sm.Dir(), stopFile)); !os.IsNotExist(err) {
		t.Error("stop file survived ClearSignals")
	}
	if _, err := os.Stat(filepath.Join(sm.Dir(), pauseFile)); !os.IsNotExist(err) {
		t.Error("pause file survived ClearSignals")
	}
	if sm.ShouldStop() {
		t.Error("stop signal survived ClearSignals")
	}
	if sm.ShouldPause() {
		t.Error("pause signal survived ClearSignals")
	}
}

func TestSignalManager_Resume(t *testing.T) {
	sm := newTestSignals(t)

	if err := sm.SendPause(); err != nil {
		t.Fatalf("SendPause failed: %v", err)
	}
	if !sm.ShouldPause() {
		t.Fatal("expected pause after SendPause")
	}

	if err := sm.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if sm.ShouldPause() {
		t.Error("expected no pause after Resume")
	}

	// Resuming an already-running benchmark is a no-op.
	if err := sm.Resume(); err != nil {
		t.Errorf("Resume without a pause file failed: %v", err)
	}
}

func TestSignalManager_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "signals")
	sm, err := NewSignalManager(dir)
	if err != nil {
		t.Fatalf("NewSignalManager: %v", err)
	}
	defer sm.Close()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("signal dir not created: %v", err)
	}
	if sm.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", sm.Dir(), dir)
	}
}
