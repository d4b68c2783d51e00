package bench

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	stopFile  = "stop"
	pauseFile = "pause"
)

// SignalManager lets another terminal steer a long benchmark run: touching a
// "stop" file in the signal directory ends the run after the current case,
// and a "pause" file holds the runner between cases until it is removed.
type SignalManager struct {
	dir string

	mu          sync.RWMutex
	stopSignal  bool
	pauseSignal bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSignalManager watches dir for signal files, creating it if needed.
// When the file watcher cannot start, the manager falls back to polling.
func NewSignalManager(dir string) (*SignalManager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	sm := &SignalManager{
		dir:  dir,
		done: make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return sm, nil
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return sm, nil
	}
	sm.watcher = watcher
	go sm.watchSignals()

	return sm, nil
}

func (sm *SignalManager) watchSignals() {
	for {
		select {
		case <-sm.done:
			return
		case event, ok := <-sm.watcher.Events:
			if !ok {
				return
			}
			created := event.Op&fsnotify.Create != 0 || event.Op&fsnotify.Write != 0
			removed := event.Op&fsnotify.Remove != 0 || event.Op&fsnotify.Rename != 0
			sm.mu.Lock()
			switch filepath.Base(event.Name) {
			case stopFile:
				if created {
					sm.stopSignal = true
				}
			case pauseFile:
				if created {
					sm.pauseSignal = true
				} else if removed {
					sm.pauseSignal = false
				}
			}
			sm.mu.Unlock()
		case <-sm.watcher.Errors:
			// Keep watching; the stat fallback still works.
		}
	}
}

// ShouldStop reports whether a stop signal has been received. Stop is sticky:
// once seen it holds until ClearSignals.
func (sm *SignalManager) ShouldStop() bool {
	// Check the file directly in case the watcher missed it.
	if _, err := os.Stat(filepath.Join(sm.dir, stopFile)); err == nil {
		sm.mu.Lock()
		sm.stopSignal = true
		sm.mu.Unlock()
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.stopSignal
}

// ShouldPause reports whether the pause file currently exists. Removing the
// file resumes a paused run.
func (sm *SignalManager) ShouldPause() bool {
	_, err := os.Stat(filepath.Join(sm.dir, pauseFile))

	sm.mu.Lock()
	sm.pauseSignal = err == nil
	sm.mu.Unlock()

	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.pauseSignal
}

// SendStop creates the stop signal file.
func (sm *SignalManager) SendStop() error {
	return os.WriteFile(filepath.Join(sm.dir, stopFile), []byte(time.Now().Format(time.RFC3339)), 0644)
}

// SendPause creates the pause signal file.
func (sm *SignalManager) SendPause() error {
	return os.WriteFile(filepath.Join(sm.dir, pauseFile), []byte(time.Now().Format(time.RFC3339)), 0644)
}

// Resume removes the pause signal file, letting a paused run continue.
func (sm *SignalManager) Resume() error {
	sm.mu.Lock()
	sm.pauseSignal = false
	sm.mu.Unlock()

	err := os.Remove(filepath.Join(sm.dir, pauseFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ClearSignals removes both signal files and resets the cached state.
func (sm *SignalManager) ClearSignals() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.stopSignal = false
	sm.pauseSignal = false

	os.Remove(filepath.Join(sm.dir, stopFile))
	os.Remove(filepath.Join(sm.dir, pauseFile))
}

// Dir returns the watched signal directory.
func (sm *SignalManager) Dir() string { return sm.dir }

// Close stops the watcher goroutine.
func (sm *SignalManager) Close() {
	close(sm.done)
	if sm.watcher != nil {
		sm.watcher.Close()
	}
}
