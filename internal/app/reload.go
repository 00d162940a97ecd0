package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloader watches the running binary for changes and triggers a callback
// when a newer version is written. This is useful during development to
// automatically prompt for restart after recompilation.
type Reloader struct {
	execPath    string
	startupTime time.Time
	watcher     *fsnotify.Watcher
	stopCh      chan struct{}
	onNewBinary func() // Called when a newer binary is detected
}

// NewReloader creates a reloader that watches the current executable.
// Returns nil if the executable path cannot be determined or watched.
func NewReloader() *Reloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}

	// Resolve symlinks: go build may create a new file while the old
	// symlink still points to the old location.
	if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = realPath
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}
	// Watch the directory; editors and linkers replace files rather than
	// writing them in place, which only the directory watch observes.
	if err := watcher.Add(filepath.Dir(execPath)); err != nil {
		watcher.Close()
		return nil
	}

	return &Reloader{
		execPath:    execPath,
		startupTime: info.ModTime(),
		watcher:     watcher,
		stopCh:      make(chan struct{}),
	}
}

// OnNewBinary sets the callback to invoke when a newer binary is detected.
// The callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (r *Reloader) OnNewBinary(callback func()) {
	r.onNewBinary = callback
}

// Start begins watching for binary changes in a background goroutine.
func (r *Reloader) Start() {
	go r.watchLoop()
}

// Stop stops the watcher goroutine.
func (r *Reloader) Stop() {
	close(r.stopCh)
	r.watcher.Close()
}

func (r *Reloader) watchLoop() {
	for {
		select {
		case <-r.stopCh:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Name != r.execPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Let the linker finish writing before comparing times.
			time.Sleep(200 * time.Millisecond)
			if r.changed() && r.onNewBinary != nil {
				r.onNewBinary()
				// Only trigger once - stop watching after detection
				return
			}
		case _, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// changed returns true if the binary has been modified since startup.
func (r *Reloader) changed() bool {
	info, err := os.Stat(r.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(r.startupTime)
}

// ResetBaseline updates the baseline timestamp to the current binary's mod
// time. Call this when the user declines a restart to avoid repeated
// notifications.
func (r *Reloader) ResetBaseline() {
	if info, err := os.Stat(r.execPath); err == nil {
		r.startupTime = info.ModTime()
	}
}

// Restart replaces the current process with a new instance of the binary.
// This function does not return on success.
func (r *Reloader) Restart() error {
	return RestartProcess(r.execPath)
}

// RestartProcess replaces the current process with a new instance of the
// specified executable, preserving command line arguments and environment.
// This function does not return on success.
func RestartProcess(execPath string) error {
	args := os.Args
	env := os.Environ()

	// syscall.Exec replaces the current process - no fork
	return syscall.Exec(execPath, args, env)
}
