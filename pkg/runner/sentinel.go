package runner

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/ternarybob/gogo/internal/logger"
)

// CheckSentinel reports whether the sentinel error file exists in workDir
// and returns its content. The file is never deleted by the driver.
func CheckSentinel(workDir, name string) (string, bool) {
	path := filepath.Join(workDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// watchSentinel watches workDir while the child runs and logs a warning
// as soon as the sentinel file appears. Best effort only: watch errors
// are swallowed and the post-run CheckSentinel stat stays authoritative.
// The returned stop function is safe to call once.
func watchSentinel(workDir, name string) func() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return func() {}
	}
	if err := watcher.Add(workDir); err != nil {
		watcher.Close()
		return func() {}
	}

	target := filepath.Join(workDir, name)
	done := make(chan struct{})

	go func() {
		log := logger.GetLogger()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name == target && event.Op.Has(fsnotify.Create|fsnotify.Write) {
					log.Warn().Str("file", target).Msg("Sentinel error file appeared during run")
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}
}
