package monitor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flowave-io/serialflow/pkg/log"
)

// DefaultDevDir is where serial devices appear on unix systems.
const DefaultDevDir = "/dev"

const debounce = 75 * time.Millisecond

// devicePrefixes are the node names serial adapters show up under.
var devicePrefixes = []string{"tty", "cu.", "rfcomm"}

func matchesDevice(path string) bool {
	base := filepath.Base(path)
	for _, p := range devicePrefixes {
		if strings.HasPrefix(base, p) {
			return true
		}
	}
	return false
}

// WatchPorts signals refreshCh when serial device nodes are created or
// removed under dir, so hot-plugged adapters show up in completion. Bursts of
// events within the debounce window collapse into one signal and a signal is
// dropped when refreshCh is already full. The returned stop func ends the
// watch.
func WatchPorts(dir string, refreshCh chan<- struct{}) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-done:
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 || !matchesDevice(ev.Name) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					fire = timer.C
				}
			case <-fire:
				timer, fire = nil, nil
				select {
				case refreshCh <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnf("watch %s: %v", dir, err)
			}
		}
	}()
	return func() { close(done) }, nil
}
