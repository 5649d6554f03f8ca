package console

import (
	"strings"
	"sync"

	"github.com/flowave-io/serialflow/pkg/log"
)

// PortCache holds the last known device list. It is refreshed from the
// device watcher goroutine and read by completion hooks on every keystroke.
type PortCache struct {
	mu    sync.RWMutex
	ports []string
	list  func() ([]string, error)
}

func NewPortCache(list func() ([]string, error)) *PortCache {
	c := &PortCache{list: list}
	_ = c.Refresh()
	return c
}

// Refresh re-reads the device list. The previous list is kept on error.
func (c *PortCache) Refresh() error {
	ports, err := c.list()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.ports = ports
	c.mu.Unlock()
	return nil
}

// Follow refreshes on every signal until ch is closed.
func (c *PortCache) Follow(ch <-chan struct{}) {
	for range ch {
		if err := c.Refresh(); err != nil {
			log.Warn("refresh ports:", err)
		}
	}
}

func (c *PortCache) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.ports...)
}

func (c *PortCache) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.ports {
		if p == name {
			return true
		}
	}
	return false
}

// Extends reports whether some port name starts with prefix.
func (c *PortCache) Extends(prefix string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.ports {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
