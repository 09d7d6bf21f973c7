package service

import (
	"sync"
	"time"
)

// countingSink records counters by name and result tag.
type countingSink struct {
	mu      sync.Mutex
	counts  map[string]int
	timings []string
}

func (c *countingSink) Count(name string, value int64, tags map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[name+"|"+tags["result"]] += int(value)
}

func (c *countingSink) Gauge(string, float64, map[string]string) {}

func (c *countingSink) Timing(name string, _ time.Duration, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timings = append(c.timings, name)
}

func (c *countingSink) count(name, result string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name+"|"+result]
}
