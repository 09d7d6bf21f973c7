// Package statsd emits DogStatsD-style metrics over UDP.
package statsd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Sink is what instrumented code depends on.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Noop discards every metric.
type Noop struct{}

func (Noop) Count(string, int64, map[string]string)          {}
func (Noop) Gauge(string, float64, map[string]string)        {}
func (Noop) Timing(string, time.Duration, map[string]string) {}

// Config describes how to reach the agent.
type Config struct {
	Enabled    bool
	Address    string
	Prefix     string
	Logger     *slog.Logger
	GlobalTags map[string]string
}

// Client writes one UDP datagram per metric. It is safe for concurrent use;
// write failures are logged at debug level and otherwise ignored.
type Client struct {
	prefix     string
	globalTags map[string]string
	logger     *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

var (
	_ Sink = (*Client)(nil)
	_ Sink = Noop{}
)

// New returns a Noop sink when metrics are disabled, otherwise a dialed Client.
func New(cfg Config) (Sink, func() error, error) {
	if !cfg.Enabled || strings.TrimSpace(cfg.Address) == "" {
		return Noop{}, func() error { return nil }, nil
	}
	c, err := NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// NewClient dials the configured address.
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	address := strings.TrimSpace(cfg.Address)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", address)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", address, err)
	}

	return &Client{
		prefix:     strings.Trim(strings.TrimSpace(cfg.Prefix), "."),
		globalTags: cleanTags(cfg.GlobalTags),
		logger:     logger,
		conn:       conn,
	}, nil
}

// Count increments a counter.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.send(name, strconv.FormatInt(value, 10), "c", tags)
}

// Gauge records a point-in-time value.
func (c *Client) Gauge(name string, value float64, tags map[string]string) {
	c.send(name, strconv.FormatFloat(value, 'f', -1, 64), "g", tags)
}

// Timing records a duration in milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	ms := float64(value) / float64(time.Millisecond)
	c.send(name, strconv.FormatFloat(ms, 'f', -1, 64), "ms", tags)
}

// Close releases the socket. Later writes are dropped.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) send(name, value, kind string, tags map[string]string) {
	line := c.line(name, value, kind, tags)
	if line == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.logger.Debug("statsd write failed", "error", err, "metric", name)
	}
}

// line renders "prefix.name:value|kind|#k:v,..." or "" for an empty name.
func (c *Client) line(name, value, kind string, tags map[string]string) string {
	metric := normalizeMetricName(name)
	if metric == "" {
		return ""
	}
	if c.prefix != "" {
		metric = c.prefix + "." + metric
	}
	return metric + ":" + value + "|" + kind + formatTags(c.globalTags, tags)
}

func normalizeMetricName(name string) string {
	n := strings.NewReplacer(" ", "_", "/", "_").Replace(strings.TrimSpace(name))
	for strings.Contains(n, "..") {
		n = strings.ReplaceAll(n, "..", ".")
	}
	return strings.Trim(n, ".")
}

func formatTags(global, local map[string]string) string {
	merged := cleanTags(global)
	for k, v := range cleanTags(local) {
		merged[k] = v
	}
	if len(merged) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(merged))
	for k, v := range merged {
		pairs = append(pairs, k+":"+v)
	}
	sort.Strings(pairs)
	return "|#" + strings.Join(pairs, ",")
}

func cleanTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if key := strings.TrimSpace(k); key != "" {
			out[key] = strings.TrimSpace(v)
		}
	}
	return out
}
