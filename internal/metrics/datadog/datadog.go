// Package datadog sends a run's metrics to a DogStatsD agent.
//
// Metric labels become sorted "key:value" tags; counters, step durations and
// the labels-assigned gauge map onto the statsd Count, Distribution and Gauge
// types.
package datadog

import (
	"fmt"
	"sort"

	"github.com/DataDog/datadog-go/v5/statsd"

	"anonymizer/internal/metrics"
)

// Config selects the agent and the tags every metric carries.
type Config struct {
	// Addr is "host:port" or "unix:///path/to/socket".
	Addr string

	// Namespace prefixes every metric name, e.g. "anonymizer.".
	Namespace string

	// GlobalTags are added to every metric, e.g. "job:issue_tracker".
	GlobalTags []string
}

// Backend implements metrics.Backend on a statsd client.
type Backend struct {
	client statsd.ClientInterface
}

// NewBackend dials the agent described by cfg.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}
	opts := []statsd.Option{statsd.WithTags(cfg.GlobalTags)}
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: dial %s: %w", cfg.Addr, err)
	}
	return &Backend{client: c}, nil
}

// Counts are integral; fractional deltas are truncated.
func (b *Backend) IncCounter(name string, delta float64, l metrics.Labels) {
	if b.client != nil {
		_ = b.client.Count(name, int64(delta), tags(l), 1)
	}
}

// Step durations are sent as distributions so percentiles aggregate across
// hosts.
func (b *Backend) ObserveHistogram(name string, value float64, l metrics.Labels) {
	if b.client != nil {
		_ = b.client.Distribution(name, value, tags(l), 1)
	}
}

func (b *Backend) SetGauge(name string, value float64, l metrics.Labels) {
	if b.client != nil {
		_ = b.client.Gauge(name, value, tags(l), 1)
	}
}

// Flush closes the client, which sends anything still buffered. The backend
// is not usable afterwards.
func (b *Backend) Flush() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

func tags(l metrics.Labels) []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for k, v := range l {
		out = append(out, k+":"+v)
	}
	sort.Strings(out)
	return out
}
