// Package prompush pushes a run's metrics to a Prometheus Pushgateway.
//
// A run is a short-lived batch process, so nothing is scraped: observations
// accumulate in a private registry and Flush pushes them once, grouped under
// the job name. The "job" label is the grouping key and is never a metric
// label.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"anonymizer/internal/metrics"
)

type metricType int

const (
	counter metricType = iota
	summary
	gauge
)

type definition struct {
	name   string
	typ    metricType
	help   string
	labels []string
}

// definitions lists every metric the backend exports. Observations for other
// names are dropped.
var definitions = []definition{
	{metrics.StepTotal, counter, "Pipeline step runs by step and status.", []string{"step", "status"}},
	{metrics.StepDurationSeconds, summary, "Pipeline step duration in seconds.", []string{"step", "status"}},
	{metrics.RecordsTotal, counter, "Rows by kind: loaded, dates_unparsed, written, stored.", []string{"kind"}},
	{metrics.BatchesTotal, counter, "Database batches flushed by the storage sink.", nil},
	{metrics.DatesUnparsedTotal, counter, "Date cells that matched no layout, by column.", []string{"column"}},
	{metrics.LabelsAssigned, gauge, "Distinct pseudonym labels assigned, by column.", []string{"column"}},
}

// Backend collects observations for one job and pushes them on Flush.
type Backend struct {
	pusher    *push.Pusher
	reg       *prometheus.Registry
	labels    map[string][]string
	counters  map[string]*prometheus.CounterVec
	summaries map[string]*prometheus.SummaryVec
	gauges    map[string]*prometheus.GaugeVec
}

// NewBackend registers the exported metrics and targets gatewayURL. An empty
// job defaults to "anonymizer".
func NewBackend(job, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if job == "" {
		job = "anonymizer"
	}

	b := &Backend{
		reg:       prometheus.NewRegistry(),
		labels:    map[string][]string{},
		counters:  map[string]*prometheus.CounterVec{},
		summaries: map[string]*prometheus.SummaryVec{},
		gauges:    map[string]*prometheus.GaugeVec{},
	}
	for _, d := range definitions {
		var c prometheus.Collector
		switch d.typ {
		case counter:
			v := prometheus.NewCounterVec(prometheus.CounterOpts{Name: d.name, Help: d.help}, d.labels)
			b.counters[d.name], c = v, v
		case summary:
			v := prometheus.NewSummaryVec(prometheus.SummaryOpts{
				Name:       d.name,
				Help:       d.help,
				Objectives: map[float64]float64{0.5: 0.05, 0.99: 0.001},
			}, d.labels)
			b.summaries[d.name], c = v, v
		case gauge:
			v := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: d.name, Help: d.help}, d.labels)
			b.gauges[d.name], c = v, v
		}
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", d.name, err)
		}
		b.labels[d.name] = d.labels
	}
	b.pusher = push.New(gatewayURL, job).Gatherer(b.reg)
	return b, nil
}

// values orders the label values the way name declares them. Absent labels
// become empty strings.
func (b *Backend) values(name string, l metrics.Labels) []string {
	names := b.labels[name]
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = l[n]
	}
	return out
}

func (b *Backend) IncCounter(name string, delta float64, l metrics.Labels) {
	if v, ok := b.counters[name]; ok {
		v.WithLabelValues(b.values(name, l)...).Add(delta)
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, l metrics.Labels) {
	if v, ok := b.summaries[name]; ok {
		v.WithLabelValues(b.values(name, l)...).Observe(value)
	}
}

func (b *Backend) SetGauge(name string, value float64, l metrics.Labels) {
	if v, ok := b.gauges[name]; ok {
		v.WithLabelValues(b.values(name, l)...).Set(value)
	}
}

// Flush replaces the job's group on the gateway with the collected metrics.
func (b *Backend) Flush() error {
	if err := b.pusher.Push(); err != nil {
		return fmt.Errorf("prompush: push: %w", err)
	}
	return nil
}
