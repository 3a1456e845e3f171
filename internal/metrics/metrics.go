// Package metrics records what an anonymization run did: how long each step
// took, how many rows went in and out, and per-column outcomes of the
// transform (unparseable dates, labels assigned).
//
// Callers use the Record* helpers; the configured Backend decides where the
// numbers go. The default backend drops everything, so the helpers are safe
// to call from tests and from runs without a metrics flag.
package metrics

import (
	"sort"
	"time"
)

// Metric names shared by all backends.
const (
	StepTotal           = "anonymize_step_total"
	StepDurationSeconds = "anonymize_step_duration_seconds"
	RecordsTotal        = "anonymize_records_total"
	BatchesTotal        = "anonymize_batches_total"
	DatesUnparsedTotal  = "anonymize_dates_unparsed_total"
	LabelsAssigned      = "anonymize_labels_assigned"
)

// Row kinds passed to RecordRow.
const (
	RowsLoaded        = "loaded"
	RowsDatesUnparsed = "dates_unparsed"
	RowsWritten       = "written"
	RowsStored        = "stored"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend receives observations. Gauges hold the last value set.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	SetGauge(name string, value float64, labels Labels)
	// Flush delivers buffered observations; it is called once at exit.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) SetGauge(string, float64, Labels)         {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs b. A nil b is ignored.
func SetBackend(b Backend) {
	if b != nil {
		backend = b
	}
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordStep counts one run of a pipeline step (load, transform, write,
// store) and records its duration, labeled by outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	lbls := Labels{"job": job, "step": step, "status": "success"}
	if err != nil {
		lbls["status"] = "failure"
	}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow adds delta rows of the given kind. Non-positive deltas are
// dropped.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches adds delta database batches.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}

// RecordColumns reports the per-column outcome of the transform step:
// unparsed counts cells a date column turned into missing values, labels
// counts distinct labels a pseudonymized column received. Columns are
// emitted in name order; the total of unparsed is also added as the
// "dates_unparsed" row kind.
func RecordColumns(job string, unparsed, labels map[string]int) {
	total := 0
	for _, c := range sortedKeys(unparsed) {
		n := unparsed[c]
		total += n
		if n > 0 {
			backend.IncCounter(DatesUnparsedTotal, float64(n), Labels{"job": job, "column": c})
		}
	}
	RecordRow(job, RowsDatesUnparsed, int64(total))

	for _, c := range sortedKeys(labels) {
		backend.SetGauge(LabelsAssigned, float64(labels[c]), Labels{"job": job, "column": c})
	}
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
