package prompush

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonymizer/internal/metrics"
)

// gathered returns the families in b's registry keyed by name.
func gathered(t *testing.T, b *Backend) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := b.reg.Gather()
	require.NoError(t, err)
	out := map[string]*dto.MetricFamily{}
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out
}

func labelsOf(m *dto.Metric) map[string]string {
	out := map[string]string{}
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestNewBackend_RequiresGateway(t *testing.T) {
	_, err := NewBackend("issue_tracker", "")
	assert.ErrorContains(t, err, "gateway URL is required")
}

func TestBackend_RunMetrics(t *testing.T) {
	b, err := NewBackend("issue_tracker", "http://localhost:9091")
	require.NoError(t, err)

	metrics.SetBackend(b)
	t.Cleanup(func() { metrics.SetBackend(nopForTest{}) })

	metrics.RecordStep("issue_tracker", "load", nil, 0)
	metrics.RecordRow("issue_tracker", metrics.RowsLoaded, 4)
	metrics.RecordRow("issue_tracker", metrics.RowsWritten, 4)
	metrics.RecordColumns("issue_tracker",
		map[string]int{"DateOnly": 2},
		map[string]int{"School Name": 2},
	)
	metrics.RecordBatches("issue_tracker", 1)

	fams := gathered(t, b)

	rows := fams[metrics.RecordsTotal]
	require.NotNil(t, rows)
	got := map[string]float64{}
	for _, m := range rows.GetMetric() {
		got[labelsOf(m)["kind"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"loaded": 4, "written": 4, "dates_unparsed": 2}, got)

	step := fams[metrics.StepTotal].GetMetric()[0]
	assert.Equal(t, map[string]string{"step": "load", "status": "success"}, labelsOf(step),
		"job is the grouping key, not a label")

	dur := fams[metrics.StepDurationSeconds].GetMetric()[0]
	assert.Equal(t, uint64(1), dur.GetSummary().GetSampleCount())

	unparsed := fams[metrics.DatesUnparsedTotal].GetMetric()[0]
	assert.Equal(t, "DateOnly", labelsOf(unparsed)["column"])
	assert.Equal(t, 2.0, unparsed.GetCounter().GetValue())

	lbl := fams[metrics.LabelsAssigned].GetMetric()[0]
	assert.Equal(t, 2.0, lbl.GetGauge().GetValue())

	assert.Equal(t, 1.0, fams[metrics.BatchesTotal].GetMetric()[0].GetCounter().GetValue())
}

func TestBackend_GaugeKeepsLastValue(t *testing.T) {
	b, err := NewBackend("", "http://localhost:9091")
	require.NoError(t, err)

	b.SetGauge(metrics.LabelsAssigned, 5, metrics.Labels{"column": "Region"})
	b.SetGauge(metrics.LabelsAssigned, 2, metrics.Labels{"column": "Region"})
	b.IncCounter("not_exported", 1, nil)

	fams := gathered(t, b)
	assert.NotContains(t, fams, "not_exported")
	assert.Equal(t, 2.0, fams[metrics.LabelsAssigned].GetMetric()[0].GetGauge().GetValue())
}

func TestFlush_PushesJobGroup(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("issue_tracker", srv.URL)
	require.NoError(t, err)
	b.IncCounter(metrics.RecordsTotal, 3, metrics.Labels{"kind": "written"})

	require.NoError(t, b.Flush())
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/issue_tracker", path)
}

func TestFlush_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := NewBackend("issue_tracker", srv.URL)
	require.NoError(t, err)

	err = b.Flush()
	assert.ErrorContains(t, err, "prompush: push")
}

// nopForTest restores a silent global backend after a test.
type nopForTest struct{}

func (nopForTest) IncCounter(string, float64, metrics.Labels)       {}
func (nopForTest) ObserveHistogram(string, float64, metrics.Labels) {}
func (nopForTest) SetGauge(string, float64, metrics.Labels)         {}
func (nopForTest) Flush() error                                     { return nil }
