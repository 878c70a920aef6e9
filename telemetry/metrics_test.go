package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/duosort/recording"
)

func TestInstrumentCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	rec := recording.NewRecorder()
	in := NewInstrument(m, rec)

	in.OnStep(0, []int{2, 1}, 0, "Bubble Sort", "O(n²)")
	in.OnStep(0, []int{1, 2}, 1, "Bubble Sort", "O(n²)")
	in.OnStep(1, []int{2, 1}, 0, "Heap Sort", "O(n log n)")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.StepsTotal.WithLabelValues("0", "Bubble Sort")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StepsTotal.WithLabelValues("1", "Heap Sort")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Mutations.WithLabelValues("0")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Running.WithLabelValues("1")))

	in.OnError("lane 1", "boom")
	in.OnLaneIdle(1)
	in.OnLaneIdle(0)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("lane 1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IdleTotal.WithLabelValues("0")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Running.WithLabelValues("1")))

	runs := rec.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "boom", runs[0].Err)
}

func TestNilNextDiscards(t *testing.T) {
	in := NewInstrument(NewMetrics(prometheus.NewRegistry()), nil)
	in.OnStep(0, nil, 0, "a", "b")
	in.OnLaneIdle(0)
	in.OnError("x", "y")
}

func TestServeMux(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	NewInstrument(m, nil).OnStep(1, []int{1}, 0, "Merge Sort", "O(n log n)")

	srv := httptest.NewServer(NewServeMux(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `duosort_lane_steps_total{algorithm="Merge Sort",lane="1"} 1`)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
