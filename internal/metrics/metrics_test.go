package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "landcover")

	c.RecordOperation("area_stats", "ok", 400)
	c.RecordOperation("area_stats", "ok", 400)
	c.RecordOperation("transition_matrix", "error", 0)

	if got := testutil.ToFloat64(c.OperationsTotal.WithLabelValues("area_stats", "ok")); got != 2 {
		t.Errorf("area_stats ok: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.OperationsTotal.WithLabelValues("transition_matrix", "error")); got != 1 {
		t.Errorf("transition_matrix error: got %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.GridPixels); got != 1 {
		t.Errorf("grid_pixels series: got %d, want 1", got)
	}
}

func TestCollector_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "landcover")

	c.RecordAPIRequest("/lulc/{year}", "GET", "200")
	c.SetCacheEntries(3)

	expected := `
# HELP landcover_raster_cache_entries Number of decoded rasters held in memory
# TYPE landcover_raster_cache_entries gauge
landcover_raster_cache_entries 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "landcover_raster_cache_entries"); err != nil {
		t.Error(err)
	}

	if got := testutil.ToFloat64(c.APIRequestsTotal.WithLabelValues("/lulc/{year}", "GET", "200")); got != 1 {
		t.Errorf("api requests: got %v, want 1", got)
	}
}

func TestCollector_SeparateRegistries(t *testing.T) {
	// Registering twice on fresh registries must not panic.
	NewCollector(prometheus.NewRegistry(), "landcover")
	NewCollector(prometheus.NewRegistry(), "landcover")
}

func TestTimer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "landcover")

	timer := c.NewTimer(c.OperationDuration.WithLabelValues("area_stats"))
	if d := timer.ObserveDuration(); d < 0 {
		t.Errorf("duration: got %v", d)
	}
	if got := testutil.CollectAndCount(c.OperationDuration); got != 1 {
		t.Errorf("duration series: got %d, want 1", got)
	}
}
