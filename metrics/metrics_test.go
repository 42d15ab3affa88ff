package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCacheHitAndMiss(t *testing.T) {
	// Arrange
	hitsBefore := testutil.ToFloat64(globalManager.cacheHits)
	missesBefore := testutil.ToFloat64(globalManager.cacheMisses)

	// Act
	RecordCacheHit()
	RecordCacheHit()
	RecordCacheMiss()

	// Assert
	assert.Equal(t, hitsBefore+2, testutil.ToFloat64(globalManager.cacheHits))
	assert.Equal(t, missesBefore+1, testutil.ToFloat64(globalManager.cacheMisses))
}

func TestRecordChartRendered_ByKind(t *testing.T) {
	// Arrange
	barBefore := testutil.ToFloat64(globalManager.chartsRendered.WithLabelValues("bar"))
	pieBefore := testutil.ToFloat64(globalManager.chartsRendered.WithLabelValues("pie"))

	// Act
	RecordChartRendered("bar")
	RecordChartRendered("bar")
	RecordChartRendered("pie")

	// Assert
	assert.Equal(t, barBefore+2, testutil.ToFloat64(globalManager.chartsRendered.WithLabelValues("bar")))
	assert.Equal(t, pieBefore+1, testutil.ToFloat64(globalManager.chartsRendered.WithLabelValues("pie")))
}

func TestGetRegistry_GathersServiceMetrics(t *testing.T) {
	// Arrange
	RecordHTTPRequest("/v1/charts/regions", "GET", "200")
	RecordHTTPRequestDuration("/v1/charts/regions", "GET", "200", 12.5)

	// Act
	families, err := GetRegistry().Gather()

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	assert.True(t, names["geoplot_server_http_requests_total"], "request counter not gathered")
	assert.True(t, names["geoplot_server_http_request_duration_milliseconds"], "duration histogram not gathered")
}
