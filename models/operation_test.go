package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation_DecodeAndSummary(t *testing.T) {
	// Arrange
	payload := `{
		"name": "projects/demo/operations/QJRWCF6LS5NECGYFJZ5N7ZZV",
		"done": true,
		"metadata": {
			"state": "SUCCEEDED",
			"description": "export treecover stats",
			"type": "EXPORT_FEATURES",
			"attempt": 1,
			"progress": 1.0,
			"startTime": "2023-04-01T10:00:00Z",
			"endTime": "2023-04-01T11:02:03Z",
			"batchEecuUsageSeconds": 42.5
		}
	}`

	// Act
	var op Operation
	err := json.Unmarshal([]byte(payload), &op)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	summary := op.Summary()
	assert.Equal(t, "QJRWCF6LS5NECGYFJZ5N7ZZV", summary.ID)
	assert.Equal(t, "SUCCEEDED", summary.State)
	assert.Equal(t, "EXPORT_FEATURES", summary.Type)
	assert.Equal(t, "01:02:03", summary.Runtime)
	assert.Equal(t, 42.5, summary.EecuSeconds)
}

func TestOperation_RuntimeZeroWithoutStart(t *testing.T) {
	var op Operation
	assert.Equal(t, "00:00:00", op.Runtime())
}

func TestOperation_IDWithoutSlash(t *testing.T) {
	op := Operation{Name: "standalone"}
	assert.Equal(t, "standalone", op.ID())
}

func TestReduceRequest_ToValues(t *testing.T) {
	scale := 30
	best := true
	tile := 1.5

	req := ReduceRequest{
		Reducer:       "mean",
		LabelProperty: "system:index",
		Bands:         []string{"B4", "B8"},
		Region:        `{"type":"Point","coordinates":[0,0]}`,
		Scale:         &scale,
		BestEffort:    &best,
		TileScale:     &tile,
	}

	q := req.ToValues()

	assert.Equal(t, "mean", q.Get("reducer"))
	assert.Equal(t, "system:index", q.Get("labelProperty"))
	assert.Equal(t, "B4,B8", q.Get("bands"))
	assert.Equal(t, "30", q.Get("scale"))
	assert.Equal(t, "true", q.Get("bestEffort"))
	assert.Equal(t, "1.5", q.Get("tileScale"))
	if q.Get("maxPixels") != "" {
		t.Errorf("Expected unset params to be omitted, got %q", q.Get("maxPixels"))
	}
}
