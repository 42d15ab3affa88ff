package earthengine

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"geoplot-server/api"
	"geoplot-server/models"
)

func TestByBands_RequestShape(t *testing.T) {
	// Mock server setup
	var gotPath, gotAsset, gotReducer, gotScale, gotAuth string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAsset = r.URL.Query().Get("asset")
		gotReducer = r.URL.Query().Get("reducer")
		gotScale = r.URL.Query().Get("scale")
		gotAuth = r.Header.Get("Authorization")

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Forest": {"NDVI": 0.62, "EVI": 0.38}, "Desert": {"NDVI": 0.13, "EVI": 0.09}}`))
	}))
	defer mockServer.Close()

	// Test setup
	scale := 500
	client := NewEarthEngineApiClient(api.NewHTTPClient(mockServer.URL))
	client.SetCredentials("test-token")

	// Act
	table, err := client.ByBands("MODIS/006/MOD13A2", models.ReduceRequest{
		Reducer: "mean",
		Bands:   []string{"NDVI", "EVI"},
		Scale:   &scale,
	})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	assert.Equal(t, "/image/byBands", gotPath)
	assert.Equal(t, "MODIS/006/MOD13A2", gotAsset)
	assert.Equal(t, "mean", gotReducer)
	assert.Equal(t, "500", gotScale)
	assert.Equal(t, "Bearer test-token", gotAuth)

	assert.Equal(t, []string{"Forest", "Desert"}, table.Rows())
	ndvi, ok := table.Value("Forest", "NDVI")
	if !ok {
		t.Fatalf("Expected a NDVI sample for Forest")
	}
	assert.Equal(t, 0.62, ndvi)
}

func TestReduceEndpoints_Paths(t *testing.T) {
	// Mock server setup
	var gotPath string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"r": {"c": 1}}`))
	}))
	defer mockServer.Close()

	client := NewEarthEngineApiClient(api.NewHTTPClient(mockServer.URL))
	req := models.ReduceRequest{Reducer: "mean"}

	tests := []struct {
		name string
		call func() (*models.ReductionTable, error)
		path string
	}{
		{"byProperties", func() (*models.ReductionTable, error) { return client.ByProperties("a", req) }, "/table/byProperties"},
		{"byFeatures", func() (*models.ReductionTable, error) { return client.ByFeatures("a", req) }, "/table/byFeatures"},
		{"byRegions", func() (*models.ReductionTable, error) { return client.ByRegions("a", req) }, "/image/byRegions"},
		{"datesByBands", func() (*models.ReductionTable, error) { return client.DatesByBands("a", req) }, "/collection/datesByBands"},
		{"datesByRegions", func() (*models.ReductionTable, error) { return client.DatesByRegions("a", req) }, "/collection/datesByRegions"},
		{"histogram", func() (*models.ReductionTable, error) { return client.FixedHistogram("a", req) }, "/image/histogram"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			table, err := tt.call()

			// Assert
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			assert.Equal(t, tt.path, gotPath)
			assert.Equal(t, 1, table.Len())
		})
	}
}

func TestListOperations_DecodesEnvelope(t *testing.T) {
	// Mock server setup
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/operations" {
			t.Errorf("Expected endpoint '/operations', got '%s'", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"operations": [{"name": "projects/p/operations/ABC", "done": true, "metadata": {"state": "SUCCEEDED", "type": "EXPORT_IMAGE"}}]}`))
	}))
	defer mockServer.Close()

	client := NewEarthEngineApiClient(api.NewHTTPClient(mockServer.URL))

	// Act
	ops, err := client.ListOperations()

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	assert.Len(t, ops, 1)
	assert.Equal(t, "ABC", ops[0].ID())
	assert.Equal(t, models.OperationStateSucceeded, ops[0].Metadata.State)
}

func TestListAssetFolders_SendsProject(t *testing.T) {
	// Mock server setup
	var gotProject string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotProject = r.URL.Query().Get("project")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"folders": [{"id": "users/demo", "name": "projects/earthengine-legacy/assets/users/demo", "type": "Folder"}]}`))
	}))
	defer mockServer.Close()

	client := NewEarthEngineApiClient(api.NewHTTPClient(mockServer.URL))

	// Act
	folders, err := client.ListAssetFolders("projects/demo")

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	assert.Equal(t, "projects/demo", gotProject)
	assert.Len(t, folders, 1)
	assert.Equal(t, "users/demo", folders[0].ID)
}

func TestReduce_UpstreamError(t *testing.T) {
	// Mock server setup
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "not authorized"}`))
	}))
	defer mockServer.Close()

	client := NewEarthEngineApiClient(api.NewHTTPClient(mockServer.URL))

	// Act
	table, err := client.ByProperties("a", models.ReduceRequest{})

	// Assert
	if err == nil {
		t.Fatalf("Expected an error, got nil")
	}
	assert.Nil(t, table)
}
