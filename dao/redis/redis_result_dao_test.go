package redis

import (
	"context"
	"math"
	"testing"
	"time"

	"geoplot-server/db"
	"geoplot-server/models"
)

func TestRedisResultDAO_SetAndGetReduction(t *testing.T) {
	// Setup
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisResultDAO(mockClient, time.Minute)

	table := models.NewReductionTable().
		Add("zebra", "NDVI", 0.62).
		Add("zebra", "EVI", math.NaN()).
		Add("alpha", "NDVI", 0.13)
	key := ReductionKey("/image/byBands", "asset=MODIS%2F006%2FMOD13A2&reducer=mean")

	// Act
	err := dao.SetReduction(key, table)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cached, err := dao.GetReduction(key)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cached == nil {
		t.Fatalf("Expected a cached table, got nil")
	}

	// Row order survives the round trip
	rows := cached.Rows()
	if len(rows) != 2 || rows[0] != "zebra" || rows[1] != "alpha" {
		t.Errorf("Expected rows [zebra alpha], got %v", rows)
	}

	// Null samples survive as NaN
	evi, ok := cached.Value("zebra", "EVI")
	if !ok || !math.IsNaN(evi) {
		t.Errorf("Expected NaN EVI after round trip, got %f", evi)
	}
}

func TestRedisResultDAO_GetReduction_Miss(t *testing.T) {
	// Setup
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisResultDAO(mockClient, time.Minute)

	// Act
	cached, err := dao.GetReduction(ReductionKey("/image/byBands", "asset=a"))

	// Assert
	if err != nil {
		t.Fatalf("Expected no error on a miss, got %v", err)
	}
	if cached != nil {
		t.Errorf("Expected nil table on a miss, got %v", cached)
	}
}

func TestRedisResultDAO_ExpiredReductionIsAMiss(t *testing.T) {
	// Setup
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisResultDAO(mockClient, -time.Second)

	table := models.NewReductionTable().Add("r", "c", 1)
	key := ReductionKey("/image/byBands", "asset=a")

	// Act
	if err := dao.SetReduction(key, table); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cached, err := dao.GetReduction(key)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cached != nil {
		t.Errorf("Expected expired entry to be a miss, got %v", cached)
	}
}

func TestReductionKey_Deterministic(t *testing.T) {
	// Act
	a := ReductionKey("/image/byBands", "asset=a&reducer=mean")
	b := ReductionKey("/image/byBands", "asset=a&reducer=mean")
	c := ReductionKey("/image/byBands", "asset=a&reducer=max")
	d := ReductionKey("/image/byRegions", "asset=a&reducer=mean")

	// Assert
	if a != b {
		t.Errorf("Expected identical calls to share a key, got %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("Expected different reducers to get different keys")
	}
	if a == d {
		t.Errorf("Expected different endpoints to get different keys")
	}
}

func TestRedisResultDAO_InvalidateReductions(t *testing.T) {
	// Setup
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisResultDAO(mockClient, time.Minute)

	table := models.NewReductionTable().Add("r", "c", 1)
	_ = dao.SetReduction(ReductionKey("/image/byBands", "asset=a"), table)
	_ = dao.SetReduction(ReductionKey("/image/byRegions", "asset=b"), table)
	_ = dao.SetOperations([]models.Operation{{Name: "projects/p/operations/X"}})

	// Act
	removed, err := dao.InvalidateReductions()

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed keys, got %d", removed)
	}

	// Operations snapshot is untouched
	ops, err := dao.GetOperations()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ops) != 1 {
		t.Errorf("Expected operations snapshot to survive, got %v", ops)
	}
}

func TestRedisResultDAO_SetAndGetOperations(t *testing.T) {
	// Setup
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisResultDAO(mockClient, time.Minute)

	ops := []models.Operation{
		{
			Name: "projects/p/operations/ABC",
			Done: false,
			Metadata: models.OperationMetadata{
				State: models.OperationStateRunning,
				Type:  "EXPORT_IMAGE",
			},
		},
	}

	// Act
	if err := dao.SetOperations(ops); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cached, err := dao.GetOperations()

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("Expected 1 operation, got %d", len(cached))
	}
	if cached[0].ID() != "ABC" {
		t.Errorf("Expected operation ID 'ABC', got %s", cached[0].ID())
	}
}

func TestRedisResultDAO_GetOperations_Miss(t *testing.T) {
	// Setup
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisResultDAO(mockClient, time.Minute)

	// Act
	ops, err := dao.GetOperations()

	// Assert
	if err != nil {
		t.Fatalf("Expected no error on a miss, got %v", err)
	}
	if ops != nil {
		t.Errorf("Expected nil operations on a miss, got %v", ops)
	}
}

func TestRedisResultDAO_SetAndGetAssetFolders(t *testing.T) {
	// Setup
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisResultDAO(mockClient, time.Minute)

	folders := []models.AssetFolder{
		{ID: "users/demo", Name: "projects/earthengine-legacy/assets/users/demo", Type: "Folder"},
	}

	// Act
	if err := dao.SetAssetFolders("projects/demo", folders); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cached, err := dao.GetAssetFolders("projects/demo")

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("Expected 1 folder, got %d", len(cached))
	}
	if cached[0].ID != "users/demo" {
		t.Errorf("Expected folder ID 'users/demo', got %s", cached[0].ID)
	}

	// Another project is still a miss
	other, err := dao.GetAssetFolders("projects/other")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if other != nil {
		t.Errorf("Expected nil folders for another project, got %v", other)
	}
}
