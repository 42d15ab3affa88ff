package util

import (
	"encoding/json"
	"fmt"
	"os"

	"geoplot-server/models"
)

// ReadReductionTableFromJSON loads a ReductionTable from JSON on disk.
func ReadReductionTableFromJSON(filePath string) (*models.ReductionTable, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var table models.ReductionTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ReductionTable: %w", err)
	}
	return &table, nil
}

// ReadOperationsFromJSON loads a ListOperationsResponse from JSON on disk.
func ReadOperationsFromJSON(filePath string) (*models.ListOperationsResponse, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var resp models.ListOperationsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ListOperationsResponse: %w", err)
	}
	return &resp, nil
}

// ReadAssetFoldersFromJSON loads a ListAssetFoldersResponse from JSON on disk.
func ReadAssetFoldersFromJSON(filePath string) (*models.ListAssetFoldersResponse, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var resp models.ListAssetFoldersResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ListAssetFoldersResponse: %w", err)
	}
	return &resp, nil
}
