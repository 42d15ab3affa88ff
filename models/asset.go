package models

// AssetFolder is a top-level asset container: a legacy user root or a
// cloud project's asset home.
type AssetFolder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ListAssetFoldersResponse wraps the folder listing endpoint's payload.
type ListAssetFoldersResponse struct {
	Folders []AssetFolder `json:"folders"`
}
