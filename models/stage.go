package models

// Request body for `POST /stagebag/`
type StageRequest struct {
	Minids                []string `json:"minids"`
	DestinationEndpoint   string   `json:"destination_endpoint"`
	DestinationPathPrefix *string  `json:"destination_path_prefix"`
	BagDirs               bool     `json:"bag_dirs"`
	TransferLabel         string   `json:"transfer_label"`
}

// Response body for `POST /stagebag/`
type StageResult struct {
	// Source endpoint -> files transferred from it.
	TransferCatalog       map[string][]any `json:"transfer_catalog"`
	DestinationEndpoint   string           `json:"destination_endpoint"`
	DestinationPathPrefix string           `json:"destination_path_prefix"`
	URL                   string           `json:"url"`
	TransferTaskIDs       []string         `json:"transfer_task_ids"`
	ErrorCatalog          map[string]any   `json:"error_catalog"`

	// Decoded response body as returned by the server.
	Raw map[string]any `json:"-"`
}
