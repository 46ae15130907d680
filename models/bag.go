package models

import "encoding/json"

// Request body for `POST /bags/`
type BagRequest struct {
	RemoteFileManifest []json.RawMessage `json:"remote_file_manifest"`
	MinidMetadata      map[string]any    `json:"minid_metadata"`
	BagMetadata        map[string]any    `json:"bag_metadata"`
	BagROMetadata      map[string]any    `json:"bag_ro_metadata"`
	BagName            *string           `json:"bag_name"`
	MinidTest          bool              `json:"minid_test"`
}

// Response body for `POST /bags/`, kept exactly as the server sent it.
type BagResult map[string]any

// Returns the minid of the created bag.
func (b BagResult) Minid() string {
	m, _ := b["minid"].(string)
	return m
}
