// Package manifest reads and builds BDBag remote file manifests and the
// metadata files passed alongside them.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/models"
)

// Read a remote file manifest. Entries are passed to the server untouched,
// the server is the only validator of their contents.
func ReadFile(path string) ([]json.RawMessage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apierrors.Wrapf(err, "could not read manifest")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, apierrors.Wrapf(err, "manifest %s must be a JSON array", path)
	}
	return entries, nil
}

// Read a JSON metadata file. An empty path yields nil.
func ReadMetadata(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apierrors.Wrapf(err, "could not read metadata")
	}

	var meta map[string]any
	if err := json.Unmarshal(content, &meta); err != nil {
		return nil, apierrors.Wrapf(err, "metadata %s must be a JSON object", path)
	}
	return meta, nil
}

// Keys of metadata values that are themselves objects. Bag-info files are
// flat, so nested values will not survive the trip.
func NestedFields(meta map[string]any) []string {
	var nested []string
	for k, v := range meta {
		if _, ok := v.(map[string]any); ok {
			nested = append(nested, k)
		}
	}
	sort.Strings(nested)
	return nested
}

// Write a manifest as an indented JSON array.
func Write(w io.Writer, files []models.RemoteFile) error {
	if files == nil {
		files = []models.RemoteFile{}
	}
	data, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
