// Package tokens persists OAuth tokens in a single JSON file. The file is the
// only record of whether the user is logged in.
package tokens

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/models"
)

// Store reads and writes the token file at Path.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load the token file. Any failure to produce a usable token set is reported
// as a login required error.
func (s *Store) Load() (*models.TokenFile, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apierrors.LoginRequired("no saved tokens", nil)
		}
		return nil, apierrors.LoginRequired("could not read token file", err)
	}

	var tf models.TokenFile
	if err := json.Unmarshal(content, &tf); err != nil {
		return nil, apierrors.LoginRequired("token file is corrupt", err)
	}
	if len(tf.Tokens) == 0 {
		return nil, apierrors.LoginRequired("no saved tokens", nil)
	}

	for rs, t := range tf.Tokens {
		t.ResourceServer = rs
		tf.Tokens[rs] = t
	}

	console.Log().Debug().Str("path", s.Path).Int("tokens", len(tf.Tokens)).Msg("loaded token file")
	return &tf, nil
}

// Save replaces the token file with tf.
func (s *Store) Save(tf *models.TokenFile) error {
	if tf == nil {
		return apierrors.LoginRequired("nothing to save", nil)
	}
	if tf.Tokens == nil {
		tf.Tokens = map[string]models.TokenRecord{}
	}

	content, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return apierrors.LoginRequired("could not encode tokens", err)
	}

	if err := writeFile(s.Path, content); err != nil {
		return apierrors.LoginRequired("could not write token file", err)
	}

	console.Log().Debug().Str("path", s.Path).Int("tokens", len(tf.Tokens)).Msg("saved token file")
	return nil
}

// Delete removes the token file. Returns false if there was nothing to delete.
func (s *Store) Delete() (bool, error) {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete token file: %w", err)
	}
	return true, nil
}

// Exists reports whether a token file is present, without validating it.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Writes via a temp file in the same directory so a crash never leaves a
// half written token file behind.
func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
