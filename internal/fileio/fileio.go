// Package fileio implements the atomic write-with-backup primitive used to
// persist lapse's data files, plus tolerant JSON loading where an absent or
// empty file means empty state.
package fileio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/lapse/internal/errors"
)

// SafeSave writes data to path all-or-nothing: the bytes land in a temp
// file first, any previous file rotates to path+".bak", and the temp file
// renames into place. A crash at any point leaves either the old file or
// the new one, never a partial write.
func SafeSave(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create data directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewInternal(fmt.Errorf("failed to write %s: %w", path, err))
	}
	if err := tmp.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to write %s: %w", path, err))
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".bak"); err != nil {
			return errors.NewInternal(fmt.Errorf("failed to rotate backup for %s: %w", path, err))
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to replace %s: %w", path, err))
	}
	success = true
	return nil
}

// LoadJSON reads path and unmarshals it into v. An absent or empty file is
// not an error: v is left untouched and ok is false. A non-empty file that
// fails to parse is a MalformedData error.
func LoadJSON(path string, v any) (ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.NewInternal(fmt.Errorf("failed to read %s: %w", path, err))
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.NewMalformedData(path, err)
	}
	return true, nil
}

// SaveJSON marshals v and writes it via SafeSave.
func SaveJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}
	return SafeSave(path, data)
}
