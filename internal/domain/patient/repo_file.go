package patient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type fileRepo struct {
	path string
}

// NewFileRepo stores the collection as a JSON array in a single file.
func NewFileRepo(path string) Repository {
	return &fileRepo{path: path}
}

func (r *fileRepo) Load(_ context.Context) ([]Patient, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Patient{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return []Patient{}, nil
	}

	var patients []Patient
	if err := json.Unmarshal(data, &patients); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return patients, nil
}

// Save writes to a temporary file next to the target and renames it, so a
// crash mid-write never leaves a truncated collection behind.
func (r *fileRepo) Save(_ context.Context, patients []Patient) error {
	if patients == nil {
		patients = []Patient{}
	}
	data, err := json.MarshalIndent(patients, "", "  ")
	if err != nil {
		return fmt.Errorf("encode patients: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}
