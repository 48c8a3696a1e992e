package record

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Load reads a record from a TOML file. A missing file is an error that
// satisfies errors.Is(err, os.ErrNotExist).
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("record: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a record from TOML.
func Parse(data []byte) (Record, error) {
	var r Record
	if err := toml.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("record: parse: %w", err)
	}
	return r, nil
}

// Save writes the record to path as TOML, creating parent directories as
// needed. The record is validated first and given an ID if it has none.
func Save(path string, r *Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.EnsureID()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("record: create directory %s: %w", dir, err)
	}
	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("record: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("record: write %s: %w", path, err)
	}
	return nil
}
