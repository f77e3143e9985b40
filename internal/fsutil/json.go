package fsutil

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON marshals v with two-space indentation and writes it atomically.
func WriteJSON(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", path, err)
	}
	return WriteFileAtomic(path, data, perm)
}

// ReadJSON decodes the file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// ValidJSON checks that path holds well-formed JSON. A missing file is
// valid.
func ValidJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s is not valid JSON", path)
	}
	return nil
}
