package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
)

// WriteJSON writes records as the JSON array served to the browser and
// accepted back by Loader. The file is replaced atomically.
func WriteJSON(path string, records []entities.ProviderRecord) error {
	if records == nil {
		records = []entities.ProviderRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".network-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
