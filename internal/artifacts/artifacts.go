// Package artifacts persists opaque serialized objects (the fitted
// transformer and the selected model) using encoding/gob. Artifacts are
// overwritten wholesale on every training run.
package artifacts

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Save serializes obj to path, creating parent directories as needed.
func Save(path string, obj any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(obj); err != nil {
		return fmt.Errorf("encode artifact %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("artifact saved")
	return nil
}

// Load deserializes the artifact at path into obj, which must be a pointer.
func Load(path string, obj any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(obj); err != nil {
		return fmt.Errorf("decode artifact %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("artifact loaded")
	return nil
}
