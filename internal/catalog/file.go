package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Load reads the cache at path. A missing file is an empty cache. A file that
// doesn't parse is discarded wholesale: the error is logged and an empty cache
// is returned.
func Load(path string, log *zap.Logger) (Cache, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Cache{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache %q: %w", path, err)
	}

	var cache Cache
	if err := json.Unmarshal(contents, &cache); err != nil {
		log.Warn("cache file is corrupted, starting with an empty cache",
			zap.String("path", path), zap.Error(err))
		return Cache{}, nil
	}
	if cache == nil {
		// The document was a literal null.
		cache = Cache{}
	}
	return cache, nil
}

// Save rewrites the whole cache. The new contents are written to a temporary
// file in the same directory and renamed over path, so readers see either the
// old document or the new one.
func Save(path string, cache Cache) error {
	contents, err := json.MarshalIndent(cache, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %q: %w", tmp.Name(), err)
	}
	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing cache %q: %w", path, err)
	}
	return nil
}
