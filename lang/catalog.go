package lang

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// catalog is one language's message table.
type catalog map[string]string

// loadCatalog reads the per-code message file "<dir>/<code>.json". A
// missing file yields an empty catalog so sparse translations work;
// malformed JSON is an error so broken catalogs surface at load time
// rather than as silent "[key]" fallbacks.
func loadCatalog(dir, code string) (catalog, error) {
	path := filepath.Join(dir, code+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read message catalog %s: %w", path, err)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse message catalog %s: %w", path, err)
	}
	return catalog(m), nil
}

// CheckCatalogDir parses every catalog file in dir and returns how many
// were checked. The first unreadable or malformed catalog aborts the
// check.
func CheckCatalogDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read catalog dir %s: %w", dir, err)
	}

	checked := 0
	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}
		code := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if _, err := loadCatalog(dir, code); err != nil {
			return checked, err
		}
		checked++
	}
	return checked, nil
}
