// Package seed loads catalog fixtures written in the historical document shape.
package seed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/storefront/internal/domains/catalog/domain"
)

// File is the top-level layout of a seed document.
type File struct {
	Products []map[string]any `yaml:"products"`
}

// LoadYAML decodes a seed file and normalises every entry. Each entry must
// carry an "id" key; the remaining keys may use any legacy spelling.
func LoadYAML(r io.Reader) ([]*domain.Product, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	products := make([]*domain.Product, 0, len(file.Products))
	seen := make(map[string]struct{}, len(file.Products))
	for i, entry := range file.Products {
		id, _ := entry["id"].(string)
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("seed entry %d: %w", i, domain.ErrInvalidProductID)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("seed entry %d: duplicate product id %q", i, id)
		}
		seen[id] = struct{}{}
		delete(entry, "id")
		products = append(products, domain.Normalize(id, domain.RawProduct(entry)))
	}
	return products, nil
}
