package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/importer"
)

// Catalog is an in-memory reference list, usually loaded from the csv or
// xlsx file the head office distributes.
type Catalog struct {
	byCode map[string]domain.Reference
}

func NewCatalog(refs []domain.Reference) *Catalog {
	c := &Catalog{byCode: make(map[string]domain.Reference, len(refs))}
	for _, ref := range refs {
		ref.Code = NormalizeCode(ref.Code)
		if ref.Code == "" {
			continue
		}
		c.byCode[ref.Code] = ref
	}
	return c
}

// LoadCatalog reads a reference file from disk.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer f.Close()

	refs, err := importer.ParseReferences(filepath.Base(path), f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference file: %w", err)
	}
	return NewCatalog(refs), nil
}

func (c *Catalog) Lookup(_ context.Context, code string) (*domain.Reference, error) {
	ref, ok := c.byCode[NormalizeCode(code)]
	if !ok {
		return nil, nil
	}
	return &ref, nil
}

func (c *Catalog) Len() int {
	return len(c.byCode)
}

// All returns the entries ordered by code.
func (c *Catalog) All() []domain.Reference {
	out := make([]domain.Reference, 0, len(c.byCode))
	for _, ref := range c.byCode {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
