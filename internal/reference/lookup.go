// Package reference resolves imported product codes and labels to their
// shelf, baking program and packing data.
package reference

import (
	"context"
	"strings"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

// Lookup finds the reference entry of a product code. A nil entry with a nil
// error means the code is unknown.
type Lookup interface {
	Lookup(ctx context.Context, code string) (*domain.Reference, error)
}

// NoopLookup knows no code; every product goes through the classifier.
type NoopLookup struct{}

func (NoopLookup) Lookup(context.Context, string) (*domain.Reference, error) {
	return nil, nil
}

// NormalizeCode is the canonical form codes are stored and looked up under.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
