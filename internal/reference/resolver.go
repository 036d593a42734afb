package reference

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

// Resolution is what the resolver knows about one product.
type Resolution struct {
	Reference  domain.Reference
	Recognized bool
	Classified bool
}

// Resolver looks a code up in the reference source first and falls back to
// keyword classification of the label.
type Resolver struct {
	lookup     Lookup
	classifier *Classifier
}

func NewResolver(lookup Lookup, classifier *Classifier) *Resolver {
	if lookup == nil {
		lookup = NoopLookup{}
	}
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return &Resolver{lookup: lookup, classifier: classifier}
}

// Resolve never fails: a lookup error is logged and the label is classified.
func (r *Resolver) Resolve(ctx context.Context, code, label string) Resolution {
	guess, classified := r.classifier.Classify(label)

	if code = NormalizeCode(code); code != "" {
		ref, err := r.lookup.Lookup(ctx, code)
		if err != nil {
			log.Warn().Err(err).Str("code", code).Msg("reference lookup failed, classifying label")
		} else if ref != nil {
			out := *ref
			if out.ShelfCategory == "" {
				out.ShelfCategory = guess.Shelf
			}
			if strings.TrimSpace(out.BakingProgram) == "" {
				out.BakingProgram = guess.Program
			}
			if out.UnitsPerSaleLot <= 0 {
				out.UnitsPerSaleLot = 1
			}
			return Resolution{Reference: out, Recognized: true, Classified: classified}
		}
	}

	return Resolution{
		Reference: domain.Reference{
			Code:            code,
			ShelfCategory:   guess.Shelf,
			BakingProgram:   guess.Program,
			UnitsPerSaleLot: 1,
		},
		Classified: classified,
	}
}

// Apply fills the shelf, program and packing data of p. Values the user
// already set on a custom product are kept.
func (r *Resolver) Apply(ctx context.Context, p *domain.Product) {
	res := r.Resolve(ctx, p.ReferenceCode, p.Label)
	ref := res.Reference

	p.IsRecognizedByReference = res.Recognized
	if res.Recognized && ref.DisplayLabel != "" {
		p.Label = ref.DisplayLabel
	}
	if p.IsCustom && p.ShelfCategory != "" {
		return
	}
	p.ShelfCategory = ref.ShelfCategory
	p.BakingProgram = ref.BakingProgram
	p.UnitsPerSaleLot = ref.UnitsPerSaleLot
	p.UnitsPerTray = ref.UnitsPerTray
}
