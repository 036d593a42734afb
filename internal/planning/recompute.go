package planning

import (
	"fmt"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

// ApplyVariant returns a new plan where the cells of (shelf, day) follow
// variant v. Every cell outside that scope is copied unchanged; plan itself
// is not modified.
func ApplyVariant(plan domain.Plan, shelf domain.ShelfCategory, day domain.Day, v domain.Variant) (domain.Plan, error) {
	parsed, err := domain.ParseVariant(string(v))
	if err != nil {
		return domain.Plan{}, domain.ValidationErrors{{Field: "variant", Message: err.Error()}}
	}
	if !day.Valid() {
		return domain.Plan{}, domain.ValidationErrors{{Field: "day", Message: "invalid day"}}
	}

	in := plan.Input.Clone()
	key := domain.VariantKey{Shelf: shelf, Day: day}
	if parsed == domain.VariantNone {
		delete(in.Variants, key)
	} else {
		in.Variants[key] = parsed
	}

	return rederive(plan, in, shelf, day), nil
}

// ApplyOverride returns a new plan where one product cell is set to quantity
// verbatim and marked as manually overridden.
func ApplyOverride(plan domain.Plan, shelf domain.ShelfCategory, day domain.Day, productID string, quantity int) (domain.Plan, error) {
	p, ok := findProduct(plan.Input.Products, productID)
	if !ok {
		return domain.Plan{}, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	if p.ShelfCategory != shelf {
		return domain.Plan{}, domain.ValidationErrors{{
			Field:   "shelf",
			Message: fmt.Sprintf("product %s belongs to %s", productID, p.ShelfCategory),
		}}
	}

	key := domain.OverrideKey{Shelf: shelf, Day: day, ProductID: productID}
	if verr := validateOverride(plan.Input, key, quantity); verr != nil {
		return domain.Plan{}, domain.ValidationErrors{*verr}
	}

	in := plan.Input.Clone()
	in.Overrides[key] = quantity

	return rederive(plan, in, shelf, day), nil
}

// ClearOverride returns a new plan where the product cell is derived again.
func ClearOverride(plan domain.Plan, shelf domain.ShelfCategory, day domain.Day, productID string) domain.Plan {
	in := plan.Input.Clone()
	delete(in.Overrides, domain.OverrideKey{Shelf: shelf, Day: day, ProductID: productID})

	return rederive(plan, in, shelf, day)
}

// rederive recomputes the (shelf, day) cells under in and rebuilds the
// aggregates. The next day's cells of the same products are derived again as
// well, since they receive what an exceptional closure on day sends forward.
func rederive(plan domain.Plan, in domain.PlanInput, shelf domain.ShelfCategory, day domain.Day) domain.Plan {
	days := []domain.Day{day}
	if nd, ok := day.Next(); ok {
		days = append(days, nd)
	}

	cells := make(map[string]derivation)
	var lost []domain.LostQuantity
	for _, p := range in.Products {
		if p.ShelfCategory != shelf || !p.Plannable() {
			continue
		}
		d := deriveProduct(in, p)
		cells[p.ID] = d
		for _, l := range d.lost {
			if l.Day == day {
				lost = append(lost, l)
			}
		}
	}

	out := domain.Plan{
		Input:   in,
		Entries: make([]domain.PlanEntry, len(plan.Entries)),
	}
	for i, e := range plan.Entries {
		if d, ok := cells[e.ProductID]; ok && inDays(e.Day, days) {
			out.Entries[i] = d.entries[e.Day]
			continue
		}
		out.Entries[i] = e
	}
	for _, l := range plan.Lost {
		if _, ok := cells[l.ProductID]; ok && l.Day == day {
			continue
		}
		out.Lost = append(out.Lost, l)
	}
	out.Lost = append(out.Lost, lost...)

	finalize(&out)

	return out
}

func inDays(d domain.Day, days []domain.Day) bool {
	for _, x := range days {
		if x == d {
			return true
		}
	}
	return false
}

func findProduct(products []domain.Product, id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
