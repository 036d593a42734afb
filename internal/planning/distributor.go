package planning

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

var halves = []domain.HalfDay{domain.AM, domain.PM}

// ComputePlan spreads the weekly potential of every plannable product over
// the days and slots of the week. Invalid closures or overrides are returned
// as domain.ValidationErrors and no plan is produced.
func ComputePlan(in domain.PlanInput) (domain.Plan, error) {
	if err := validateInput(in); err != nil {
		return domain.Plan{}, err
	}

	plan := domain.Plan{Input: in}
	for _, p := range in.Products {
		if !p.Plannable() {
			continue
		}
		d := deriveProduct(in, p)
		plan.Entries = append(plan.Entries, d.entries[:]...)
		plan.Lost = append(plan.Lost, d.lost...)
	}
	finalize(&plan)

	return plan, nil
}

// derivation is the week of one product.
type derivation struct {
	entries [7]domain.PlanEntry
	lost    []domain.LostQuantity
}

// deriveProduct computes the seven entries of a product. Both ComputePlan and
// the recomputation functions go through here so a scoped recompute yields
// exactly the cell a full rebuild would.
func deriveProduct(in domain.PlanInput, p domain.Product) derivation {
	var (
		out    derivation
		inflow [7]domain.SlotQuantities
	)

	for _, d := range domain.Week {
		e := newEntry(p, d)
		slotWeights := in.Weights.SlotWeights(d)

		// 1. Base quantity from the day weight
		if w, ok := in.Weights.Day(d); ok {
			e.Base = ceilQty(float64(p.WeeklyPotential) * w)
		}

		// 2. Historical floor of the weekday
		e.Floor = ceilQty(p.DailyHistory[d])

		// 3. Variant bounds growth over the floor
		e.Variant = in.Variant(p.ShelfCategory, d)
		qty := applyVariant(e.Base, e.Floor, e.Variant)

		// 4. Split into slots
		slots := splitSlots(qty, slotWeights, domain.Slots)

		// 5. Closures: zero closed halves, move exceptional closures
		closed := [2]int{}
		for _, h := range halves {
			for _, s := range h.Slots() {
				closed[h] += slots.Get(s)
			}
		}
		for _, h := range halves {
			half := in.Closures.Half(d, h)
			if half.Open() {
				continue
			}
			for _, s := range h.Slots() {
				slots.Add(s, -slots.Get(s))
			}
			if half.Status != domain.StatusExceptionallyClosed || half.Redistribution == nil || closed[h] == 0 {
				continue
			}

			r := *half.Redistribution
			same := roundQty(float64(closed[h]) * r.SameDayOtherSlotPercent / 100)
			next := roundQty(float64(closed[h])*r.Total()/100) - same
			if next < 0 {
				next = 0
			}

			if same > 0 {
				other := h.Other()
				if in.Closures.IsOpen(d, other) {
					moved := splitSlots(same, slotWeights, other.Slots())
					for _, s := range domain.Slots {
						slots.Add(s, moved.Get(s))
					}
					e.Redistributed += same
				} else {
					out.lost = append(out.lost, lostQuantity(p.ID, d, h, same, domain.LostSameDayClosed))
				}
			}

			if next > 0 {
				nd, ok := d.Next()
				switch {
				case !ok:
					out.lost = append(out.lost, lostQuantity(p.ID, d, h, next, domain.LostEndOfWeek))
				case in.Closures.IsOpen(nd, domain.AM):
					inflow[nd].Add(domain.Morning, next)
				case in.Closures.IsOpen(nd, domain.PM):
					moved := splitSlots(next, in.Weights.SlotWeights(nd), domain.PM.Slots())
					for _, s := range domain.PM.Slots() {
						inflow[nd].Add(s, moved.Get(s))
					}
				default:
					out.lost = append(out.lost, lostQuantity(p.ID, d, h, next, domain.LostNextDayClosed))
				}
			}
		}

		// 6. Share received from the previous day
		for _, s := range domain.Slots {
			slots.Add(s, inflow[d].Get(s))
		}
		e.Redistributed += inflow[d].Sum()

		// 7. Manual override replaces the cell, spread over the open halves
		if q, ok := in.Override(p.ShelfCategory, d, p.ID); ok {
			slots = splitSlots(q, slotWeights, openSlots(in.Closures, d))
			e.ManuallyOverridden = true
		}

		e.SlotQuantities = slots
		finishEntry(&e)
		out.entries[d] = e
	}

	return out
}

// applyVariant applies the historical floor and the growth cap of a variant.
// A cap needs a floor: without history the base quantity stands.
func applyVariant(base, floor int, v domain.Variant) int {
	growth, capped := v.Cap()
	if !capped || floor == 0 {
		return maxInt(base, floor)
	}
	return maxInt(floor, minInt(base, ceilQty(float64(floor)*(1+growth))))
}

// splitSlots spreads total over slots in proportion to their weights. The
// last slot with a positive weight absorbs the rounding remainder, so the
// evening takes it unless its weight is 0.
func splitSlots(total int, weights map[domain.Slot]float64, slots []domain.Slot) domain.SlotQuantities {
	var out domain.SlotQuantities
	if total <= 0 || len(slots) == 0 {
		return out
	}

	sum := 0.0
	for _, s := range slots {
		sum += weights[s]
	}
	if sum <= 0 {
		weights = domain.DefaultSlotSplit()
		sum = 0
		for _, s := range slots {
			sum += weights[s]
		}
	}

	absorber := slots[len(slots)-1]
	for i := len(slots) - 1; i >= 0; i-- {
		if weights[slots[i]] > 0 {
			absorber = slots[i]
			break
		}
	}

	remaining := total
	for _, s := range slots {
		if s == absorber {
			continue
		}
		q := minInt(roundQty(float64(total)*weights[s]/sum), remaining)
		out.Add(s, q)
		remaining -= q
	}
	out.Add(absorber, remaining)

	return out
}

// openSlots lists the slots of d whose half is open.
func openSlots(c domain.ClosureConfig, d domain.Day) []domain.Slot {
	var slots []domain.Slot
	for _, s := range domain.Slots {
		if c.SlotOpen(d, s) {
			slots = append(slots, s)
		}
	}
	return slots
}

func newEntry(p domain.Product, d domain.Day) domain.PlanEntry {
	return domain.PlanEntry{
		Day:             d,
		Shelf:           p.ShelfCategory,
		BakingProgram:   p.BakingProgram,
		ProductID:       p.ID,
		Label:           p.DisplayLabel(),
		UnitsPerSaleLot: p.UnitsPerSaleLot,
		UnitsPerTray:    p.UnitsPerTray,
	}
}

func finishEntry(e *domain.PlanEntry) {
	e.Total = e.SlotQuantities.Sum()
	e.Units = ProductionUnits(e.Total, e.UnitsPerSaleLot)
	trays, ok := Trays(e.Units, e.UnitsPerTray)
	e.Trays = trays
	e.NotBaked = !ok
}

func lostQuantity(productID string, d domain.Day, h domain.HalfDay, q int, reason string) domain.LostQuantity {
	return domain.LostQuantity{ProductID: productID, Day: d, HalfDay: h, Quantity: q, Reason: reason}
}

// validateInput collects closure and override problems.
func validateInput(in domain.PlanInput) error {
	var errs domain.ValidationErrors
	if err := in.Closures.Validate(); err != nil {
		var ve domain.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		errs = append(errs, ve...)
	}
	for k, q := range in.Overrides {
		if err := validateOverride(in, k, q); err != nil {
			errs = append(errs, *err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs
}

func validateOverride(in domain.PlanInput, k domain.OverrideKey, q int) *domain.ValidationError {
	field := fmt.Sprintf("overrides.%s.%s.%s", k.Shelf, k.Day, k.ProductID)
	switch {
	case !k.Day.Valid():
		return &domain.ValidationError{Field: field, Message: "invalid day"}
	case q < 0:
		return &domain.ValidationError{Field: field, Message: "quantity must not be negative"}
	case in.Closures.ClosedAllDay(k.Day):
		return &domain.ValidationError{Field: field, Message: fmt.Sprintf("%s is closed", k.Day.Label())}
	}
	return nil
}

// finalize orders the entries and rebuilds every aggregate of the plan.
func finalize(plan *domain.Plan) {
	sort.SliceStable(plan.Entries, func(i, j int) bool {
		a, b := plan.Entries[i], plan.Entries[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Shelf != b.Shelf {
			return a.Shelf.Rank() < b.Shelf.Rank()
		}
		if a.BakingProgram != b.BakingProgram {
			return a.BakingProgram < b.BakingProgram
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.ProductID < b.ProductID
	})
	sort.SliceStable(plan.Lost, func(i, j int) bool {
		a, b := plan.Lost[i], plan.Lost[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.HalfDay < b.HalfDay
	})

	plan.Buckets = aggregateBuckets(plan.Entries)
	plan.DayTotals = aggregateDays(plan.Entries)
	plan.Warnings = planWarnings(plan.Input, plan.Lost)
}

type bucketKey struct {
	shelf   domain.ShelfCategory
	program string
	day     domain.Day
}

// aggregateBuckets rolls entries into (shelf, baking program, day) buckets.
// Entries must already be ordered; buckets keep their first-seen order.
func aggregateBuckets(entries []domain.PlanEntry) []domain.Bucket {
	index := make(map[bucketKey]int)
	var buckets []domain.Bucket
	for _, e := range entries {
		k := bucketKey{shelf: e.Shelf, program: e.BakingProgram, day: e.Day}
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, domain.Bucket{Shelf: e.Shelf, BakingProgram: e.BakingProgram, Day: e.Day})
		}
		b := &buckets[i]
		for _, s := range domain.Slots {
			b.Add(s, e.Get(s))
		}
		b.Total += e.Total
		b.Units += e.Units
		b.Products++
		if e.NotBaked {
			b.NotBaked++
		} else {
			b.Trays += e.Trays
		}
	}
	return buckets
}

func aggregateDays(entries []domain.PlanEntry) []domain.DayTotal {
	totals := make([]domain.DayTotal, len(domain.Week))
	for i, d := range domain.Week {
		totals[i].Day = d
	}
	for _, e := range entries {
		t := &totals[e.Day]
		for _, s := range domain.Slots {
			t.Add(s, e.Get(s))
		}
		t.Total += e.Total
		t.Units += e.Units
		if !e.NotBaked {
			t.Trays += e.Trays
		}
	}
	return totals
}

func planWarnings(in domain.PlanInput, lost []domain.LostQuantity) []domain.Warning {
	var warnings []domain.Warning
	for _, p := range in.Products {
		if p.Active && p.WeeklyPotential <= 0 {
			warnings = append(warnings, domain.Warning{
				Kind:      domain.WarnZeroSales,
				ProductID: p.ID,
				Message:   fmt.Sprintf("%s has no potential and is not planned", p.DisplayLabel()),
			})
		}
	}
	for _, l := range lost {
		w := domain.DayWarning(domain.WarnLostRedistribution, l.Day,
			fmt.Sprintf("%d lost from %s %s: %s", l.Quantity, l.Day.Label(), l.HalfDay, l.Reason))
		w.ProductID = l.ProductID
		warnings = append(warnings, w)
	}
	return warnings
}
