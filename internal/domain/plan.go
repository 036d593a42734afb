package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Variant bounds how far a day's quantity may exceed its historical floor.
type Variant string

const (
	VariantNone  Variant = "none"
	VariantCap20 Variant = "cap20"
	VariantCap10 Variant = "cap10"
)

// Cap returns the growth allowed over the floor, false for VariantNone.
func (v Variant) Cap() (float64, bool) {
	switch v {
	case VariantCap20:
		return 0.20, true
	case VariantCap10:
		return 0.10, true
	}
	return 0, false
}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return VariantNone, nil
	case "cap20", "+20%", "20":
		return VariantCap20, nil
	case "cap10", "+10%", "10":
		return VariantCap10, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// VariantKey scopes a variant to one shelf on one day.
type VariantKey struct {
	Shelf ShelfCategory
	Day   Day
}

// OverrideKey scopes a manual quantity to one product cell.
type OverrideKey struct {
	Shelf     ShelfCategory
	Day       Day
	ProductID string
}

// VariantSetting is the serializable form of a variant map entry.
type VariantSetting struct {
	Shelf   ShelfCategory `json:"shelf"`
	Day     Day           `json:"day"`
	Variant Variant       `json:"variant"`
}

// OverrideSetting is the serializable form of an override map entry.
type OverrideSetting struct {
	Shelf     ShelfCategory `json:"shelf"`
	Day       Day           `json:"day"`
	ProductID string        `json:"product_id"`
	Quantity  int           `json:"quantity"`
}

// VariantMap indexes settings by key. Later settings win.
func VariantMap(settings []VariantSetting) map[VariantKey]Variant {
	m := make(map[VariantKey]Variant, len(settings))
	for _, s := range settings {
		m[VariantKey{Shelf: s.Shelf, Day: s.Day}] = s.Variant
	}
	return m
}

// VariantSettings flattens a variant map, dropping VariantNone entries.
func VariantSettings(m map[VariantKey]Variant) []VariantSetting {
	out := make([]VariantSetting, 0, len(m))
	for k, v := range m {
		if v == "" || v == VariantNone {
			continue
		}
		out = append(out, VariantSetting{Shelf: k.Shelf, Day: k.Day, Variant: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shelf != out[j].Shelf {
			return out[i].Shelf.Rank() < out[j].Shelf.Rank()
		}
		return out[i].Day < out[j].Day
	})
	return out
}

// OverrideMap indexes settings by key. Later settings win.
func OverrideMap(settings []OverrideSetting) map[OverrideKey]int {
	m := make(map[OverrideKey]int, len(settings))
	for _, s := range settings {
		m[OverrideKey{Shelf: s.Shelf, Day: s.Day, ProductID: s.ProductID}] = s.Quantity
	}
	return m
}

// OverrideSettings flattens an override map.
func OverrideSettings(m map[OverrideKey]int) []OverrideSetting {
	out := make([]OverrideSetting, 0, len(m))
	for k, q := range m {
		out = append(out, OverrideSetting{Shelf: k.Shelf, Day: k.Day, ProductID: k.ProductID, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shelf != out[j].Shelf {
			return out[i].Shelf.Rank() < out[j].Shelf.Rank()
		}
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// SlotQuantities holds one number per production slot.
type SlotQuantities struct {
	Morning int `json:"morning"`
	Midday  int `json:"midday"`
	Evening int `json:"evening"`
}

func (q SlotQuantities) Get(s Slot) int {
	switch s {
	case Morning:
		return q.Morning
	case Midday:
		return q.Midday
	default:
		return q.Evening
	}
}

func (q *SlotQuantities) Add(s Slot, n int) {
	switch s {
	case Morning:
		q.Morning += n
	case Midday:
		q.Midday += n
	default:
		q.Evening += n
	}
}

func (q SlotQuantities) Sum() int {
	return q.Morning + q.Midday + q.Evening
}

// PlanEntry is the production of one product on one day.
type PlanEntry struct {
	Day           Day           `json:"day"`
	Shelf         ShelfCategory `json:"shelf"`
	BakingProgram string        `json:"baking_program"`
	ProductID     string        `json:"product_id"`
	Label         string        `json:"label"`
	SlotQuantities
	Total              int     `json:"total"`
	Base               int     `json:"base"`
	Floor              int     `json:"floor"`
	Redistributed      int     `json:"redistributed"`
	Variant            Variant `json:"variant"`
	UnitsPerSaleLot    int     `json:"units_per_sale_lot"`
	UnitsPerTray       int     `json:"units_per_tray"`
	Units              int     `json:"units"`
	Trays              float64 `json:"trays"`
	NotBaked           bool    `json:"not_baked"`
	ManuallyOverridden bool    `json:"manually_overridden"`
}

// Bucket aggregates the entries of one shelf and baking program on one day.
type Bucket struct {
	Shelf         ShelfCategory `json:"shelf"`
	BakingProgram string        `json:"baking_program"`
	Day           Day           `json:"day"`
	SlotQuantities
	Total    int     `json:"total"`
	Units    int     `json:"units"`
	Trays    float64 `json:"trays"`
	Products int     `json:"products"`
	NotBaked int     `json:"not_baked"`
}

// DayTotal aggregates every entry of one day.
type DayTotal struct {
	Day Day `json:"day"`
	SlotQuantities
	Total int     `json:"total"`
	Units int     `json:"units"`
	Trays float64 `json:"trays"`
}

const (
	LostNextDayClosed = "next day closed"
	LostEndOfWeek     = "end of week"
	LostSameDayClosed = "other half closed"
)

// LostQuantity records redistributed production that found no open slot.
type LostQuantity struct {
	ProductID string  `json:"product_id"`
	Day       Day     `json:"day"`
	HalfDay   HalfDay `json:"half_day"`
	Quantity  int     `json:"quantity"`
	Reason    string  `json:"reason"`
}

// PlanInput is the immutable snapshot a plan is derived from.
type PlanInput struct {
	Products  []Product
	Weights   TrafficWeights
	Closures  ClosureConfig
	Variants  map[VariantKey]Variant
	Overrides map[OverrideKey]int
}

// Variant returns the variant of a shelf on a day.
func (in PlanInput) Variant(shelf ShelfCategory, d Day) Variant {
	if v, ok := in.Variants[VariantKey{Shelf: shelf, Day: d}]; ok && v != "" {
		return v
	}
	return VariantNone
}

// Override returns the manual quantity of a product cell.
func (in PlanInput) Override(shelf ShelfCategory, d Day, productID string) (int, bool) {
	q, ok := in.Overrides[OverrideKey{Shelf: shelf, Day: d, ProductID: productID}]
	return q, ok
}

// Clone copies the maps so the copy can be changed without touching in.
func (in PlanInput) Clone() PlanInput {
	out := PlanInput{
		Products:  append([]Product(nil), in.Products...),
		Weights:   in.Weights.Clone(),
		Closures:  in.Closures.Clone(),
		Variants:  make(map[VariantKey]Variant, len(in.Variants)),
		Overrides: make(map[OverrideKey]int, len(in.Overrides)),
	}
	for k, v := range in.Variants {
		out.Variants[k] = v
	}
	for k, v := range in.Overrides {
		out.Overrides[k] = v
	}
	return out
}

// Plan is an immutable production plan snapshot. Recomputation returns a new
// Plan and never edits an existing one.
type Plan struct {
	Input     PlanInput      `json:"-"`
	Entries   []PlanEntry    `json:"entries"`
	Buckets   []Bucket       `json:"buckets"`
	DayTotals []DayTotal     `json:"day_totals"`
	Lost      []LostQuantity `json:"lost,omitempty"`
	Warnings  []Warning      `json:"warnings,omitempty"`
}

// Entry returns the entry of a product on a day.
func (p Plan) Entry(d Day, productID string) (PlanEntry, bool) {
	for _, e := range p.Entries {
		if e.Day == d && e.ProductID == productID {
			return e, true
		}
	}
	return PlanEntry{}, false
}

// ProductTotal sums a product's production over the week.
func (p Plan) ProductTotal(productID string) int {
	total := 0
	for _, e := range p.Entries {
		if e.ProductID == productID {
			total += e.Total
		}
	}
	return total
}

// DayTotal returns the aggregate of a day.
func (p Plan) DayTotal(d Day) DayTotal {
	for _, t := range p.DayTotals {
		if t.Day == d {
			return t
		}
	}
	return DayTotal{Day: d}
}
