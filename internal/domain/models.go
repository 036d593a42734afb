package domain

import (
	"fmt"
	"strings"
	"time"
)

// ShelfCategory is the top-level product grouping (rayon).
type ShelfCategory string

const (
	ShelfBakery      ShelfCategory = "bakery"
	ShelfPastryBread ShelfCategory = "pastry_bread"
	ShelfPastry      ShelfCategory = "pastry"
	ShelfSnacking    ShelfCategory = "snacking"
	ShelfOther       ShelfCategory = "other"
)

// ShelfOrder is the fixed print layout order.
var ShelfOrder = []ShelfCategory{ShelfBakery, ShelfPastryBread, ShelfPastry, ShelfSnacking, ShelfOther}

var shelfLabels = map[ShelfCategory]string{
	ShelfBakery:      "Boulangerie",
	ShelfPastryBread: "Viennoiserie",
	ShelfPastry:      "Pâtisserie",
	ShelfSnacking:    "Snacking",
	ShelfOther:       "Autre",
}

var shelfAliases = map[string]ShelfCategory{
	"bakery": ShelfBakery, "boulangerie": ShelfBakery, "pain": ShelfBakery, "pains": ShelfBakery,
	"pastry_bread": ShelfPastryBread, "viennoiserie": ShelfPastryBread, "viennoiseries": ShelfPastryBread,
	"pastry": ShelfPastry, "patisserie": ShelfPastry, "pâtisserie": ShelfPastry, "patisseries": ShelfPastry,
	"snacking": ShelfSnacking, "traiteur": ShelfSnacking, "sandwicherie": ShelfSnacking,
	"other": ShelfOther, "autre": ShelfOther, "divers": ShelfOther,
}

// Label returns the French display name of the shelf.
func (s ShelfCategory) Label() string {
	if label, ok := shelfLabels[s]; ok {
		return label
	}
	return shelfLabels[ShelfOther]
}

// Rank is the position of the shelf in the print layout.
func (s ShelfCategory) Rank() int {
	for i, c := range ShelfOrder {
		if c == s {
			return i
		}
	}
	return len(ShelfOrder)
}

// ParseShelf returns the category for a label (case-insensitive). Unknown
// labels map to ShelfOther with ok=false.
func ParseShelf(label string) (ShelfCategory, bool) {
	shelf, ok := shelfAliases[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return ShelfOther, false
	}
	return shelf, true
}

// EstimationMode selects the potential estimation policy.
type EstimationMode string

const (
	ModeMathematical     EstimationMode = "mathematical"
	ModeStrongGrowth     EstimationMode = "strong_growth"
	ModeConservative     EstimationMode = "conservative"
	ModeMultiWeekAverage EstimationMode = "multi_week_average"
	ModeWeeklyEstimates  EstimationMode = "weekly_estimates"
)

// GrowthCap returns the cap of growth-capped modes.
func (m EstimationMode) GrowthCap() (float64, bool) {
	switch m {
	case ModeStrongGrowth:
		return 0.20, true
	case ModeConservative:
		return 0.10, true
	}
	return 0, false
}

func ParseEstimationMode(s string) (EstimationMode, error) {
	m := EstimationMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "":
		return ModeMathematical, nil
	case ModeMathematical, ModeStrongGrowth, ModeConservative, ModeMultiWeekAverage, ModeWeeklyEstimates:
		return m, nil
	}
	return "", fmt.Errorf("unknown estimation mode %q", s)
}

// Reference is the reference-data entry of a product code.
type Reference struct {
	Code            string        `json:"code" db:"code"`
	DisplayLabel    string        `json:"display_label" db:"display_label"`
	ShelfCategory   ShelfCategory `json:"shelf_category" db:"shelf_category"`
	BakingProgram   string        `json:"baking_program" db:"baking_program"`
	UnitsPerSaleLot int           `json:"units_per_sale_lot" db:"units_per_sale_lot"`
	UnitsPerTray    int           `json:"units_per_tray" db:"units_per_tray"`
}

// Product is a planned item, imported from sales or added by hand.
type Product struct {
	ID                      string             `json:"id"`
	Label                   string             `json:"label"`
	CustomLabel             string             `json:"custom_label,omitempty"`
	ReferenceCode           string             `json:"reference_code,omitempty"`
	ShelfCategory           ShelfCategory      `json:"shelf_category"`
	BakingProgram           string             `json:"baking_program"`
	UnitsPerSaleLot         int                `json:"units_per_sale_lot"`
	UnitsPerTray            int                `json:"units_per_tray"`
	WeeklyPotential         int                `json:"weekly_potential"`
	TotalHistoricalSales    float64            `json:"total_historical_sales"`
	Active                  bool               `json:"active"`
	IsCustom                bool               `json:"is_custom"`
	IsRecognizedByReference bool               `json:"is_recognized_by_reference"`
	NeedsPotential          bool               `json:"needs_potential"`
	PotentialEdited         bool               `json:"potential_edited"`
	DailyHistory            map[Day]float64    `json:"daily_history,omitempty"`
	Stats                   *ProductSalesStats `json:"stats,omitempty"`
	Sales                   []SaleRecord       `json:"sales,omitempty"`
}

// DisplayLabel prefers the user's label over the imported one.
func (p Product) DisplayLabel() string {
	if strings.TrimSpace(p.CustomLabel) != "" {
		return p.CustomLabel
	}
	return p.Label
}

// Plannable reports whether the distributor should plan the product.
func (p Product) Plannable() bool {
	return p.Active && p.WeeklyPotential > 0
}

// StoreInfo identifies the store a plan is made for.
type StoreInfo struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// WeekConfig holds the wizard choices for the planned week.
type WeekConfig struct {
	WeekStart Date             `json:"week_start"`
	Profile   WeightingProfile `json:"profile"`
	Mode      EstimationMode   `json:"mode"`
	Closures  ClosureConfig    `json:"closures"`
}

// Session is the whole planning wizard state for one store and week.
type Session struct {
	ID        string                         `json:"id"`
	Store     StoreInfo                      `json:"store"`
	Week      WeekConfig                     `json:"week"`
	Traffic   map[WeekOffset][]TrafficRecord `json:"traffic,omitempty"`
	Weights   TrafficWeights                 `json:"weights"`
	Products  []Product                      `json:"products"`
	Variants  []VariantSetting               `json:"variants,omitempty"`
	Overrides []OverrideSetting              `json:"overrides,omitempty"`
	Warnings  []Warning                      `json:"warnings,omitempty"`
	Revision  int                            `json:"revision"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

// Product returns the product with id and its index.
func (s *Session) Product(id string) (*Product, int) {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i], i
		}
	}
	return nil, -1
}

// PlanInput snapshots the session into the input of the distributor.
func (s *Session) PlanInput() PlanInput {
	in := PlanInput{
		Products:  append([]Product(nil), s.Products...),
		Weights:   s.Weights,
		Closures:  s.Week.Closures,
		Variants:  VariantMap(s.Variants),
		Overrides: OverrideMap(s.Overrides),
	}
	return in.Clone()
}
