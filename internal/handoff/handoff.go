// Package handoff reads and writes the JSON file a planner sends to a
// teammate so they can reopen the same week.
package handoff

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

// Version is the only format version this package writes and reads.
const Version = 1

type File struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	StoreInfo  domain.StoreInfo `json:"storeInfo"`
	WeekConfig WeekConfig       `json:"weekConfig"`
	Products   []Product        `json:"products"`
}

type WeekConfig struct {
	WeekStart      domain.Date              `json:"weekStart"`
	Profile        domain.WeightingProfile  `json:"profile"`
	Mode           domain.EstimationMode    `json:"mode"`
	Closures       domain.ClosureConfig     `json:"closures"`
	TrafficWeights domain.TrafficWeights    `json:"trafficWeights"`
	Variants       []domain.VariantSetting  `json:"variants,omitempty"`
	Overrides      []domain.OverrideSetting `json:"overrides,omitempty"`
}

// Product carries what is needed to rebuild the plan. Raw sales and
// statistics stay behind.
type Product struct {
	ID                   string                 `json:"id"`
	Label                string                 `json:"label"`
	CustomLabel          string                 `json:"customLabel,omitempty"`
	ReferenceCode        string                 `json:"referenceCode,omitempty"`
	Potential            int                    `json:"potential"`
	PotentialEdited      bool                   `json:"potentialEdited,omitempty"`
	Shelf                domain.ShelfCategory   `json:"shelf"`
	Program              string                 `json:"program"`
	UnitsPerSaleLot      int                    `json:"unitsPerSaleLot"`
	UnitsPerTray         int                    `json:"unitsPerTray"`
	Active               bool                   `json:"active"`
	IsCustom             bool                   `json:"isCustom"`
	Recognized           bool                   `json:"recognized"`
	TotalHistoricalSales float64                `json:"totalHistoricalSales"`
	DailyHistory         map[domain.Day]float64 `json:"dailyHistory,omitempty"`
}

// FromSession builds the hand-off content of s.
func FromSession(s *domain.Session, exportedAt time.Time) File {
	f := File{
		Version:    Version,
		ExportedAt: exportedAt.UTC(),
		StoreInfo:  s.Store,
		WeekConfig: WeekConfig{
			WeekStart:      s.Week.WeekStart,
			Profile:        s.Week.Profile,
			Mode:           s.Week.Mode,
			Closures:       s.Week.Closures,
			TrafficWeights: s.Weights,
			Variants:       s.Variants,
			Overrides:      s.Overrides,
		},
		Products: make([]Product, 0, len(s.Products)),
	}
	for _, p := range s.Products {
		f.Products = append(f.Products, Product{
			ID:                   p.ID,
			Label:                p.Label,
			CustomLabel:          p.CustomLabel,
			ReferenceCode:        p.ReferenceCode,
			Potential:            p.WeeklyPotential,
			PotentialEdited:      p.PotentialEdited,
			Shelf:                p.ShelfCategory,
			Program:              p.BakingProgram,
			UnitsPerSaleLot:      p.UnitsPerSaleLot,
			UnitsPerTray:         p.UnitsPerTray,
			Active:               p.Active,
			IsCustom:             p.IsCustom,
			Recognized:           p.IsRecognizedByReference,
			TotalHistoricalSales: p.TotalHistoricalSales,
			DailyHistory:         p.DailyHistory,
		})
	}
	return f
}

// Session rebuilds the wizard state. The caller assigns the session id.
func (f File) Session() *domain.Session {
	s := &domain.Session{
		Store: f.StoreInfo,
		Week: domain.WeekConfig{
			WeekStart: f.WeekConfig.WeekStart,
			Profile:   f.WeekConfig.Profile,
			Mode:      f.WeekConfig.Mode,
			Closures:  f.WeekConfig.Closures,
		},
		Weights:   f.WeekConfig.TrafficWeights,
		Variants:  f.WeekConfig.Variants,
		Overrides: f.WeekConfig.Overrides,
		Products:  make([]domain.Product, 0, len(f.Products)),
	}
	for _, p := range f.Products {
		s.Products = append(s.Products, domain.Product{
			ID:                      p.ID,
			Label:                   p.Label,
			CustomLabel:             p.CustomLabel,
			ReferenceCode:           p.ReferenceCode,
			ShelfCategory:           p.Shelf,
			BakingProgram:           p.Program,
			UnitsPerSaleLot:         p.UnitsPerSaleLot,
			UnitsPerTray:            p.UnitsPerTray,
			WeeklyPotential:         p.Potential,
			TotalHistoricalSales:    p.TotalHistoricalSales,
			Active:                  p.Active,
			IsCustom:                p.IsCustom,
			IsRecognizedByReference: p.Recognized,
			PotentialEdited:         p.PotentialEdited,
			NeedsPotential:          p.Potential <= 0,
			DailyHistory:            p.DailyHistory,
		})
	}
	return s
}

// Encode writes the hand-off file of s.
func Encode(w io.Writer, s *domain.Session, exportedAt time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromSession(s, exportedAt)); err != nil {
		return fmt.Errorf("encode hand-off file: %w", err)
	}
	return nil
}

// Decode reads a hand-off file. Files of another version are refused and the
// closures are validated before anything is returned.
func Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read hand-off file: %w", err)
	}

	var head struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode hand-off file: %w", err)
	}
	if head.Version != Version {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnsupportedVersion, head.Version)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode hand-off file: %w", err)
	}
	if err := f.WeekConfig.Closures.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
