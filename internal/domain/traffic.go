package domain

import (
	"fmt"
	"strings"
)

// WeekOffset identifies one of the three comparison weeks of a traffic import.
type WeekOffset string

const (
	MinusOneWeek     WeekOffset = "minus_one_week"
	SameWeekLastYear WeekOffset = "same_week_last_year"
	MinusTwoWeeks    WeekOffset = "minus_two_weeks"
)

// WeekOffsets lists the comparison weeks in profile order.
var WeekOffsets = []WeekOffset{MinusOneWeek, SameWeekLastYear, MinusTwoWeeks}

func ParseWeekOffset(s string) (WeekOffset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minus_one_week", "w-1", "s-1", "week-1":
		return MinusOneWeek, nil
	case "same_week_last_year", "n-1", "last_year", "y-1":
		return SameWeekLastYear, nil
	case "minus_two_weeks", "w-2", "s-2", "week-2":
		return MinusTwoWeeks, nil
	}
	return "", fmt.Errorf("unknown comparison week %q", s)
}

// WeightingProfile chooses how much each comparison week counts.
type WeightingProfile string

const (
	ProfileStandard       WeightingProfile = "standard"
	ProfileSeasonal       WeightingProfile = "seasonal"
	ProfileHeavyPromotion WeightingProfile = "heavy_promotion"
)

var profileWeights = map[WeightingProfile]map[WeekOffset]float64{
	ProfileStandard:       {MinusOneWeek: 0.4, SameWeekLastYear: 0.3, MinusTwoWeeks: 0.3},
	ProfileSeasonal:       {MinusOneWeek: 0.3, SameWeekLastYear: 0.5, MinusTwoWeeks: 0.2},
	ProfileHeavyPromotion: {MinusOneWeek: 0.6, SameWeekLastYear: 0.2, MinusTwoWeeks: 0.2},
}

// Weight returns the share given to a comparison week. Unknown profiles
// fall back to the standard split.
func (p WeightingProfile) Weight(w WeekOffset) float64 {
	weights, ok := profileWeights[p]
	if !ok {
		weights = profileWeights[ProfileStandard]
	}
	return weights[w]
}

func ParseWeightingProfile(s string) (WeightingProfile, error) {
	p := WeightingProfile(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return ProfileStandard, nil
	}
	if _, ok := profileWeights[p]; !ok {
		return "", fmt.Errorf("unknown weighting profile %q", s)
	}
	return p, nil
}

// TrafficRecord is a ticket count for one day, slot and comparison week.
type TrafficRecord struct {
	Day     Day        `json:"day"`
	Slot    Slot       `json:"slot"`
	Tickets float64    `json:"tickets"`
	Week    WeekOffset `json:"week"`
}

// TrafficWeights are the normalized demand distributions used by planning.
type TrafficWeights struct {
	DayWeight        map[Day]float64          `json:"day_weight"`
	SlotWeightByDay  map[Day]map[Slot]float64 `json:"slot_weight_by_day"`
	GlobalSlotWeight map[Slot]float64         `json:"global_slot_weight"`
	Fallback         bool                     `json:"fallback"`
}

// Day returns the weight of d, false when the day has no weight.
func (w TrafficWeights) Day(d Day) (float64, bool) {
	v, ok := w.DayWeight[d]
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// MaxDayWeight returns the largest day weight, 0 when there is none.
func (w TrafficWeights) MaxDayWeight() float64 {
	max := 0.0
	for _, v := range w.DayWeight {
		if v > max {
			max = v
		}
	}
	return max
}

// SlotWeights returns the slot split of d, falling back to the global split
// and then to the default split.
func (w TrafficWeights) SlotWeights(d Day) map[Slot]float64 {
	if split, ok := w.SlotWeightByDay[d]; ok && sumSlots(split) > 0 {
		return split
	}
	if sumSlots(w.GlobalSlotWeight) > 0 {
		return w.GlobalSlotWeight
	}
	return DefaultSlotSplit()
}

// Clone returns a deep copy.
func (w TrafficWeights) Clone() TrafficWeights {
	out := TrafficWeights{
		DayWeight:        make(map[Day]float64, len(w.DayWeight)),
		SlotWeightByDay:  make(map[Day]map[Slot]float64, len(w.SlotWeightByDay)),
		GlobalSlotWeight: make(map[Slot]float64, len(w.GlobalSlotWeight)),
		Fallback:         w.Fallback,
	}
	for d, v := range w.DayWeight {
		out.DayWeight[d] = v
	}
	for d, split := range w.SlotWeightByDay {
		cp := make(map[Slot]float64, len(split))
		for s, v := range split {
			cp[s] = v
		}
		out.SlotWeightByDay[d] = cp
	}
	for s, v := range w.GlobalSlotWeight {
		out.GlobalSlotWeight[s] = v
	}
	return out
}

// DefaultSlotSplit is used for days without any ticket.
func DefaultSlotSplit() map[Slot]float64 {
	return map[Slot]float64{Morning: 0.6, Midday: 0.3, Evening: 0.1}
}

// DefaultDayWeights is used when no traffic data was imported at all.
func DefaultDayWeights() map[Day]float64 {
	return map[Day]float64{
		Monday:    0.12,
		Tuesday:   0.14,
		Wednesday: 0.14,
		Thursday:  0.14,
		Friday:    0.17,
		Saturday:  0.20,
		Sunday:    0.09,
	}
}

func sumSlots(split map[Slot]float64) float64 {
	total := 0.0
	for _, v := range split {
		total += v
	}
	return total
}
