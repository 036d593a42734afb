package planning

import (
	"fmt"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

// ComputeWeights turns ticket counts of up to three comparison weeks into
// normalized day and slot weights.
//
// Days present in records form the weight domain. A day whose tickets are all
// zero keeps a zero day weight and gets the default slot split. When there is
// no ticket at all the default day table is used for the whole week.
func ComputeWeights(records []domain.TrafficRecord, profile domain.WeightingProfile) (domain.TrafficWeights, []domain.Warning) {
	var warnings []domain.Warning

	// 1. Weighted tickets per day and per (day, slot)
	dayTickets := make(map[domain.Day]float64)
	slotTickets := make(map[domain.Day]map[domain.Slot]float64)
	for _, r := range records {
		if !r.Day.Valid() || !r.Slot.Valid() {
			continue
		}
		if _, ok := slotTickets[r.Day]; !ok {
			slotTickets[r.Day] = make(map[domain.Slot]float64, len(domain.Slots))
			dayTickets[r.Day] = 0
		}
		tickets := profile.Weight(r.Week) * r.Tickets
		if tickets < 0 {
			tickets = 0
		}
		dayTickets[r.Day] += tickets
		slotTickets[r.Day][r.Slot] += tickets
	}

	total := 0.0
	for _, v := range dayTickets {
		total += v
	}

	// 2. No traffic at all: default day table on every day
	if total <= 0 {
		weights := domain.TrafficWeights{
			DayWeight:        domain.DefaultDayWeights(),
			SlotWeightByDay:  make(map[domain.Day]map[domain.Slot]float64, len(domain.Week)),
			GlobalSlotWeight: domain.DefaultSlotSplit(),
			Fallback:         true,
		}
		for _, d := range domain.Week {
			weights.SlotWeightByDay[d] = domain.DefaultSlotSplit()
		}
		warnings = append(warnings, domain.Warning{
			Kind:    domain.WarnNoTraffic,
			Message: "no traffic data, default day weights used",
		})
		return weights, warnings
	}

	weights := domain.TrafficWeights{
		DayWeight:        make(map[domain.Day]float64, len(dayTickets)),
		SlotWeightByDay:  make(map[domain.Day]map[domain.Slot]float64, len(dayTickets)),
		GlobalSlotWeight: make(map[domain.Slot]float64, len(domain.Slots)),
	}

	// 3. Day weights and per-day slot weights
	globalSlots := make(map[domain.Slot]float64, len(domain.Slots))
	for _, d := range domain.Week {
		dayTotal, ok := dayTickets[d]
		if !ok {
			continue
		}
		weights.DayWeight[d] = dayTotal / total
		if dayTotal <= 0 {
			weights.SlotWeightByDay[d] = domain.DefaultSlotSplit()
			warnings = append(warnings, domain.DayWarning(domain.WarnZeroTrafficDay, d,
				fmt.Sprintf("no ticket on %s, default slot split used", d.Label())))
			continue
		}
		split := make(map[domain.Slot]float64, len(domain.Slots))
		for _, s := range domain.Slots {
			split[s] = slotTickets[d][s] / dayTotal
			globalSlots[s] += slotTickets[d][s]
		}
		weights.SlotWeightByDay[d] = split
	}

	// 4. Global slot weights from the summed slot totals
	for _, s := range domain.Slots {
		weights.GlobalSlotWeight[s] = globalSlots[s] / total
	}

	return weights, warnings
}

// dayWeight returns the weight used as a divisor for weekday d. A missing or
// zero weight falls back to the largest day weight, then to the default table.
func dayWeight(w domain.TrafficWeights, d domain.Day) float64 {
	if v, ok := w.Day(d); ok {
		return v
	}
	if v := w.MaxDayWeight(); v > 0 {
		return v
	}
	return domain.DefaultDayWeights()[d]
}

// maxDayWeight returns the largest day weight, or the largest default weight
// when no day has any.
func maxDayWeight(w domain.TrafficWeights) float64 {
	if v := w.MaxDayWeight(); v > 0 {
		return v
	}
	return domain.TrafficWeights{DayWeight: domain.DefaultDayWeights()}.MaxDayWeight()
}
