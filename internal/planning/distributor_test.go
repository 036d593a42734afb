package planning

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

var defaultSplit = map[domain.Slot]float64{domain.Morning: 0.6, domain.Midday: 0.3, domain.Evening: 0.1}

func weightsFor(days map[domain.Day]float64, split map[domain.Slot]float64) domain.TrafficWeights {
	w := domain.TrafficWeights{
		DayWeight:       days,
		SlotWeightByDay: make(map[domain.Day]map[domain.Slot]float64, len(days)),
	}
	for d := range days {
		w.SlotWeightByDay[d] = split
	}
	return w
}

func mondayTuesday(split map[domain.Slot]float64) domain.TrafficWeights {
	return weightsFor(map[domain.Day]float64{domain.Monday: 0.5, domain.Tuesday: 0.5}, split)
}

func product(id string, shelf domain.ShelfCategory, potential int) domain.Product {
	return domain.Product{
		ID:              id,
		Label:           id,
		ShelfCategory:   shelf,
		BakingProgram:   "P1",
		UnitsPerSaleLot: 1,
		UnitsPerTray:    12,
		WeeklyPotential: potential,
		Active:          true,
	}
}

func closures(days map[domain.Day]domain.DayClosure) domain.ClosureConfig {
	return domain.ClosureConfig{Days: days}
}

func exceptional(same, next float64) domain.HalfDayClosure {
	return domain.HalfDayClosure{
		Status:         domain.StatusExceptionallyClosed,
		Redistribution: &domain.Redistribution{SameDayOtherSlotPercent: same, NextDayPercent: next},
	}
}

func regular() domain.HalfDayClosure {
	return domain.HalfDayClosure{Status: domain.StatusRegularlyClosed}
}

func entry(t *testing.T, plan domain.Plan, d domain.Day, id string) domain.PlanEntry {
	t.Helper()
	e, ok := plan.Entry(d, id)
	require.True(t, ok, "no entry for %s on %s", id, d)
	return e
}

func lostTotal(plan domain.Plan) int {
	total := 0
	for _, l := range plan.Lost {
		total += l.Quantity
	}
	return total
}

func TestComputePlanSpreadsPotential(t *testing.T) {
	plan, err := ComputePlan(domain.PlanInput{
		Products: []domain.Product{product("baguette", domain.ShelfBakery, 100)},
		Weights:  mondayTuesday(defaultSplit),
	})
	require.NoError(t, err)

	mon := entry(t, plan, domain.Monday, "baguette")
	assert.Equal(t, 50, mon.Base)
	assert.Equal(t, domain.SlotQuantities{Morning: 30, Midday: 15, Evening: 5}, mon.SlotQuantities)
	assert.Equal(t, 50, mon.Total)
	assert.Equal(t, 50, mon.Units)
	assert.Equal(t, 4.5, mon.Trays)
	assert.False(t, mon.NotBaked)

	assert.Zero(t, entry(t, plan, domain.Wednesday, "baguette").Total)
	assert.Equal(t, 100, plan.ProductTotal("baguette"))
	assert.Len(t, plan.Entries, 7)
	assert.Empty(t, plan.Lost)
}

func TestApplyVariantPolicy(t *testing.T) {
	tests := []struct {
		name     string
		base     int
		floor    int
		variant  domain.Variant
		expected int
	}{
		{"floor wins without variant", 50, 60, domain.VariantNone, 60},
		{"base wins without variant", 50, 0, domain.VariantNone, 50},
		{"cap20 bounds growth over floor", 60, 40, domain.VariantCap20, 48},
		{"cap20 keeps base under the cap", 45, 40, domain.VariantCap20, 45},
		{"cap10 never goes below floor", 30, 40, domain.VariantCap10, 40},
		{"cap10 without floor keeps base", 60, 0, domain.VariantCap10, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, applyVariant(tt.base, tt.floor, tt.variant))
		})
	}
}

func TestComputePlanHistoricalFloor(t *testing.T) {
	products := []domain.Product{
		product("a", domain.ShelfBakery, 40),
		product("b", domain.ShelfPastry, 10),
		product("c", domain.ShelfSnacking, 300),
	}
	products[0].DailyHistory = map[domain.Day]float64{domain.Monday: 35, domain.Tuesday: 3, domain.Saturday: 12.5}
	products[1].DailyHistory = map[domain.Day]float64{domain.Monday: 9, domain.Sunday: 4}
	products[2].DailyHistory = map[domain.Day]float64{domain.Monday: 1}

	plan, err := ComputePlan(domain.PlanInput{
		Products: products,
		Weights:  mondayTuesday(defaultSplit),
	})
	require.NoError(t, err)

	for _, p := range products {
		for _, d := range domain.Week {
			e := entry(t, plan, d, p.ID)
			assert.GreaterOrEqual(t, float64(e.Total), p.DailyHistory[d], "%s on %s", p.ID, d)
		}
	}
	assert.Equal(t, 35, entry(t, plan, domain.Monday, "a").Total)
	assert.Equal(t, 13, entry(t, plan, domain.Saturday, "a").Total)
}

func TestComputePlanRegularClosure(t *testing.T) {
	plan, err := ComputePlan(domain.PlanInput{
		Products: []domain.Product{product("baguette", domain.ShelfBakery, 100)},
		Weights:  mondayTuesday(defaultSplit),
		Closures: closures(map[domain.Day]domain.DayClosure{
			domain.Monday: domain.FullDayClosure(domain.StatusRegularlyClosed, nil),
		}),
	})
	require.NoError(t, err)

	assert.Zero(t, entry(t, plan, domain.Monday, "baguette").Total)
	tue := entry(t, plan, domain.Tuesday, "baguette")
	assert.Equal(t, 50, tue.Total)
	assert.Zero(t, tue.Redistributed)
	assert.Equal(t, 50, plan.ProductTotal("baguette"))
	assert.Empty(t, plan.Lost)
}

func TestComputePlanRegularHalfClosure(t *testing.T) {
	plan, err := ComputePlan(domain.PlanInput{
		Products: []domain.Product{product("baguette", domain.ShelfBakery, 100)},
		Weights:  mondayTuesday(defaultSplit),
		Closures: closures(map[domain.Day]domain.DayClosure{
			domain.Monday: {PM: regular()},
		}),
	})
	require.NoError(t, err)

	mon := entry(t, plan, domain.Monday, "baguette")
	assert.Equal(t, domain.SlotQuantities{Morning: 30}, mon.SlotQuantities)
	assert.Equal(t, 50, entry(t, plan, domain.Tuesday, "baguette").Total)
}

func TestComputePlanExceptionalHalfClosure(t *testing.T) {
	split := map[domain.Slot]float64{domain.Morning: 0.5, domain.Midday: 0.3, domain.Evening: 0.2}
	plan, err := ComputePlan(domain.PlanInput{
		Products: []domain.Product{product("croissant", domain.ShelfPastryBread, 80)},
		Weights:  mondayTuesday(split),
		Closures: closures(map[domain.Day]domain.DayClosure{
			domain.Monday: {AM: exceptional(85, 15)},
		}),
	})
	require.NoError(t, err)

	// morning of 20 closed: 17 to the afternoon, 3 to Tuesday morning
	mon := entry(t, plan, domain.Monday, "croissant")
	assert.Equal(t, domain.SlotQuantities{Morning: 0, Midday: 22, Evening: 15}, mon.SlotQuantities)
	assert.Equal(t, 17, mon.Redistributed)

	tue := entry(t, plan, domain.Tuesday, "croissant")
	assert.Equal(t, domain.SlotQuantities{Morning: 23, Midday: 12, Evening: 8}, tue.SlotQuantities)
	assert.Equal(t, 3, tue.Redistributed)

	assert.Equal(t, 80, plan.ProductTotal("croissant"))
	assert.Empty(t, plan.Lost)
}

func TestComputePlanExceptionalFullDayClosure(t *testing.T) {
	plan, err := ComputePlan(domain.PlanInput{
		Products: []domain.Product{product("baguette", domain.ShelfBakery, 100)},
		Weights:  mondayTuesday(defaultSplit),
		Closures: closures(map[domain.Day]domain.DayClosure{
			domain.Monday: domain.FullDayClosure(domain.StatusExceptionallyClosed,
				&domain.Redistribution{SameDayOtherSlotPercent: 85, NextDayPercent: 15}),
		}),
	})
	require.NoError(t, err)

	assert.Zero(t, entry(t, plan, domain.Monday, "baguette").Total)

	// morning 30: 26 has no open half, 4 moves; afternoon 20: 17 lost, 3 moves
	tue := entry(t, plan, domain.Tuesday, "baguette")
	assert.Equal(t, 37, tue.Morning)
	assert.Equal(t, 7, tue.Redistributed)
	assert.Equal(t, 43, lostTotal(plan))
	for _, l := range plan.Lost {
		assert.Equal(t, domain.LostSameDayClosed, l.Reason)
	}
	assert.Equal(t, 50, tue.Redistributed+lostTotal(plan))
}

func TestComputePlanRedistributionConservation(t *testing.T) {
	tests := []struct {
		name string
		same float64
		next float64
	}{
		{"85/15", 85, 15},
		{"50/50", 50, 50},
		{"all same day", 100, 0},
		{"all next day", 0, 100},
		{"thirds", 33.3, 66.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ComputePlan(domain.PlanInput{
				Products: []domain.Product{product("baguette", domain.ShelfBakery, 137)},
				Weights:  mondayTuesday(defaultSplit),
				Closures: closures(map[domain.Day]domain.DayClosure{
					domain.Monday: {PM: exceptional(tt.same, tt.next)},
				}),
			})
			require.NoError(t, err)

			mon := entry(t, plan, domain.Monday, "baguette")
			tue := entry(t, plan, domain.Tuesday, "baguette")
			closedPM := 69 - 41
			assert.Equal(t, closedPM, mon.Redistributed+tue.Redistributed)
			assert.Equal(t, 138, plan.ProductTotal("baguette"))
		})
	}
}

func TestComputePlanLostRedistribution(t *testing.T) {
	t.Run("next day closed", func(t *testing.T) {
		plan, err := ComputePlan(domain.PlanInput{
			Products: []domain.Product{product("baguette", domain.ShelfBakery, 100)},
			Weights:  mondayTuesday(defaultSplit),
			Closures: closures(map[domain.Day]domain.DayClosure{
				domain.Monday:  {PM: exceptional(0, 100)},
				domain.Tuesday: domain.FullDayClosure(domain.StatusRegularlyClosed, nil),
			}),
		})
		require.NoError(t, err)

		require.Len(t, plan.Lost, 1)
		assert.Equal(t, domain.LostQuantity{
			ProductID: "baguette", Day: domain.Monday, HalfDay: domain.PM, Quantity: 20, Reason: domain.LostNextDayClosed,
		}, plan.Lost[0])
		assert.Zero(t, entry(t, plan, domain.Tuesday, "baguette").Total)
		assert.Equal(t, 30, plan.ProductTotal("baguette"))

		var kinds []domain.WarningKind
		for _, w := range plan.Warnings {
			kinds = append(kinds, w.Kind)
		}
		assert.Contains(t, kinds, domain.WarnLostRedistribution)
	})

	t.Run("end of week", func(t *testing.T) {
		plan, err := ComputePlan(domain.PlanInput{
			Products: []domain.Product{product("baguette", domain.ShelfBakery, 100)},
			Weights:  weightsFor(map[domain.Day]float64{domain.Saturday: 0.5, domain.Sunday: 0.5}, defaultSplit),
			Closures: closures(map[domain.Day]domain.DayClosure{
				domain.Sunday: {PM: exceptional(0, 100)},
			}),
		})
		require.NoError(t, err)

		require.Len(t, plan.Lost, 1)
		assert.Equal(t, domain.LostEndOfWeek, plan.Lost[0].Reason)
		assert.Equal(t, 20, plan.Lost[0].Quantity)
		assert.Zero(t, entry(t, plan, domain.Monday, "baguette").Redistributed)
	})

	t.Run("next day afternoon when its morning is closed", func(t *testing.T) {
		plan, err := ComputePlan(domain.PlanInput{
			Products: []domain.Product{product("baguette", domain.ShelfBakery, 100)},
			Weights:  mondayTuesday(defaultSplit),
			Closures: closures(map[domain.Day]domain.DayClosure{
				domain.Monday:  {AM: exceptional(0, 100)},
				domain.Tuesday: {AM: regular()},
			}),
		})
		require.NoError(t, err)

		tue := entry(t, plan, domain.Tuesday, "baguette")
		assert.Equal(t, domain.SlotQuantities{Morning: 0, Midday: 38, Evening: 12}, tue.SlotQuantities)
		assert.Empty(t, plan.Lost)
	})
}

func TestComputePlanInvalidClosures(t *testing.T) {
	_, err := ComputePlan(domain.PlanInput{
		Products: []domain.Product{product("baguette", domain.ShelfBakery, 100)},
		Weights:  mondayTuesday(defaultSplit),
		Closures: closures(map[domain.Day]domain.DayClosure{
			domain.Monday:   {AM: exceptional(50, 40)},
			domain.Thursday: {PM: domain.HalfDayClosure{Status: domain.StatusExceptionallyClosed}},
		}),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRedistribution))

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, "closures.mon.am", verrs[0].Field)
	assert.Equal(t, "closures.thu.pm", verrs[1].Field)
}

func TestSplitSlots(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		weights  map[domain.Slot]float64
		slots    []domain.Slot
		expected domain.SlotQuantities
	}{
		{"evening absorbs remainder", 10, map[domain.Slot]float64{domain.Morning: 0.33, domain.Midday: 0.33, domain.Evening: 0.34}, domain.Slots, domain.SlotQuantities{Morning: 3, Midday: 3, Evening: 4}},
		{"midday absorbs when evening is empty", 11, map[domain.Slot]float64{domain.Morning: 0.7, domain.Midday: 0.3}, domain.Slots, domain.SlotQuantities{Morning: 8, Midday: 3}},
		{"afternoon only", 17, map[domain.Slot]float64{domain.Morning: 0.5, domain.Midday: 0.3, domain.Evening: 0.2}, domain.PM.Slots(), domain.SlotQuantities{Midday: 10, Evening: 7}},
		{"no weight uses the default split", 10, nil, domain.Slots, domain.SlotQuantities{Morning: 6, Midday: 3, Evening: 1}},
		{"nothing to split", 0, defaultSplit, domain.Slots, domain.SlotQuantities{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSlots(tt.total, tt.weights, tt.slots)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.total, got.Sum())
		})
	}
}

func TestComputePlanAggregation(t *testing.T) {
	bread := product("baguette", domain.ShelfBakery, 100)
	rustic := product("rustique", domain.ShelfBakery, 40)
	rustic.UnitsPerTray = 0
	tart := product("tarte", domain.ShelfPastry, 20)
	tart.BakingProgram = "P2"
	tart.UnitsPerSaleLot = 2
	tart.UnitsPerTray = 10
	idle := product("idle", domain.ShelfSnacking, 0)
	off := product("off", domain.ShelfSnacking, 50)
	off.Active = false

	plan, err := ComputePlan(domain.PlanInput{
		Products: []domain.Product{tart, idle, rustic, off, bread},
		Weights:  mondayTuesday(defaultSplit),
	})
	require.NoError(t, err)

	_, ok := plan.Entry(domain.Monday, "off")
	assert.False(t, ok)
	_, ok = plan.Entry(domain.Monday, "idle")
	assert.False(t, ok)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, domain.WarnZeroSales, plan.Warnings[0].Kind)
	assert.Equal(t, "idle", plan.Warnings[0].ProductID)

	assert.Equal(t, "baguette", plan.Entries[0].ProductID)
	assert.Equal(t, "rustique", plan.Entries[1].ProductID)
	assert.Equal(t, "tarte", plan.Entries[2].ProductID)

	rusticMon := entry(t, plan, domain.Monday, "rustique")
	assert.True(t, rusticMon.NotBaked)
	assert.Zero(t, rusticMon.Trays)

	var monday []domain.Bucket
	for _, b := range plan.Buckets {
		if b.Day == domain.Monday {
			monday = append(monday, b)
		}
	}
	require.Len(t, monday, 2)
	assert.Equal(t, domain.ShelfBakery, monday[0].Shelf)
	assert.Equal(t, 70, monday[0].Total)
	assert.Equal(t, 4.5, monday[0].Trays)
	assert.Equal(t, 2, monday[0].Products)
	assert.Equal(t, 1, monday[0].NotBaked)
	assert.Equal(t, domain.ShelfPastry, monday[1].Shelf)
	assert.Equal(t, 20, monday[1].Units)
	assert.Equal(t, 2.0, monday[1].Trays)

	day := plan.DayTotal(domain.Monday)
	assert.Equal(t, 80, day.Total)
	assert.Equal(t, 90, day.Units)
	assert.Equal(t, 6.5, day.Trays)
	assert.Equal(t, day.Total, day.Sum())
	assert.Len(t, plan.DayTotals, 7)
}
