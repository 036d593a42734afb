package planning

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

func recomputeFixture(t *testing.T, c domain.ClosureConfig) domain.Plan {
	t.Helper()
	bread := product("baguette", domain.ShelfBakery, 120)
	bread.DailyHistory = map[domain.Day]float64{domain.Monday: 40}
	flute := product("flute", domain.ShelfBakery, 20)
	tart := product("tarte", domain.ShelfPastry, 40)

	plan, err := ComputePlan(domain.PlanInput{
		Products: []domain.Product{bread, flute, tart},
		Weights:  mondayTuesday(defaultSplit),
		Closures: c,
	})
	require.NoError(t, err)
	return plan
}

func TestApplyVariantScoped(t *testing.T) {
	plan := recomputeFixture(t, domain.ClosureConfig{})

	next, err := ApplyVariant(plan, domain.ShelfBakery, domain.Monday, domain.VariantCap10)
	require.NoError(t, err)

	mon := entry(t, next, domain.Monday, "baguette")
	assert.Equal(t, 44, mon.Total)
	assert.Equal(t, domain.VariantCap10, mon.Variant)
	assert.Equal(t, 10, entry(t, next, domain.Monday, "flute").Total)

	assert.Equal(t, entry(t, plan, domain.Tuesday, "baguette"), entry(t, next, domain.Tuesday, "baguette"))
	assert.Equal(t, entry(t, plan, domain.Monday, "tarte"), entry(t, next, domain.Monday, "tarte"))

	// the original snapshot is untouched
	assert.Equal(t, 60, entry(t, plan, domain.Monday, "baguette").Total)
	assert.Empty(t, plan.Input.Variants)

	bakery := next.Buckets[0]
	assert.Equal(t, domain.Monday, bakery.Day)
	assert.Equal(t, 54, bakery.Total)
	assert.Equal(t, 74, next.DayTotal(domain.Monday).Total)
}

func TestApplyVariantMatchesFullRebuild(t *testing.T) {
	plan := recomputeFixture(t, domain.ClosureConfig{})

	next, err := ApplyVariant(plan, domain.ShelfBakery, domain.Monday, domain.VariantCap20)
	require.NoError(t, err)

	in := plan.Input.Clone()
	in.Variants[domain.VariantKey{Shelf: domain.ShelfBakery, Day: domain.Monday}] = domain.VariantCap20
	full, err := ComputePlan(in)
	require.NoError(t, err)

	assert.Equal(t, full.Entries, next.Entries)
	assert.Equal(t, full.Buckets, next.Buckets)
	assert.Equal(t, full.DayTotals, next.DayTotals)
}

func TestApplyVariantReset(t *testing.T) {
	plan := recomputeFixture(t, domain.ClosureConfig{})

	capped, err := ApplyVariant(plan, domain.ShelfBakery, domain.Monday, domain.VariantCap10)
	require.NoError(t, err)
	reset, err := ApplyVariant(capped, domain.ShelfBakery, domain.Monday, domain.VariantNone)
	require.NoError(t, err)

	assert.Equal(t, plan.Entries, reset.Entries)
	assert.Empty(t, reset.Input.Variants)

	_, err = ApplyVariant(plan, domain.ShelfBakery, domain.Monday, domain.Variant("cap50"))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestApplyVariantFollowsClosureSpill(t *testing.T) {
	plan := recomputeFixture(t, closures(map[domain.Day]domain.DayClosure{
		domain.Monday: {AM: exceptional(0, 100)},
	}))
	before := entry(t, plan, domain.Tuesday, "baguette")
	assert.Equal(t, 36, before.Redistributed)
	assert.Equal(t, 96, before.Total)

	next, err := ApplyVariant(plan, domain.ShelfBakery, domain.Monday, domain.VariantCap10)
	require.NoError(t, err)

	assert.Equal(t, 18, entry(t, next, domain.Monday, "baguette").Total)
	tue := entry(t, next, domain.Tuesday, "baguette")
	assert.Equal(t, 26, tue.Redistributed)
	assert.Equal(t, 86, tue.Total)
	assert.Equal(t, entry(t, plan, domain.Tuesday, "tarte"), entry(t, next, domain.Tuesday, "tarte"))

	full, err := ComputePlan(next.Input)
	require.NoError(t, err)
	assert.Equal(t, full.Entries, next.Entries)
	assert.Equal(t, full.DayTotals, next.DayTotals)
	assert.ElementsMatch(t, full.Lost, next.Lost)
}

func TestApplyOverride(t *testing.T) {
	plan := recomputeFixture(t, domain.ClosureConfig{})

	next, err := ApplyOverride(plan, domain.ShelfBakery, domain.Monday, "baguette", 25)
	require.NoError(t, err)

	mon := entry(t, next, domain.Monday, "baguette")
	assert.True(t, mon.ManuallyOverridden)
	assert.Equal(t, 25, mon.Total)
	assert.Equal(t, domain.SlotQuantities{Morning: 15, Midday: 8, Evening: 2}, mon.SlotQuantities)
	assert.Equal(t, entry(t, plan, domain.Monday, "flute"), entry(t, next, domain.Monday, "flute"))
	assert.Equal(t, entry(t, plan, domain.Tuesday, "baguette"), entry(t, next, domain.Tuesday, "baguette"))

	// an override below the historical floor is kept verbatim
	low, err := ApplyOverride(next, domain.ShelfBakery, domain.Monday, "baguette", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, entry(t, low, domain.Monday, "baguette").Total)

	cleared := ClearOverride(low, domain.ShelfBakery, domain.Monday, "baguette")
	restored := entry(t, cleared, domain.Monday, "baguette")
	assert.False(t, restored.ManuallyOverridden)
	assert.Equal(t, 60, restored.Total)
	assert.Equal(t, plan.Entries, cleared.Entries)
}

func TestApplyOverrideOnPartialClosure(t *testing.T) {
	plan := recomputeFixture(t, closures(map[domain.Day]domain.DayClosure{
		domain.Monday: {AM: regular()},
	}))

	next, err := ApplyOverride(plan, domain.ShelfBakery, domain.Monday, "baguette", 20)
	require.NoError(t, err)

	mon := entry(t, next, domain.Monday, "baguette")
	assert.Equal(t, domain.SlotQuantities{Midday: 15, Evening: 5}, mon.SlotQuantities)
}

func TestApplyOverrideErrors(t *testing.T) {
	plan := recomputeFixture(t, closures(map[domain.Day]domain.DayClosure{
		domain.Tuesday: domain.FullDayClosure(domain.StatusRegularlyClosed, nil),
	}))

	_, err := ApplyOverride(plan, domain.ShelfBakery, domain.Monday, "missing", 10)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = ApplyOverride(plan, domain.ShelfPastry, domain.Monday, "baguette", 10)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = ApplyOverride(plan, domain.ShelfBakery, domain.Monday, "baguette", -1)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = ApplyOverride(plan, domain.ShelfBakery, domain.Tuesday, "baguette", 10)
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "overrides.bakery.tue.baguette", verrs[0].Field)
}
