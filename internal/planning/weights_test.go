package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

func traffic(week domain.WeekOffset, d domain.Day, morning, midday, evening float64) []domain.TrafficRecord {
	return []domain.TrafficRecord{
		{Day: d, Slot: domain.Morning, Tickets: morning, Week: week},
		{Day: d, Slot: domain.Midday, Tickets: midday, Week: week},
		{Day: d, Slot: domain.Evening, Tickets: evening, Week: week},
	}
}

func sumDays(w domain.TrafficWeights) float64 {
	total := 0.0
	for _, v := range w.DayWeight {
		total += v
	}
	return total
}

func sumSplit(split map[domain.Slot]float64) float64 {
	total := 0.0
	for _, v := range split {
		total += v
	}
	return total
}

func TestComputeWeightsNormalization(t *testing.T) {
	var records []domain.TrafficRecord
	for i, d := range domain.Week {
		records = append(records, traffic(domain.MinusOneWeek, d, float64(100+i*10), 80, 30)...)
		records = append(records, traffic(domain.SameWeekLastYear, d, 90, float64(60+i), 20)...)
		records = append(records, traffic(domain.MinusTwoWeeks, d, 110, 70, float64(10+i*3))...)
	}

	weights, warnings := ComputeWeights(records, domain.ProfileStandard)

	assert.Empty(t, warnings)
	assert.False(t, weights.Fallback)
	assert.InDelta(t, 1.0, sumDays(weights), 1e-6)
	assert.InDelta(t, 1.0, sumSplit(weights.GlobalSlotWeight), 1e-6)
	for _, d := range domain.Week {
		assert.InDelta(t, 1.0, sumSplit(weights.SlotWeightByDay[d]), 1e-6, d.String())
	}
}

func TestComputeWeightsProfiles(t *testing.T) {
	records := append(
		traffic(domain.MinusOneWeek, domain.Monday, 100, 0, 0),
		traffic(domain.SameWeekLastYear, domain.Tuesday, 100, 0, 0)...,
	)

	tests := []struct {
		profile domain.WeightingProfile
		monday  float64
	}{
		{domain.ProfileStandard, 0.4 / 0.7},
		{domain.ProfileSeasonal, 0.3 / 0.8},
		{domain.ProfileHeavyPromotion, 0.6 / 0.8},
	}
	for _, tt := range tests {
		t.Run(string(tt.profile), func(t *testing.T) {
			weights, _ := ComputeWeights(records, tt.profile)
			assert.InDelta(t, tt.monday, weights.DayWeight[domain.Monday], 1e-9)
			assert.InDelta(t, 1-tt.monday, weights.DayWeight[domain.Tuesday], 1e-9)
			_, ok := weights.DayWeight[domain.Wednesday]
			assert.False(t, ok, "days without traffic rows are outside the domain")
		})
	}
}

func TestComputeWeightsSlotSplit(t *testing.T) {
	records := append(
		traffic(domain.MinusOneWeek, domain.Monday, 50, 30, 20),
		traffic(domain.MinusOneWeek, domain.Tuesday, 10, 10, 0)...,
	)

	weights, _ := ComputeWeights(records, domain.ProfileStandard)

	assert.InDelta(t, 0.5, weights.SlotWeightByDay[domain.Monday][domain.Morning], 1e-9)
	assert.InDelta(t, 0.3, weights.SlotWeightByDay[domain.Monday][domain.Midday], 1e-9)
	assert.InDelta(t, 0.2, weights.SlotWeightByDay[domain.Monday][domain.Evening], 1e-9)
	assert.InDelta(t, 0.5, weights.SlotWeightByDay[domain.Tuesday][domain.Morning], 1e-9)
	assert.InDelta(t, 0.0, weights.SlotWeightByDay[domain.Tuesday][domain.Evening], 1e-9)
	assert.InDelta(t, 60.0/120, weights.GlobalSlotWeight[domain.Morning], 1e-9)
	assert.InDelta(t, 20.0/120, weights.GlobalSlotWeight[domain.Evening], 1e-9)
}

func TestComputeWeightsZeroTrafficDay(t *testing.T) {
	records := append(
		traffic(domain.MinusOneWeek, domain.Monday, 40, 40, 20),
		traffic(domain.MinusOneWeek, domain.Sunday, 0, 0, 0)...,
	)

	weights, warnings := ComputeWeights(records, domain.ProfileStandard)

	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnZeroTrafficDay, warnings[0].Kind)
	require.NotNil(t, warnings[0].Day)
	assert.Equal(t, domain.Sunday, *warnings[0].Day)

	assert.InDelta(t, 1.0, weights.DayWeight[domain.Monday], 1e-9)
	assert.Equal(t, 0.0, weights.DayWeight[domain.Sunday])
	assert.Equal(t, domain.DefaultSlotSplit(), weights.SlotWeightByDay[domain.Sunday])
	_, ok := weights.Day(domain.Sunday)
	assert.False(t, ok)
}

func TestComputeWeightsNoTraffic(t *testing.T) {
	weights, warnings := ComputeWeights(nil, domain.ProfileSeasonal)

	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnNoTraffic, warnings[0].Kind)
	assert.True(t, weights.Fallback)
	assert.Equal(t, domain.DefaultDayWeights(), weights.DayWeight)
	assert.InDelta(t, 1.0, sumDays(weights), 1e-6)
	for _, d := range domain.Week {
		assert.Equal(t, domain.DefaultSlotSplit(), weights.SlotWeights(d))
	}
}

func TestDayWeightFallbacks(t *testing.T) {
	w := domain.TrafficWeights{DayWeight: map[domain.Day]float64{domain.Monday: 0.3, domain.Tuesday: 0.7}}
	assert.Equal(t, 0.3, dayWeight(w, domain.Monday))
	assert.Equal(t, 0.7, dayWeight(w, domain.Friday))

	empty := domain.TrafficWeights{}
	assert.Equal(t, 0.17, dayWeight(empty, domain.Friday))
	assert.Equal(t, 0.20, maxDayWeight(empty))
}
