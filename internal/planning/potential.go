package planning

import "github.com/rudylameme/bvp-planning-sub000/internal/domain"

// PotentialInput is everything the estimator needs for one product.
type PotentialInput struct {
	Records []domain.SaleRecord
	Weights domain.TrafficWeights
	Mode    domain.EstimationMode

	// Baseline is the current weekly volume of growth-capped modes. Zero
	// means the mean weekly total of Records.
	Baseline float64
}

// PotentialResult is the weekly potential and how it was obtained.
type PotentialResult struct {
	Potential      int                   `json:"potential"`
	Mathematical   int                   `json:"mathematical"`
	Baseline       int                   `json:"baseline,omitempty"`
	Capped         bool                  `json:"capped"`
	NeedsPotential bool                  `json:"needs_potential"`
	PeakDate       domain.Date           `json:"peak_date"`
	PeakQuantity   float64               `json:"peak_quantity"`
	Mode           domain.EstimationMode `json:"mode"`
}

// EstimatePotential derives a product's weekly potential. The result is
// never negative and always rounded up. A product without sales gets 0 and
// NeedsPotential: a human has to set it before it can be planned.
func EstimatePotential(in PotentialInput) PotentialResult {
	mode := in.Mode
	if mode == "" {
		mode = domain.ModeMathematical
	}
	res := PotentialResult{Mode: mode}

	peak, peakDate, ok := maxSale(in.Records)
	if !ok {
		res.NeedsPotential = true
		return res
	}
	res.PeakQuantity = peak
	res.PeakDate = peakDate

	// 1. Mathematical: best day divided by the weight of its weekday
	res.Mathematical = ceilQty(peak / dayWeight(in.Weights, peakDate.Weekday()))

	switch mode {
	case domain.ModeMultiWeekAverage:
		stats := ComputeStats(in.Records)
		res.Potential = ceilQty(stats.MeanPeak / maxDayWeight(in.Weights))
	case domain.ModeWeeklyEstimates:
		res.Potential = weeklyEstimates(in.Records, in.Weights)
	case domain.ModeStrongGrowth, domain.ModeConservative:
		growthCap, _ := mode.GrowthCap()
		baseline := ceilQty(in.Baseline)
		if baseline == 0 {
			baseline = ceilQty(ComputeStats(in.Records).MeanWeeklyTotal)
		}
		res.Baseline = baseline
		res.Potential, res.Capped = capGrowth(res.Mathematical, baseline, growthCap)
	default:
		res.Potential = res.Mathematical
	}

	return res
}

// capGrowth clamps a potential to baseline×(1+growthCap) and never lets it
// fall below the baseline.
func capGrowth(potential, baseline int, growthCap float64) (int, bool) {
	if baseline <= 0 {
		return potential, false
	}
	if potential < baseline {
		return baseline, false
	}
	limit := ceilQty(float64(baseline) * (1 + growthCap))
	if potential > limit {
		return limit, true
	}
	return potential, false
}

// weeklyEstimates averages, over the weeks with sales, each week's peak
// divided by the weight of the weekday it fell on.
func weeklyEstimates(records []domain.SaleRecord, w domain.TrafficWeights) int {
	sum, n := 0.0, 0
	for _, week := range groupByISOWeek(records) {
		if week.peak <= 0 {
			continue
		}
		sum += week.peak / dayWeight(w, week.peakDate.Weekday())
		n++
	}
	if n == 0 {
		return 0
	}
	return ceilQty(sum / float64(n))
}

// maxSale returns the largest daily quantity and its date. Ties resolve to
// the earliest date.
func maxSale(records []domain.SaleRecord) (float64, domain.Date, bool) {
	var (
		best     float64
		bestDate domain.Date
		found    bool
	)
	for _, r := range sortedRecords(records) {
		if r.Quantity <= 0 {
			continue
		}
		if !found || r.Quantity > best {
			best, bestDate, found = r.Quantity, r.Date, true
		}
	}
	return best, bestDate, found
}

// RefreshProduct recomputes the statistics and historical floor of p from its
// sales and, unless a human edited it, its weekly potential.
func RefreshProduct(p *domain.Product, w domain.TrafficWeights, mode domain.EstimationMode) PotentialResult {
	stats := ComputeStats(p.Sales)
	p.Stats = &stats
	p.DailyHistory = HistoricalFloor(p.Sales)
	p.TotalHistoricalSales = 0
	for _, r := range p.Sales {
		p.TotalHistoricalSales += r.Quantity
	}

	res := EstimatePotential(PotentialInput{Records: p.Sales, Weights: w, Mode: mode})
	if !p.PotentialEdited {
		p.WeeklyPotential = res.Potential
		p.NeedsPotential = res.NeedsPotential
	}
	return res
}
