package planning

import (
	"math"
	"sort"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

// trendThreshold is the change in percent between the two halves of the
// observed weeks beyond which a trend is reported.
const trendThreshold = 10.0

type weekKey struct {
	year, week int
}

func (k weekKey) before(other weekKey) bool {
	if k.year != other.year {
		return k.year < other.year
	}
	return k.week < other.week
}

// weekSales is one ISO week of a product's sales.
type weekSales struct {
	key      weekKey
	peak     float64
	peakDate domain.Date
	total    float64
}

// groupByISOWeek returns the weeks of records in chronological order. The
// peak of a week is its largest daily quantity; ties keep the earliest date.
func groupByISOWeek(records []domain.SaleRecord) []weekSales {
	sorted := sortedRecords(records)
	byKey := make(map[weekKey]*weekSales)
	var order []weekKey
	for _, r := range sorted {
		y, w := r.Date.ISOWeek()
		k := weekKey{year: y, week: w}
		ws, ok := byKey[k]
		if !ok {
			ws = &weekSales{key: k, peak: math.Inf(-1)}
			byKey[k] = ws
			order = append(order, k)
		}
		ws.total += r.Quantity
		if r.Quantity > ws.peak {
			ws.peak = r.Quantity
			ws.peakDate = r.Date
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].before(order[j]) })

	weeks := make([]weekSales, 0, len(order))
	for _, k := range order {
		weeks = append(weeks, *byKey[k])
	}
	return weeks
}

// sortedRecords returns a copy of records ordered by date.
func sortedRecords(records []domain.SaleRecord) []domain.SaleRecord {
	sorted := make([]domain.SaleRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return sorted
}

// ComputeStats derives a product's weekly statistics from its sale records.
// With no record every statistic is zero and the trend is stable.
func ComputeStats(records []domain.SaleRecord) domain.ProductSalesStats {
	stats := domain.ProductSalesStats{Trend: domain.TrendStable}
	weeks := groupByISOWeek(records)
	n := len(weeks)
	if n == 0 {
		return stats
	}

	// 1. Weekly peaks and totals
	stats.WeeklyPeaks = make([]float64, n)
	stats.WeeklyTotals = make([]float64, n)
	for i, w := range weeks {
		stats.WeeklyPeaks[i] = w.peak
		stats.WeeklyTotals[i] = w.total
	}
	stats.WeeksObserved = n

	// 2. Mean, population standard deviation and coefficient of variation
	stats.MeanPeak = mean(stats.WeeklyPeaks)
	stats.StdDevPeak = stdDev(stats.WeeklyPeaks, stats.MeanPeak)
	if stats.MeanPeak > 0 {
		stats.CoefficientOfVariation = stats.StdDevPeak / stats.MeanPeak * 100
	}
	stats.MeanWeeklyTotal = mean(stats.WeeklyTotals)

	// 3. Trend: first half of the weeks against the second half
	if n >= 2 {
		stats.Trend, stats.TrendPercent = trend(stats.WeeklyTotals[:n/2], stats.WeeklyTotals[n/2:])
	}

	// 4. Days with sales
	days := make(map[domain.Date]struct{})
	for _, r := range records {
		if r.Quantity > 0 {
			days[r.Date] = struct{}{}
		}
	}
	stats.DaysWithSales = len(days)

	// 5. Confidence score
	stats.ConfidenceScore = confidence(stats.WeeksObserved, stats.CoefficientOfVariation, stats.DaysWithSales)

	return stats
}

// HistoricalFloor returns, per weekday, the largest quantity sold on that
// weekday across the observed weeks.
func HistoricalFloor(records []domain.SaleRecord) map[domain.Day]float64 {
	floor := make(map[domain.Day]float64)
	for _, r := range records {
		if r.Quantity <= 0 {
			continue
		}
		d := r.Date.Weekday()
		if r.Quantity > floor[d] {
			floor[d] = r.Quantity
		}
	}
	return floor
}

func trend(first, second []float64) (domain.Trend, float64) {
	before, after := mean(first), mean(second)
	if before <= 0 {
		if after > 0 {
			return domain.TrendGrowth, 100
		}
		return domain.TrendStable, 0
	}
	pct := (after - before) / before * 100
	switch {
	case pct > trendThreshold:
		return domain.TrendGrowth, pct
	case pct < -trendThreshold:
		return domain.TrendDecline, pct
	default:
		return domain.TrendStable, pct
	}
}

func confidence(weeks int, cv float64, daysWithSales int) int {
	if weeks <= 0 {
		return 0
	}
	coverage := math.Min(float64(weeks)/3, 1) * 30
	stability := math.Max(0, 100-cv) / 100 * 40
	density := math.Min(float64(daysWithSales)/float64(weeks*7), 1) * 30

	score := int(math.Round(coverage + stability + density))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}
