package domain

// SaleRecord is one product's sales for one day.
type SaleRecord struct {
	Date     Date    `json:"date"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue,omitempty"`
}

// SalesSeries holds the imported history of one product, ordered by date.
type SalesSeries struct {
	Key           string       `json:"key"`
	Label         string       `json:"label"`
	ReferenceCode string       `json:"reference_code,omitempty"`
	Records       []SaleRecord `json:"records"`
}

// SalesImport is the structured result of a sales spreadsheet import.
type SalesImport struct {
	FileName string                  `json:"file_name"`
	Series   map[string]*SalesSeries `json:"series"`
	Rows     int                     `json:"rows"`
	From     Date                    `json:"from"`
	To       Date                    `json:"to"`
}

// Trend is the direction of weekly volumes over the observed period.
type Trend string

const (
	TrendGrowth  Trend = "growth"
	TrendDecline Trend = "decline"
	TrendStable  Trend = "stable"
)

// ProductSalesStats is derived from a product's sale records on every import.
type ProductSalesStats struct {
	WeeklyPeaks            []float64 `json:"weekly_peaks"`
	WeeklyTotals           []float64 `json:"weekly_totals"`
	MeanPeak               float64   `json:"mean_peak"`
	StdDevPeak             float64   `json:"std_dev_peak"`
	CoefficientOfVariation float64   `json:"coefficient_of_variation"`
	MeanWeeklyTotal        float64   `json:"mean_weekly_total"`
	Trend                  Trend     `json:"trend"`
	TrendPercent           float64   `json:"trend_percent"`
	ConfidenceScore        int       `json:"confidence_score"`
	WeeksObserved          int       `json:"weeks_observed"`
	DaysWithSales          int       `json:"days_with_sales"`
}
