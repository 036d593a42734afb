// Package printout renders a production plan as the workbook printed for
// the bakery kitchen.
package printout

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

// SummarySheet is the name of the weekly bucket totals sheet.
const SummarySheet = "Synthèse"

const notBakedLabel = "NC"

var dayHeaders = []string{"Produit", "Matin", "Midi", "Soir", "Total", "Unités", "Plaques"}

var summaryHeaders = []string{"Jour", "Rayon", "Programme", "Matin", "Midi", "Soir", "Total", "Unités", "Plaques", "Produits", "NC"}

type Options struct {
	StoreName string
	WeekStart domain.Date
}

type styles struct {
	title   int
	header  int
	section int
	total   int
}

// Workbook builds the print workbook of plan: one sheet per day with at least
// one open half, then the summary sheet.
func Workbook(plan domain.Plan, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	first := ""
	for _, d := range domain.Week {
		if plan.Input.Closures.ClosedAllDay(d) {
			continue
		}
		name := d.Label()
		if first == "" {
			first = name
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeDay(f, st, name, plan, d, opts); err != nil {
			return nil, err
		}
	}

	if first == "" {
		if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	} else if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", SummarySheet, err)
	}
	if err := writeSummary(f, st, plan, opts); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return st, fmt.Errorf("create style: %w", err)
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return st, fmt.Errorf("create style: %w", err)
	}
	if st.section, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#1E3A5F"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F1F5F9"}, Pattern: 1},
	}); err != nil {
		return st, fmt.Errorf("create style: %w", err)
	}
	if st.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "#94A3B8", Style: 1}},
	}); err != nil {
		return st, fmt.Errorf("create style: %w", err)
	}
	return st, nil
}

func title(prefix string, d *domain.Day, opts Options) string {
	t := prefix
	if d != nil {
		t += " " + d.Label()
		if !opts.WeekStart.IsZero() {
			t += " " + opts.WeekStart.AddDays(int(*d)).Time().Format("02/01/2006")
		}
	} else if !opts.WeekStart.IsZero() {
		t += " semaine du " + opts.WeekStart.Time().Format("02/01/2006")
	}
	if opts.StoreName != "" {
		t += " - " + opts.StoreName
	}
	return t
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	if style != 0 {
		last, err := excelize.CoordinatesToCellName(len(values), row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, last, style); err != nil {
			return fmt.Errorf("style %s row %d: %w", sheet, row, err)
		}
	}
	return nil
}

func traysCell(trays float64, notBaked bool) interface{} {
	if notBaked {
		return notBakedLabel
	}
	return trays
}

func writeDay(f *excelize.File, st styles, sheet string, plan domain.Plan, d domain.Day, opts Options) error {
	if err := setRow(f, sheet, 1, []interface{}{title("Production", &d, opts)}, st.title); err != nil {
		return err
	}

	headers := make([]interface{}, len(dayHeaders))
	for i, h := range dayHeaders {
		headers[i] = h
	}
	for i, s := range domain.Slots {
		if !plan.Input.Closures.SlotOpen(d, s) {
			headers[i+1] = dayHeaders[i+1] + " (fermé)"
		}
	}
	if err := setRow(f, sheet, 3, headers, st.header); err != nil {
		return err
	}

	row := 4
	buckets := make(map[string]domain.Bucket)
	for _, b := range plan.Buckets {
		if b.Day == d {
			buckets[string(b.Shelf)+"|"+b.BakingProgram] = b
		}
	}

	section := ""
	var current domain.Bucket
	closeSection := func() error {
		if section == "" {
			return nil
		}
		values := []interface{}{"Total " + current.BakingProgram, current.Morning, current.Midday, current.Evening,
			current.Total, current.Units, current.Trays}
		if err := setRow(f, sheet, row, values, st.total); err != nil {
			return err
		}
		row += 2
		return nil
	}

	for _, e := range plan.Entries {
		if e.Day != d || (e.Total == 0 && !e.ManuallyOverridden) {
			continue
		}
		key := string(e.Shelf) + "|" + e.BakingProgram
		if key != section {
			if err := closeSection(); err != nil {
				return err
			}
			section, current = key, buckets[key]
			label := e.Shelf.Label()
			if e.BakingProgram != "" {
				label += " / " + e.BakingProgram
			}
			if err := setRow(f, sheet, row, []interface{}{label}, st.section); err != nil {
				return err
			}
			row++
		}
		label := e.Label
		if e.ManuallyOverridden {
			label += " *"
		}
		values := []interface{}{label, e.Morning, e.Midday, e.Evening, e.Total, e.Units, traysCell(e.Trays, e.NotBaked)}
		if err := setRow(f, sheet, row, values, 0); err != nil {
			return err
		}
		row++
	}
	if err := closeSection(); err != nil {
		return err
	}

	t := plan.DayTotal(d)
	if err := setRow(f, sheet, row, []interface{}{"Total " + d.Label(), t.Morning, t.Midday, t.Evening, t.Total, t.Units, t.Trays}, st.total); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "A", 34); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "G", 12)
}

func writeSummary(f *excelize.File, st styles, plan domain.Plan, opts Options) error {
	sheet := SummarySheet
	if err := setRow(f, sheet, 1, []interface{}{title("Synthèse production", nil, opts)}, st.title); err != nil {
		return err
	}

	headers := make([]interface{}, len(summaryHeaders))
	for i, h := range summaryHeaders {
		headers[i] = h
	}
	if err := setRow(f, sheet, 3, headers, st.header); err != nil {
		return err
	}

	row := 4
	for _, b := range plan.Buckets {
		if b.Total == 0 {
			continue
		}
		values := []interface{}{b.Day.Label(), b.Shelf.Label(), b.BakingProgram, b.Morning, b.Midday, b.Evening,
			b.Total, b.Units, b.Trays, b.Products, b.NotBaked}
		if err := setRow(f, sheet, row, values, 0); err != nil {
			return err
		}
		row++
	}

	row++
	for _, t := range plan.DayTotals {
		values := []interface{}{"Total " + t.Day.Label(), "", "", t.Morning, t.Midday, t.Evening, t.Total, t.Units, t.Trays}
		if err := setRow(f, sheet, row, values, st.total); err != nil {
			return err
		}
		row++
	}

	if len(plan.Lost) > 0 {
		row++
		if err := setRow(f, sheet, row, []interface{}{"Quantités non redistribuées"}, st.section); err != nil {
			return err
		}
		row++
		labels := make(map[string]string)
		for _, e := range plan.Entries {
			labels[e.ProductID] = e.Label
		}
		for _, l := range plan.Lost {
			label := labels[l.ProductID]
			if label == "" {
				label = l.ProductID
			}
			values := []interface{}{l.Day.Label(), label, l.Reason, l.Quantity}
			if err := setRow(f, sheet, row, values, 0); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(sheet, "A", "C", 20); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "D", "K", 11)
}
