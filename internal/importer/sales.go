package importer

import (
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

const (
	colDate     = "date"
	colLabel    = "label"
	colCode     = "code"
	colQuantity = "quantity"
	colRevenue  = "revenue"
)

var salesColumns = []column{
	{key: colDate, aliases: []string{"date", "jour", "date vente", "date de vente", "day"}, required: true},
	{key: colCode, aliases: []string{"code", "code article", "code produit", "ean", "plu", "ref", "reference", "sku"}},
	{key: colLabel, aliases: []string{"libelle", "libelle article", "designation", "article", "produit", "label", "product"}, required: true},
	{key: colQuantity, aliases: []string{"quantite", "qte", "qty", "quantity", "quantite vendue", "qte vendue", "ventes", "nb ventes"}, required: true},
	{key: colRevenue, aliases: []string{"ca", "ca ttc", "ca ht", "chiffre d'affaires", "montant", "revenue"}},
}

// ParseSales reads a sales history export into one series per product.
// Rows without label are skipped and duplicate (product, date) rows are
// summed. Any unreadable date or quantity aborts the whole import.
func ParseSales(name string, r io.Reader) (domain.SalesImport, error) {
	t, err := Open(name, r)
	if err != nil {
		return domain.SalesImport{}, err
	}
	return SalesFromTable(t)
}

// SalesFromTable parses an already opened table.
func SalesFromTable(t *Table) (domain.SalesImport, error) {
	h, err := findHeader(t, salesColumns)
	if err != nil {
		return domain.SalesImport{}, err
	}

	out := domain.SalesImport{FileName: t.Name, Series: make(map[string]*domain.SalesSeries)}
	byDate := make(map[string]map[domain.Date]*domain.SaleRecord)

	for i := h.row + 1; i < len(t.Rows); i++ {
		row := t.Rows[i]
		label := strings.Join(strings.Fields(h.get(row, colLabel)), " ")
		if blank(row) || label == "" {
			continue
		}

		date, err := ParseFlexibleDate(h.get(row, colDate))
		if err != nil {
			return domain.SalesImport{}, rowError(t, i, colDate, err)
		}
		qty, err := parseNumber(h.get(row, colQuantity))
		if err != nil {
			return domain.SalesImport{}, rowError(t, i, colQuantity, err)
		}
		revenue, err := parseNumber(h.get(row, colRevenue))
		if err != nil {
			return domain.SalesImport{}, rowError(t, i, colRevenue, err)
		}

		code := strings.TrimSpace(h.get(row, colCode))
		key := ProductKey(code, label)
		series, ok := out.Series[key]
		if !ok {
			series = &domain.SalesSeries{Key: key, Label: label, ReferenceCode: code}
			out.Series[key] = series
			byDate[key] = make(map[domain.Date]*domain.SaleRecord)
		}

		if rec, ok := byDate[key][date]; ok {
			rec.Quantity += qty
			rec.Revenue += revenue
		} else {
			byDate[key][date] = &domain.SaleRecord{Date: date, Quantity: qty, Revenue: revenue}
		}

		if out.From.IsZero() || date.Before(out.From) {
			out.From = date
		}
		if out.To.IsZero() || out.To.Before(date) {
			out.To = date
		}
		out.Rows++
	}

	if out.Rows == 0 {
		return domain.SalesImport{}, &domain.ImportError{File: t.Name, Err: domain.ErrEmptyFile}
	}

	for key, series := range out.Series {
		records := make([]domain.SaleRecord, 0, len(byDate[key]))
		for _, rec := range byDate[key] {
			records = append(records, *rec)
		}
		sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
		series.Records = records
	}

	return out, nil
}

// ProductKey identifies a product across imports: its reference code when
// the export has one, its normalized label otherwise.
func ProductKey(code, label string) string {
	if code = strings.TrimSpace(code); code != "" {
		return "code:" + strings.ToUpper(code)
	}
	return "label:" + strings.ToLower(strings.Join(strings.Fields(label), " "))
}

func rowError(t *Table, i int, col string, err error) error {
	ie := &domain.ImportError{File: t.Name, Row: i + 1, Column: col, Err: err}
	if !errors.Is(err, domain.ErrUnparseableDate) && !errors.Is(err, domain.ErrInvalidNumber) {
		ie.Err = errors.Join(domain.ErrInvalidNumber, err)
	}
	return ie
}
