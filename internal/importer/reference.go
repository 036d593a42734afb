package importer

import (
	"io"
	"math"
	"strings"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

const (
	colShelf   = "shelf"
	colProgram = "program"
	colLot     = "lot"
	colTray    = "tray"
)

var referenceColumns = []column{
	{key: colCode, aliases: []string{"code", "code article", "code produit", "ean", "plu", "reference", "sku"}, required: true},
	{key: colLabel, aliases: []string{"libelle", "designation", "libelle affiche", "display label", "label", "produit"}},
	{key: colShelf, aliases: []string{"rayon", "categorie", "famille", "shelf", "shelf category"}},
	{key: colProgram, aliases: []string{"programme", "programme cuisson", "programme de cuisson", "cuisson", "baking program", "program"}},
	{key: colLot, aliases: []string{"unites par lot", "unite par lot", "lot", "colisage", "units per sale lot", "pack"}},
	{key: colTray, aliases: []string{"unites par plaque", "unite par plaque", "plaque", "par plaque", "units per tray", "tray"}},
}

// ParseReferences reads a product reference list. Rows without code are
// skipped; a later row for the same code replaces an earlier one.
func ParseReferences(name string, r io.Reader) ([]domain.Reference, error) {
	t, err := Open(name, r)
	if err != nil {
		return nil, err
	}
	return ReferencesFromTable(t)
}

// ReferencesFromTable parses an already opened table.
func ReferencesFromTable(t *Table) ([]domain.Reference, error) {
	h, err := findHeader(t, referenceColumns)
	if err != nil {
		return nil, err
	}

	var refs []domain.Reference
	seen := make(map[string]int)
	for i := h.row + 1; i < len(t.Rows); i++ {
		row := t.Rows[i]
		code := strings.ToUpper(strings.TrimSpace(h.get(row, colCode)))
		if blank(row) || code == "" {
			continue
		}

		shelf, _ := domain.ParseShelf(h.get(row, colShelf))
		lot, err := parseCount(h.get(row, colLot))
		if err != nil {
			return nil, rowError(t, i, colLot, err)
		}
		tray, err := parseCount(h.get(row, colTray))
		if err != nil {
			return nil, rowError(t, i, colTray, err)
		}
		if lot <= 0 {
			lot = 1
		}

		ref := domain.Reference{
			Code:            code,
			DisplayLabel:    strings.Join(strings.Fields(h.get(row, colLabel)), " "),
			ShelfCategory:   shelf,
			BakingProgram:   strings.TrimSpace(h.get(row, colProgram)),
			UnitsPerSaleLot: lot,
			UnitsPerTray:    tray,
		}
		if idx, ok := seen[code]; ok {
			refs[idx] = ref
			continue
		}
		seen[code] = len(refs)
		refs = append(refs, ref)
	}

	if len(refs) == 0 {
		return nil, &domain.ImportError{File: t.Name, Err: domain.ErrEmptyFile}
	}
	return refs, nil
}

// parseCount reads a non-negative whole count. "NC" and blanks are 0.
func parseCount(s string) (int, error) {
	if strings.EqualFold(strings.TrimSpace(s), "nc") {
		return 0, nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, nil
	}
	return int(math.Round(v)), nil
}
