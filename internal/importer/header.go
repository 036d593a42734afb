package importer

import (
	"strings"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

// headerScanRows is how many leading rows may hold titles before the header.
const headerScanRows = 15

var accentFolder = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a", "ä", "a",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c", "œ", "oe",
)

var columnNameSanitizer = strings.NewReplacer(
	" ", "", "_", "", ".", "", "-", "", "/", "", "'", "", "’", "",
	"(", "", ")", "", ":", "", "°", "", "\u00a0", "", "\n", "", "\r", "", "\t", "",
)

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(accentFolder.Replace(name))
}

// column describes an expected header and the names exports use for it.
type column struct {
	key      string
	aliases  []string
	required bool
}

// header is a discovered header row: the row index and the position of each
// matched column.
type header struct {
	row   int
	index map[string]int
}

func (h header) has(key string) bool {
	_, ok := h.index[key]
	return ok
}

func (h header) get(row []string, key string) string {
	idx, ok := h.index[key]
	if !ok {
		return ""
	}
	return cell(row, idx)
}

// matchColumns maps columns onto the cells of a candidate header row. Exact
// alias matches are claimed first, then containment for aliases of four
// characters or more.
func matchColumns(row []string, columns []column) map[string]int {
	normalized := make([]string, len(row))
	for i, c := range row {
		normalized[i] = normalizeColumnName(c)
	}

	index := make(map[string]int)
	claimed := make(map[int]bool)
	for _, col := range columns {
		for _, alias := range col.aliases {
			target := normalizeColumnName(alias)
			for i, h := range normalized {
				if !claimed[i] && h != "" && h == target {
					index[col.key] = i
					claimed[i] = true
					break
				}
			}
			if _, ok := index[col.key]; ok {
				break
			}
		}
	}
	for _, col := range columns {
		if _, ok := index[col.key]; ok {
			continue
		}
		for _, alias := range col.aliases {
			target := normalizeColumnName(alias)
			if len(target) < 4 {
				continue
			}
			for i, h := range normalized {
				if !claimed[i] && strings.Contains(h, target) {
					index[col.key] = i
					claimed[i] = true
					break
				}
			}
			if _, ok := index[col.key]; ok {
				break
			}
		}
	}
	return index
}

// findHeader scans the first rows of t for the one matching the most
// required columns. A missing required column aborts the import.
func findHeader(t *Table, columns []column) (header, error) {
	best := header{row: -1}
	bestScore := -1
	limit := minInt(len(t.Rows), headerScanRows)
	for r := 0; r < limit; r++ {
		index := matchColumns(t.Rows[r], columns)
		score := 0
		for _, col := range columns {
			if _, ok := index[col.key]; ok && col.required {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = header{row: r, index: index}, score
		}
	}

	for _, col := range columns {
		if col.required && !best.has(col.key) {
			return header{}, &domain.ImportError{File: t.Name, Column: col.key, Err: domain.ErrMissingColumn}
		}
	}
	return best, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// FoldLabel lowercases s, folds accents and collapses whitespace. It is the
// form product labels are compared under.
func FoldLabel(s string) string {
	return strings.Join(strings.Fields(accentFolder.Replace(strings.ToLower(s))), " ")
}
