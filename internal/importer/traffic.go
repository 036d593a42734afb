package importer

import (
	"io"
	"sort"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

const (
	colDay     = "day"
	colSlot    = "slot"
	colTickets = "tickets"
)

var trafficLongColumns = []column{
	{key: colDay, aliases: []string{"jour", "day", "date", "jour semaine"}, required: true},
	{key: colSlot, aliases: []string{"creneau", "tranche", "tranche horaire", "plage horaire", "heure", "slot", "horaire"}, required: true},
	{key: colTickets, aliases: []string{"tickets", "nb tickets", "nombre de tickets", "clients", "nb clients", "frequentation", "passages"}, required: true},
}

var trafficDayColumn = []column{trafficLongColumns[0]}

type slotKey struct {
	day  domain.Day
	slot domain.Slot
}

// ParseTraffic reads a ticket-count export for one comparison week. Both the
// long layout (one row per day and slot) and the wide layout (one row per day,
// one column per slot or hour band) are accepted. Hour bands are merged into
// the three production slots.
func ParseTraffic(name string, r io.Reader, week domain.WeekOffset) ([]domain.TrafficRecord, error) {
	t, err := Open(name, r)
	if err != nil {
		return nil, err
	}
	return TrafficFromTable(t, week)
}

// TrafficFromTable parses an already opened table.
func TrafficFromTable(t *Table, week domain.WeekOffset) ([]domain.TrafficRecord, error) {
	totals := make(map[slotKey]float64)

	h, err := findHeader(t, trafficLongColumns)
	if err == nil {
		if err := readLongTraffic(t, h, totals); err != nil {
			return nil, err
		}
	} else {
		wide, slotCols, werr := findWideHeader(t)
		if werr != nil {
			return nil, err
		}
		if err := readWideTraffic(t, wide, slotCols, totals); err != nil {
			return nil, err
		}
	}

	if len(totals) == 0 {
		return nil, &domain.ImportError{File: t.Name, Err: domain.ErrEmptyFile}
	}

	records := make([]domain.TrafficRecord, 0, len(totals))
	for k, tickets := range totals {
		records = append(records, domain.TrafficRecord{Day: k.day, Slot: k.slot, Tickets: tickets, Week: week})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Day != records[j].Day {
			return records[i].Day < records[j].Day
		}
		return records[i].Slot < records[j].Slot
	})
	return records, nil
}

func readLongTraffic(t *Table, h header, totals map[slotKey]float64) error {
	for i := h.row + 1; i < len(t.Rows); i++ {
		row := t.Rows[i]
		if blank(row) {
			continue
		}
		raw := h.get(row, colDay)
		if raw == "" || isTotal(raw) {
			continue
		}
		day, err := parseDayValue(raw)
		if err != nil {
			return rowError(t, i, colDay, err)
		}
		slot, ok := parseSlotLabel(h.get(row, colSlot))
		if !ok {
			// totals and unknown bands are not part of any slot
			continue
		}
		tickets, err := parseNumber(h.get(row, colTickets))
		if err != nil {
			return rowError(t, i, colTickets, err)
		}
		totals[slotKey{day: day, slot: slot}] += tickets
	}
	return nil
}

// findWideHeader looks for a row with a day column and at least one column
// named after a slot or an hour band.
func findWideHeader(t *Table) (header, map[int]domain.Slot, error) {
	h, err := findHeader(t, trafficDayColumn)
	if err != nil {
		return header{}, nil, err
	}
	dayIdx := h.index[colDay]
	slotCols := make(map[int]domain.Slot)
	for i, name := range t.Rows[h.row] {
		if i == dayIdx || name == "" {
			continue
		}
		if slot, ok := parseSlotLabel(name); ok {
			slotCols[i] = slot
		}
	}
	if len(slotCols) == 0 {
		return header{}, nil, &domain.ImportError{File: t.Name, Column: colSlot, Err: domain.ErrMissingColumn}
	}
	return h, slotCols, nil
}

func readWideTraffic(t *Table, h header, slotCols map[int]domain.Slot, totals map[slotKey]float64) error {
	for i := h.row + 1; i < len(t.Rows); i++ {
		row := t.Rows[i]
		raw := h.get(row, colDay)
		if blank(row) || raw == "" || isTotal(raw) {
			continue
		}
		day, err := parseDayValue(raw)
		if err != nil {
			return rowError(t, i, colDay, err)
		}
		for idx, slot := range slotCols {
			tickets, err := parseNumber(cell(row, idx))
			if err != nil {
				return rowError(t, i, t.Rows[h.row][idx], err)
			}
			totals[slotKey{day: day, slot: slot}] += tickets
		}
	}
	return nil
}

func isTotal(s string) bool {
	key := normalizeColumnName(s)
	return key == "total" || key == "totaux" || key == "soustotal"
}
