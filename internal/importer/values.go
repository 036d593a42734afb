package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseFlexibleDate is the single place raw spreadsheet dates are read:
// Excel serial numbers, French day-first dates and ISO dates or datetimes.
func ParseFlexibleDate(s string) (domain.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Date{}, fmt.Errorf("%w: empty value", domain.ErrUnparseableDate)
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 || serial > 2958465 {
			return domain.Date{}, fmt.Errorf("%w: serial %q out of range", domain.ErrUnparseableDate, s)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return domain.Date{}, fmt.Errorf("%w: %q: %v", domain.ErrUnparseableDate, s, err)
		}
		return domain.DateOf(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DateOf(t), nil
		}
	}
	return domain.Date{}, fmt.Errorf("%w: %q", domain.ErrUnparseableDate, s)
}

var numberCleaner = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "€", "", "%", "")

// parseNumber reads quantities written with either decimal separator and
// optional thousands separators. Blank cells are 0.
func parseNumber(s string) (float64, error) {
	s = numberCleaner.Replace(strings.TrimSpace(s))
	if s == "" || s == "-" {
		return 0, nil
	}

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidNumber, s)
	}
	return v, nil
}

var hourPattern = regexp.MustCompile(`(\d{1,2})\s*(?:h|:|$|-|à|a)`)

// parseSlotLabel reads a slot name or an hour band such as "10h-12h".
func parseSlotLabel(s string) (domain.Slot, bool) {
	if slot, err := domain.ParseSlot(s); err == nil {
		return slot, true
	}
	key := normalizeColumnName(s)
	switch {
	case strings.HasPrefix(key, "ouverture"), strings.HasPrefix(key, "opening"), strings.HasPrefix(key, "<"):
		return domain.Morning, true
	case strings.HasPrefix(key, "fermeture"), strings.HasPrefix(key, "closing"), strings.HasPrefix(key, ">"):
		return domain.Evening, true
	}
	m := hourPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return 0, false
	}
	return domain.SubSlotForHour(hour).Slot(), true
}

// parseDayValue reads a weekday name or a date.
func parseDayValue(s string) (domain.Day, error) {
	if d, err := domain.ParseDay(s); err == nil {
		return d, nil
	}
	date, err := ParseFlexibleDate(s)
	if err != nil {
		return 0, err
	}
	return date.Weekday(), nil
}
