package domain

import (
	"fmt"
	"strings"
	"time"
)

// Day is a day of the planned week, Monday first.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Week lists the days in planning order.
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayKeys = [...]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var dayLabels = [...]string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}

var dayAliases = map[string]Day{
	"mon": Monday, "monday": Monday, "lun": Monday, "lundi": Monday,
	"tue": Tuesday, "tuesday": Tuesday, "mar": Tuesday, "mardi": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday, "mer": Wednesday, "mercredi": Wednesday,
	"thu": Thursday, "thursday": Thursday, "jeu": Thursday, "jeudi": Thursday,
	"fri": Friday, "friday": Friday, "ven": Friday, "vendredi": Friday,
	"sat": Saturday, "saturday": Saturday, "sam": Saturday, "samedi": Saturday,
	"sun": Sunday, "sunday": Sunday, "dim": Sunday, "dimanche": Sunday,
}

func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("day(%d)", int(d))
	}
	return dayKeys[d]
}

// Label returns the French display name used on printed plans.
func (d Day) Label() string {
	if !d.Valid() {
		return d.String()
	}
	return dayLabels[d]
}

// Next returns the following day of the same week. Sunday has none.
func (d Day) Next() (Day, bool) {
	if d >= Sunday || !d.Valid() {
		return 0, false
	}
	return d + 1, true
}

func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid day %d", int(d))
	}
	return []byte(dayKeys[d]), nil
}

func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDay accepts short keys, English and French day names.
func ParseDay(s string) (Day, error) {
	key := strings.Trim(strings.ToLower(strings.TrimSpace(s)), ".")
	if d, ok := dayAliases[key]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// DayFromWeekday maps a time.Weekday onto the Monday-first planning week.
func DayFromWeekday(w time.Weekday) Day {
	if w == time.Sunday {
		return Sunday
	}
	return Day(w - 1)
}

// Slot is one of the three daily production runs.
type Slot int

const (
	Morning Slot = iota
	Midday
	Evening
)

// Slots lists the slots in production order.
var Slots = []Slot{Morning, Midday, Evening}

var slotKeys = [...]string{"morning", "midday", "evening"}

var slotAliases = map[string]Slot{
	"morning": Morning, "matin": Morning, "am": Morning,
	"midday": Midday, "midi": Midday, "noon": Midday, "apresmidi": Midday, "afternoon": Midday,
	"evening": Evening, "soir": Evening, "soiree": Evening,
}

func (s Slot) Valid() bool {
	return s >= Morning && s <= Evening
}

func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotKeys[s]
}

// HalfDay returns the closure half the slot belongs to.
func (s Slot) HalfDay() HalfDay {
	if s == Morning {
		return AM
	}
	return PM
}

func (s Slot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid slot %d", int(s))
	}
	return []byte(slotKeys[s]), nil
}

func (s *Slot) UnmarshalText(text []byte) error {
	parsed, err := ParseSlot(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSlot accepts English and French slot names.
func ParseSlot(s string) (Slot, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "", "è", "e", "é", "e").Replace(strings.ToLower(strings.TrimSpace(s)))
	if slot, ok := slotAliases[key]; ok {
		return slot, nil
	}
	return 0, fmt.Errorf("unknown slot %q", s)
}

// SubSlot is one of the six hour bands found in till exports.
type SubSlot int

const (
	BandOpeningTo10 SubSlot = iota
	Band10To12
	Band12To14
	Band14To16
	Band16To18
	Band18ToClosing
)

// SubSlotForHour returns the band a starting hour falls into.
func SubSlotForHour(hour int) SubSlot {
	switch {
	case hour < 10:
		return BandOpeningTo10
	case hour < 12:
		return Band10To12
	case hour < 14:
		return Band12To14
	case hour < 16:
		return Band14To16
	case hour < 18:
		return Band16To18
	default:
		return Band18ToClosing
	}
}

// Slot merges the band into its production slot: the two before-noon bands
// are morning, the two middle bands midday, the two closing bands evening.
func (b SubSlot) Slot() Slot {
	switch b {
	case BandOpeningTo10, Band10To12:
		return Morning
	case Band12To14, Band14To16:
		return Midday
	default:
		return Evening
	}
}

// HalfDay is the closure granularity: AM covers the morning slot, PM the
// midday and evening slots.
type HalfDay int

const (
	AM HalfDay = iota
	PM
)

func (h HalfDay) String() string {
	if h == AM {
		return "am"
	}
	return "pm"
}

func (h HalfDay) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *HalfDay) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "am", "matin":
		*h = AM
	case "pm", "apres-midi", "aprem":
		*h = PM
	default:
		return fmt.Errorf("unknown half day %q", string(text))
	}
	return nil
}

// Other returns the opposite half of the same day.
func (h HalfDay) Other() HalfDay {
	if h == AM {
		return PM
	}
	return AM
}

// Slots returns the production slots covered by the half day.
func (h HalfDay) Slots() []Slot {
	if h == AM {
		return []Slot{Morning}
	}
	return []Slot{Midday, Evening}
}

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) Weekday() Day {
	return DayFromWeekday(d.t.Weekday())
}

func (d Date) ISOWeek() (year, week int) {
	return d.t.ISOWeek()
}

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(dateLayout, string(text))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", string(text), err)
	}
	*d = DateOf(t)
	return nil
}
