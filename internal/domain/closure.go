package domain

import (
	"fmt"
	"math"
)

// Redistribution tells where the production of an exceptionally closed half
// day goes. The two percentages must add up to 100.
type Redistribution struct {
	SameDayOtherSlotPercent float64 `json:"same_day_other_slot_percent"`
	NextDayPercent          float64 `json:"next_day_percent"`
}

// Total returns the redistributed share in percent.
func (r Redistribution) Total() float64 {
	return r.SameDayOtherSlotPercent + r.NextDayPercent
}

// HalfDayClosure is the closure state of one half day.
type HalfDayClosure struct {
	Status         ClosureStatus   `json:"status"`
	Redistribution *Redistribution `json:"redistribution,omitempty"`
}

// Open reports whether production happens during the half day.
func (h HalfDayClosure) Open() bool {
	return h.Status == "" || h.Status == StatusOpen
}

// DayClosure is the closure state of a whole day.
type DayClosure struct {
	AM HalfDayClosure `json:"am"`
	PM HalfDayClosure `json:"pm"`
}

// Half returns the closure of one half of the day.
func (d DayClosure) Half(h HalfDay) HalfDayClosure {
	if h == AM {
		return d.AM
	}
	return d.PM
}

// FullDayClosure closes both halves with the same status and redistribution.
func FullDayClosure(status ClosureStatus, r *Redistribution) DayClosure {
	return DayClosure{
		AM: HalfDayClosure{Status: status, Redistribution: r},
		PM: HalfDayClosure{Status: status, Redistribution: r},
	}
}

// ClosureConfig holds the closures of the planned week. Days absent from the
// map are fully open.
type ClosureConfig struct {
	Days map[Day]DayClosure `json:"days,omitempty"`
}

// Half returns the closure of a half day.
func (c ClosureConfig) Half(d Day, h HalfDay) HalfDayClosure {
	day, ok := c.Days[d]
	if !ok {
		return HalfDayClosure{Status: StatusOpen}
	}
	return day.Half(h)
}

// IsOpen reports whether the half day is open.
func (c ClosureConfig) IsOpen(d Day, h HalfDay) bool {
	return c.Half(d, h).Open()
}

// SlotOpen reports whether a production slot is open.
func (c ClosureConfig) SlotOpen(d Day, s Slot) bool {
	return c.IsOpen(d, s.HalfDay())
}

// ClosedAllDay reports whether neither half of the day is open, whatever
// the kind of closure.
func (c ClosureConfig) ClosedAllDay(d Day) bool {
	return !c.IsOpen(d, AM) && !c.IsOpen(d, PM)
}

// Clone returns a deep copy.
func (c ClosureConfig) Clone() ClosureConfig {
	if c.Days == nil {
		return ClosureConfig{}
	}
	out := ClosureConfig{Days: make(map[Day]DayClosure, len(c.Days))}
	for d, day := range c.Days {
		out.Days[d] = DayClosure{AM: cloneHalf(day.AM), PM: cloneHalf(day.PM)}
	}
	return out
}

func cloneHalf(h HalfDayClosure) HalfDayClosure {
	if h.Redistribution != nil {
		r := *h.Redistribution
		h.Redistribution = &r
	}
	return h
}

const percentTolerance = 1e-6

// Validate checks every exceptional closure carries a redistribution whose
// percentages add up to 100. Invalid entries are reported, never corrected.
func (c ClosureConfig) Validate() error {
	var errs ValidationErrors
	for _, d := range Week {
		day, ok := c.Days[d]
		if !ok {
			continue
		}
		for _, h := range []HalfDay{AM, PM} {
			half := day.Half(h)
			field := fmt.Sprintf("closures.%s.%s", d, h)
			switch half.Status {
			case "", StatusOpen, StatusRegularlyClosed:
				continue
			case StatusExceptionallyClosed:
			default:
				errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("unknown status %q", half.Status)})
				continue
			}
			r := half.Redistribution
			if r == nil {
				errs = append(errs, ValidationError{Field: field, Message: "exceptional closure requires a redistribution", Err: ErrInvalidRedistribution})
				continue
			}
			if r.SameDayOtherSlotPercent < 0 || r.NextDayPercent < 0 {
				errs = append(errs, ValidationError{Field: field, Message: "redistribution percentages must be positive", Err: ErrInvalidRedistribution})
				continue
			}
			if math.Abs(r.Total()-100) > percentTolerance {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("redistribution percentages sum to %.2f, expected 100", r.Total()),
					Err:     ErrInvalidRedistribution,
				})
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
