package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosedAllDay(t *testing.T) {
	moved := &Redistribution{SameDayOtherSlotPercent: 0, NextDayPercent: 100}
	c := ClosureConfig{Days: map[Day]DayClosure{
		Monday:    FullDayClosure(StatusRegularlyClosed, nil),
		Tuesday:   FullDayClosure(StatusExceptionallyClosed, moved),
		Wednesday: {AM: HalfDayClosure{Status: StatusRegularlyClosed}, PM: HalfDayClosure{Status: StatusExceptionallyClosed, Redistribution: moved}},
		Thursday:  {AM: HalfDayClosure{Status: StatusRegularlyClosed}, PM: HalfDayClosure{Status: StatusOpen}},
	}}

	tests := []struct {
		day  Day
		want bool
	}{
		{Monday, true},
		{Tuesday, true},
		{Wednesday, true},
		{Thursday, false},
		{Friday, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.ClosedAllDay(tt.day), tt.day.String())
	}

	assert.False(t, ClosureConfig{}.ClosedAllDay(Sunday))
}
