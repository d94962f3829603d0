package course

import (
	"testing"
	"time"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Weekdays
	}{
		{name: "single", in: "monday", want: Monday},
		{name: "several", in: "monday, wednesday, friday", want: Monday | Wednesday | Friday},
		{name: "mixed case and spacing", in: " Tuesday ,THURSDAY", want: Tuesday | Thursday},
		{name: "unknown tokens ignored", in: "monday,someday,", want: Monday},
		{name: "empty", in: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseWeekdays(tt.in); got != tt.want {
				t.Errorf("ParseWeekdays(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekdaysString(t *testing.T) {
	w := Monday | Wednesday | Friday
	if got := w.String(); got != "monday,wednesday,friday" {
		t.Errorf("String() = %q", got)
	}
	if ParseWeekdays(w.String()) != w {
		t.Error("String() does not round-trip through ParseWeekdays()")
	}
}

func TestFromTime(t *testing.T) {
	tests := []struct {
		day  time.Weekday
		want Weekdays
	}{
		{time.Monday, Monday},
		{time.Wednesday, Wednesday},
		{time.Saturday, Saturday},
		{time.Sunday, Sunday},
	}
	for _, tt := range tests {
		if got := FromTime(tt.day); got != tt.want {
			t.Errorf("FromTime(%v) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestCourseMeetsOn(t *testing.T) {
	crs := Course{Days: Monday | Wednesday}
	if !crs.MeetsOn(time.Monday) {
		t.Error("expected course to meet on Monday")
	}
	if crs.MeetsOn(time.Tuesday) {
		t.Error("did not expect course to meet on Tuesday")
	}

	daily := Course{Daily: true}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if !daily.MeetsOn(d) {
			t.Errorf("expected daily course to meet on %v", d)
		}
	}
}

func TestCourseDailyFee(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		want  int64
	}{
		{name: "even split", price: 1200000, want: 100000},
		{name: "rounds down", price: 100, want: 8}, // 8.33
		{name: "rounds up", price: 115, want: 10},  // 9.58
		{name: "zero", price: 0, want: 0},
		{name: "negative", price: -500, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crs := Course{MonthlyPrice: tt.price}
			if got := crs.DailyFee(); got != tt.want {
				t.Errorf("DailyFee() = %d, want %d", got, tt.want)
			}
		})
	}
}
