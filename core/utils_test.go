package core

import (
	"testing"
	"time"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		lower bool
		want  string
	}{
		{name: "trims", in: "  Aziza  ", want: "Aziza"},
		{name: "lowers", in: " AzizBek ", lower: true, want: "azizbek"},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanString(tt.in, tt.lower); got != tt.want {
				t.Errorf("CleanString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{name: "grouped with currency", in: "1,200,000 so'm", want: 1200000},
		{name: "negative with fraction", in: "-$45.50", want: -45},
		{name: "explicit plus", in: "+$100", want: 100},
		{name: "plain digits", in: "250000", want: 250000},
		{name: "whitespace", in: "  42  ", want: 42},
		{name: "fraction only dropped", in: "0.99", want: 0},
		{name: "garbage", in: "free!", want: 0},
		{name: "empty", in: "", want: 0},
		{name: "lone sign", in: "-", want: 0},
		{name: "sign after digits ignored", in: "45-", want: 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.in); got != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateKey(t *testing.T) {
	d := time.Date(2021, time.September, 6, 23, 59, 0, 0, time.UTC)
	if got := DateKey(d); got != "2021-09-06" {
		t.Errorf("DateKey() = %q, want %q", got, "2021-09-06")
	}
}
