package cli

import (
	"testing"

	"github.com/theirongolddev/subtrack/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := map[float64]string{
		0:         "$0.00",
		15.49:     "$15.49",
		43.3:      "$43.30",
		1234.5:    "$1,234.50",
		1_000_000: "$1,000,000.00",
		-2.5:      "-$2.50",
		0.125:     "$0.13",
	}
	for in, want := range tests {
		if got := FormatMoney(in); got != want {
			t.Fatalf("FormatMoney(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	s := model.Subscription{Amount: 9.99, Recurrence: model.RecurWeekly}
	if got := FormatPrice(s); got != "$9.99/wk" {
		t.Fatalf("FormatPrice = %q", got)
	}
	s.Recurrence = model.RecurNone
	if got := FormatPrice(s); got != "$9.99 one-time" {
		t.Fatalf("FormatPrice = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Spotify Premium", 8); got != "Spotify…" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("abc", 8); got != "abc" {
		t.Fatalf("Truncate short = %q", got)
	}
}
