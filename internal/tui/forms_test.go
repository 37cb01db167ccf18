package tui

import (
	"errors"
	"testing"

	"github.com/theirongolddev/subtrack/internal/model"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		err  error
	}{
		{"15.49", 15.49, nil},
		{" 0 ", 0, nil},
		{"", 0, errAmountRequired},
		{"   ", 0, errAmountRequired},
		{"-3", 0, model.ErrNegativeAmount},
		{"Inf", 0, model.ErrInvalidAmount},
		{"-inf", 0, model.ErrInvalidAmount},
		{"NaN", 0, model.ErrInvalidAmount},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Fatalf("parseAmount(%q) err = %v, want %v", tt.in, err, tt.err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("parseAmount(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := parseAmount("abc"); err == nil {
		t.Fatal("parseAmount(abc) accepted a non-number")
	}
}

func TestSubscriptionValuesRequireAmount(t *testing.T) {
	v := &SubscriptionValues{Name: "Gym", Date: "2025-01-01", Recurrence: "monthly"}
	if _, err := v.Subscription(); !errors.Is(err, errAmountRequired) {
		t.Fatalf("missing amount err = %v, want errAmountRequired", err)
	}

	v.Amount = "40"
	s, err := v.Subscription()
	if err != nil {
		t.Fatalf("Subscription() = %v", err)
	}
	if s.Amount != 40 || s.Tag != model.DefaultTag {
		t.Fatalf("subscription = %+v", s)
	}
}
