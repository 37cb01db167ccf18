package charts

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/subtrack/internal/model"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func month(y, m int) model.Date {
	return model.NewDate(y, time.Month(m), 1)
}

func TestForecastRendersPNG(t *testing.T) {
	points := []model.ForecastPoint{
		{Month: month(2025, 1), Amount: 42.5},
		{Month: month(2025, 2), Amount: 42.5},
		{Month: month(2025, 3), Amount: 0},
	}
	var buf bytes.Buffer
	if err := Forecast(&buf, points, "$"); err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestForecastAllZero(t *testing.T) {
	points := []model.ForecastPoint{{Month: month(2025, 1)}}
	err := Forecast(&bytes.Buffer{}, points, "$")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestBreakdownSkipsZeroSlices(t *testing.T) {
	slices := []model.Slice{
		{Name: "Streaming", Amount: 30, Color: "#3B82F6"},
		{Name: "Unfiled", Amount: 0, Color: "#6B7280"},
		{Name: "Work", Amount: 12, Color: "bad"},
	}
	var buf bytes.Buffer
	if err := Breakdown(&buf, "Folders", slices, "$"); err != nil {
		t.Fatalf("Breakdown: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatal("output is not a PNG")
	}

	err := Breakdown(&bytes.Buffer{}, "Tags", []model.Slice{{Name: "x"}}, "$")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestTrendFlatSeries(t *testing.T) {
	var points []model.TrendPoint
	for m := 1; m <= 6; m++ {
		points = append(points, model.TrendPoint{Month: month(2025, m), Amount: 15.99})
	}
	var buf bytes.Buffer
	if err := Trend(&buf, points, "€"); err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatal("output is not a PNG")
	}

	if err := Trend(&bytes.Buffer{}, points[:1], "€"); !errors.Is(err, ErrNoData) {
		t.Fatalf("single point err = %v, want ErrNoData", err)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Folders "); err != nil || k != KindFolders {
		t.Fatalf("ParseKind = %q, %v", k, err)
	}
	if _, err := ParseKind("radar"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
