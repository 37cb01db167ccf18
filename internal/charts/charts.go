// Package charts renders spending analytics as PNG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/theirongolddev/subtrack/internal/model"
)

// ErrNoData is returned when there is nothing non-zero to plot.
var ErrNoData = errors.New("charts: no data to plot")

// Kind selects which chart to render.
type Kind string

const (
	KindForecast Kind = "forecast"
	KindFolders  Kind = "folders"
	KindTags     Kind = "tags"
	KindTrend    Kind = "trend"
)

// Kinds lists every supported chart kind.
var Kinds = []Kind{KindForecast, KindFolders, KindTags, KindTrend}

// ParseKind resolves a chart kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q (want forecast, folders, tags or trend)", s)
}

const (
	width  = 960
	height = 480
)

var (
	accent     = drawing.ColorFromHex("3AA99F")
	background = chart.Style{
		Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		FillColor: chart.ColorWhite,
	}
)

// Forecast renders the monthly forecast series as a bar chart.
func Forecast(w io.Writer, points []model.ForecastPoint, currency string) error {
	bars := make([]chart.Value, 0, len(points))
	var peak float64
	for _, p := range points {
		bars = append(bars, chart.Value{
			Label: p.Month.Format("Jan 06"),
			Value: p.Amount,
			Style: chart.Style{FillColor: accent, StrokeColor: accent},
		})
		peak = max(peak, p.Amount)
	}
	if peak <= 0 {
		return ErrNoData
	}

	bc := chart.BarChart{
		Title:      "Forecast",
		Width:      width,
		Height:     height,
		BarWidth:   40,
		BarSpacing: 20,
		Background: background,
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
			ValueFormatter: moneyFormatter(currency),
		},
		Bars: bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering forecast chart: %w", err)
	}
	return nil
}

// Breakdown renders folder or tag slices as a pie chart. Zero slices are
// left out.
func Breakdown(w io.Writer, title string, slices []model.Slice, currency string) error {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Amount <= 0 {
			continue
		}
		color := hexColor(s.Color)
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s%.2f", s.Name, currency, s.Amount),
			Value: s.Amount,
			Style: chart.Style{FillColor: color, StrokeColor: chart.ColorWhite},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: background,
		Values:     values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering %s chart: %w", strings.ToLower(title), err)
	}
	return nil
}

// Trend renders the simulated spending trend as a line over time.
func Trend(w io.Writer, points []model.TrendPoint, currency string) error {
	if len(points) < 2 {
		return ErrNoData
	}
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	var peak float64
	for i, p := range points {
		xs[i] = p.Month.Time()
		ys[i] = p.Amount
		peak = max(peak, p.Amount)
	}
	if peak <= 0 {
		return ErrNoData
	}

	graph := chart.Chart{
		Title:      "Spending trend",
		Width:      width,
		Height:     height,
		Background: background,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 06"),
		},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
			ValueFormatter: moneyFormatter(currency),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Spend",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: accent,
					StrokeWidth: 3,
					FillColor:   accent.WithAlpha(60),
				},
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering trend chart: %w", err)
	}
	return nil
}

func moneyFormatter(currency string) chart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%s%.0f", currency, f)
		}
		return ""
	}
}

func hexColor(s string) drawing.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 3 {
		return accent
	}
	return drawing.ColorFromHex(s)
}
