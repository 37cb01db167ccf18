package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/charts"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

var (
	flagChartKind   string
	flagChartOutput string
	flagChartMonths int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a PNG chart: forecast, folders, tags or trend",
	Example: `  subtrack chart --kind forecast -o forecast.png
  subtrack chart --kind tags -o tags.png`,
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&flagChartKind, "kind", "k", string(charts.KindForecast), "forecast, folders, tags or trend")
	chartCmd.Flags().StringVarP(&flagChartOutput, "output", "o", "", "PNG file to write (required)")
	chartCmd.Flags().IntVarP(&flagChartMonths, "months", "m", 12, "Forecast months, 1-12")
	_ = chartCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(chartCmd)
}

func runChart(_ *cobra.Command, _ []string) error {
	kind, err := charts.ParseKind(flagChartKind)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := os.Create(flagChartOutput)
	if err != nil {
		return fmt.Errorf("creating %s: %w", flagChartOutput, err)
	}

	subs := s.coll.Subscriptions()
	currency := s.cfg.General.CurrencySymbol
	switch kind {
	case charts.KindForecast:
		err = charts.Forecast(f, pipeline.ForecastSeries(model.Active(subs), s.today, flagChartMonths), currency)
	case charts.KindFolders:
		err = charts.Breakdown(f, "Monthly spend by folder", pipeline.BreakdownByFolder(subs, s.coll.Folders()), currency)
	case charts.KindTags:
		err = charts.Breakdown(f, "Monthly spend by tag", pipeline.BreakdownByTag(subs), currency)
	case charts.KindTrend:
		err = charts.Trend(f, pipeline.SpendingTrend(subs, s.today), currency)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(flagChartOutput)
		return fmt.Errorf("%s chart: %w", kind, err)
	}

	progressf("  Wrote %s\n", flagChartOutput)
	return nil
}
